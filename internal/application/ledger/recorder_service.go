package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/identity"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/residency/backend/internal/domain/task"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxConflictRetries bounds how often a recording is replayed after the
// summary version check fails under concurrent writers.
const maxConflictRetries = 3

// RecorderService handles the write side of the ledger: recording
// income and expense payments and folding them into the running
// summary inside one transaction.
type RecorderService struct {
	uow      ledger.UnitOfWork
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRecorderService creates a new RecorderService
func NewRecorderService(uow ledger.UnitOfWork, userRepo identity.UserRepository, logger *zap.Logger) *RecorderService {
	return &RecorderService{
		uow:      uow,
		userRepo: userRepo,
		logger:   logger,
	}
}

// RecordIncomeRequest represents a request to record an income payment
type RecordIncomeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	UserIDs     []uuid.UUID     `json:"userIds" binding:"required,min=1"`
}

// RecordExpenseRequest represents a request to record an expense
// payment. Files arrive through the multipart form, not the JSON part.
type RecordExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	TaskID      *uuid.UUID      `json:"taskId"`
	Files       []ledger.AttachmentInput
}

// ShareResponse represents one user's share in API responses
type ShareResponse struct {
	UserID uuid.UUID       `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// AttachmentResponse describes a stored receipt without its bytes
type AttachmentResponse struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID            `json:"id"`
	Kind        string               `json:"kind"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	CreatedBy   uuid.UUID            `json:"createdBy"`
	TaskID      *uuid.UUID           `json:"taskId,omitempty"`
	Shares      []ShareResponse      `json:"shares,omitempty"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// RecordIncome records an income payment split equally across the
// given users and updates the running summary atomically.
func (s *RecorderService) RecordIncome(ctx context.Context, actorID uuid.UUID, req RecordIncomeRequest) (*PaymentResponse, error) {
	if _, err := s.requireRecorder(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindAllByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(req.UserIDs) {
		return nil, shared.NewDomainError("NOT_FOUND", "One or more users not found")
	}

	payment, err := ledger.NewIncomePayment(actorID, valueobject.NewMoneyUSD(req.Amount), req.Description, req.UserIDs)
	if err != nil {
		return nil, err
	}

	if err := s.commitPayment(ctx, payment, nil); err != nil {
		return nil, err
	}

	s.logger.Info("income payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.Int("shares", len(payment.Shares)))

	return toPaymentResponse(payment), nil
}

// RecordExpense records an expense payment with its receipt files,
// optionally settling a completed task, and updates the running
// summary atomically.
func (s *RecorderService) RecordExpense(ctx context.Context, actorID uuid.UUID, req RecordExpenseRequest) (*PaymentResponse, error) {
	if _, err := s.requireRecorder(ctx, actorID); err != nil {
		return nil, err
	}

	payment, err := ledger.NewExpensePayment(actorID, valueobject.NewMoneyUSD(req.Amount), req.Description, req.Files)
	if err != nil {
		return nil, err
	}

	if err := s.commitPayment(ctx, payment, req.TaskID); err != nil {
		return nil, err
	}

	s.logger.Info("expense payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.Int("attachments", len(payment.Attachments)))

	return toPaymentResponse(payment), nil
}

// requireRecorder loads the acting user and rejects guests. Guests can
// read role-scoped views but never write to the ledger.
func (s *RecorderService) requireRecorder(ctx context.Context, actorID uuid.UUID) (*identity.User, error) {
	actor, err := s.userRepo.FindByIDAndRoleNot(ctx, actorID, identity.RoleGuest)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return actor, nil
}

// commitPayment persists the payment, the optional task link and the
// summary update in one transaction. When the summary version check
// fails, or a racing writer creates the first summary row before we
// do, the whole read-apply-write cycle is replayed on a fresh
// snapshot, up to maxConflictRetries times.
func (s *RecorderService) commitPayment(ctx context.Context, payment *ledger.Payment, taskID *uuid.UUID) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = s.uow.Execute(ctx, func(repos ledger.TxRepositories) error {
			summary, err := repos.Summaries.Current(ctx)
			if err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				summary = ledger.NewLedgerSummary()
				if err := repos.Summaries.Save(ctx, summary); err != nil {
					return err
				}
			}

			if err := summary.Apply(payment.Kind, payment.Amount); err != nil {
				return err
			}

			payment.AttachToSummary(summary.ID)

			if taskID != nil {
				if err := s.settleTask(ctx, repos.Tasks, payment, *taskID); err != nil {
					return err
				}
			}

			if err := repos.Payments.Save(ctx, payment); err != nil {
				return err
			}
			return repos.Summaries.SaveWithLock(ctx, summary)
		})
		if err == nil || !isConcurrencyConflict(err) {
			return err
		}
		s.logger.Warn("summary version conflict, retrying",
			zap.String("payment_id", payment.ID.String()),
			zap.Int("attempt", attempt))
	}
	return shared.NewDomainError("CONCURRENCY_CONFLICT", "Ledger summary was modified concurrently, please retry")
}

// settleTask links the expense payment to a completed, unpaid task
func (s *RecorderService) settleTask(ctx context.Context, tasks task.Repository, payment *ledger.Payment, taskID uuid.UUID) error {
	t, err := tasks.FindByIDAndStatus(ctx, taskID, task.StatusCompleted)
	if err != nil {
		return err
	}
	if t == nil {
		return shared.NewDomainError("NOT_FOUND", "Task not found or not completed")
	}

	if err := payment.LinkTask(t.ID); err != nil {
		return err
	}
	if err := t.LinkPayment(payment.ID); err != nil {
		return err
	}
	return tasks.SaveWithLock(ctx, t)
}

func isConcurrencyConflict(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "CONCURRENCY_CONFLICT"
}

func toPaymentResponse(p *ledger.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:          p.ID,
		Kind:        p.Kind.String(),
		Amount:      p.Amount,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		TaskID:      p.TaskID,
		CreatedAt:   p.CreatedAt,
	}
	for _, share := range p.Shares {
		resp.Shares = append(resp.Shares, ShareResponse{
			UserID: share.UserID,
			Amount: share.Amount,
		})
	}
	for _, att := range p.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	return resp
}
