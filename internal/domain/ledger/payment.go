package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Kind represents the direction of a payment event
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// IsValid checks if the kind is a known Kind
func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// UserShare is one resident's portion of an income payment.
// Immutable once the payment is recorded.
type UserShare struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Attachment is receipt evidence stored with an expense payment.
// Immutable once the payment is recorded.
type Attachment struct {
	ID        uuid.UUID
	FileName  string
	MimeType  string
	SizeBytes int64
	Data      []byte
	CreatedAt time.Time
}

// AttachmentInput carries an uploaded receipt file into the domain
type AttachmentInput struct {
	FileName string
	MimeType string
	Size     int64
	Data     []byte
}

// Payment is an immutable financial event. There is no edit or delete
// path: once recorded, a payment only ever contributes to read views.
type Payment struct {
	shared.BaseAggregateRoot
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	CreatedBy   uuid.UUID
	TaskID      *uuid.UUID
	SummaryID   uuid.UUID
	Shares      []UserShare
	Attachments []Attachment
}

// NewIncomePayment creates an income payment split equally across the
// given users. The per-user amount is amount / len(userIDs); any
// division remainder stays unassigned, matching the observed ledger
// behavior (see DESIGN.md).
func NewIncomePayment(createdBy uuid.UUID, amount valueobject.Money, description string, userIDs []uuid.UUID) (*Payment, error) {
	if err := validateCommon(createdBy, amount, description); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "User list is required for income payment")
	}

	perUser, err := amount.Divide(decimal.NewFromInt(int64(len(userIDs))))
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	now := time.Now()
	shares := make([]UserShare, len(userIDs))
	for i, userID := range userIDs {
		if userID == uuid.Nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "User ID cannot be empty")
		}
		shares[i] = UserShare{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    perUser.Amount(),
			CreatedAt: now,
		}
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              KindIncome,
		Amount:            amount.Amount(),
		Description:       description,
		CreatedBy:         createdBy,
		Shares:            shares,
	}, nil
}

// NewExpensePayment creates an expense payment backed by at least one
// non-empty receipt file.
func NewExpensePayment(createdBy uuid.UUID, amount valueobject.Money, description string, files []AttachmentInput) (*Payment, error) {
	if err := validateCommon(createdBy, amount, description); err != nil {
		return nil, err
	}

	nonEmpty := 0
	for _, f := range files {
		if len(f.Data) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt file is required for expense payment")
	}

	now := time.Now()
	attachments := make([]Attachment, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		attachments = append(attachments, Attachment{
			ID:        uuid.New(),
			FileName:  f.FileName,
			MimeType:  f.MimeType,
			SizeBytes: f.Size,
			Data:      f.Data,
			CreatedAt: now,
		})
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              KindExpense,
		Amount:            amount.Amount(),
		Description:       description,
		CreatedBy:         createdBy,
		Attachments:       attachments,
	}, nil
}

func validateCommon(createdBy uuid.UUID, amount valueobject.Money, description string) error {
	if createdBy == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Creator user ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}
	if len(description) > 255 {
		return shared.NewDomainError("VALIDATION_ERROR", "Description cannot exceed 255 characters")
	}
	return nil
}

// LinkTask references the completed task this expense settles
func (p *Payment) LinkTask(taskID uuid.UUID) error {
	if p.Kind != KindExpense {
		return shared.NewDomainError("VALIDATION_ERROR", "Only expense payments can reference a task")
	}
	p.TaskID = &taskID
	return nil
}

// AttachToSummary records which ledger summary absorbed this payment
func (p *Payment) AttachToSummary(summaryID uuid.UUID) {
	p.SummaryID = summaryID
}

// ShareFor returns the given user's share amount, if any
func (p *Payment) ShareFor(userID uuid.UUID) (decimal.Decimal, bool) {
	for _, s := range p.Shares {
		if s.UserID == userID {
			return s.Amount, true
		}
	}
	return decimal.Zero, false
}

// SharesTotal returns the sum of all per-user share amounts
func (p *Payment) SharesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Shares {
		total = total.Add(s.Amount)
	}
	return total
}
