package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/identity"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/task"
	"github.com/shopspring/decimal"
)

// dailyWindowDays is the length of the daily totals window, today
// included. The window always renders in full, with zero rows for
// days without activity.
const dailyWindowDays = 10

// ReaderService serves the read side of the ledger: daily totals, the
// overview and the combined feed, each framed for the caller's role.
type ReaderService struct {
	paymentRepo ledger.PaymentRepository
	summaryRepo ledger.SummaryRepository
	taskRepo    task.Repository
	userRepo    identity.UserRepository
}

// NewReaderService creates a new ReaderService
func NewReaderService(
	paymentRepo ledger.PaymentRepository,
	summaryRepo ledger.SummaryRepository,
	taskRepo task.Repository,
	userRepo identity.UserRepository,
) *ReaderService {
	return &ReaderService{
		paymentRepo: paymentRepo,
		summaryRepo: summaryRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// DailyTotalResponse is one day's income and expense sums
type DailyTotalResponse struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// OverviewResponse carries the global and per-user running totals
type OverviewResponse struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	UserTotalIncome  decimal.Decimal `json:"userTotalIncome"`
	UserTotalExpense decimal.Decimal `json:"userTotalExpense"`
}

// FeedUserResponse identifies the user who recorded a feed entry
type FeedUserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// FeedTaskResponse describes the completed task an expense entry settles
type FeedTaskResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

// FeedAttachmentsResponse groups a feed entry's receipt files with the
// descriptor of the task it settles
type FeedAttachmentsResponse struct {
	Files []AttachmentResponse `json:"files"`
	Task  *FeedTaskResponse    `json:"task,omitempty"`
}

// CombinedEntryResponse is one row of the combined payment feed
type CombinedEntryResponse struct {
	ID          uuid.UUID               `json:"id"`
	Kind        string                  `json:"kind"`
	Description string                  `json:"description"`
	Credit      decimal.Decimal         `json:"credit"`
	Debit       decimal.Decimal         `json:"debit"`
	CreatedBy   *FeedUserResponse       `json:"createdBy,omitempty"`
	Shares      []ShareResponse         `json:"shares"`
	Attachments FeedAttachmentsResponse `json:"attachments"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// ReceiptResponse carries a stored receipt file for download
type ReceiptResponse struct {
	FileName string
	MimeType string
	Data     []byte
}

// DailyTotals returns per-day income and expense sums for the last
// dailyWindowDays calendar days, oldest first. Every day in the window
// is present even when nothing was recorded on it.
func (s *ReaderService) DailyTotals(ctx context.Context, actorID uuid.UUID) ([]DailyTotalResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	payments, err := s.candidatePayments(ctx, actor)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}

	today := startOfDay(time.Now())
	windowStart := today.AddDate(0, 0, -(dailyWindowDays - 1))

	buckets := make(map[string]*bucket, dailyWindowDays)
	for i := 0; i < dailyWindowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		buckets[day.Format("2006-01-02")] = &bucket{income: decimal.Zero, expense: decimal.Zero}
	}

	for i := range payments {
		p := &payments[i]
		b, ok := buckets[p.CreatedAt.In(time.Local).Format("2006-01-02")]
		if !ok {
			continue
		}
		income, expense := s.frameAmounts(actor, p)
		b.income = b.income.Add(income)
		b.expense = b.expense.Add(expense)
	}

	totals := make([]DailyTotalResponse, 0, dailyWindowDays)
	for i := 0; i < dailyWindowDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		b := buckets[day]
		totals = append(totals, DailyTotalResponse{Date: day, Income: b.income, Expense: b.expense})
	}
	return totals, nil
}

// Overview returns the global running totals alongside the caller's
// personal totals. Guests see zeroed global figures and their earnings
// from assigned tasks.
func (s *ReaderService) Overview(ctx context.Context, actorID uuid.UUID) (*OverviewResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resp := &OverviewResponse{
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		UserTotalIncome:  decimal.Zero,
		UserTotalExpense: decimal.Zero,
	}

	if actor.IsGuest() {
		payments, err := s.paymentRepo.FindByTaskAssignee(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for i := range payments {
			resp.UserTotalIncome = resp.UserTotalIncome.Add(payments[i].Amount)
		}
		return resp, nil
	}

	summary, err := s.summaryRepo.Current(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if summary != nil {
		resp.TotalIncome = summary.TotalIncome
		resp.TotalExpense = summary.TotalExpense
	}

	payments, err := s.paymentRepo.FindByCreatedOrShared(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		p := &payments[i]
		switch p.Kind {
		case ledger.KindIncome:
			if share, ok := p.ShareFor(actor.ID); ok {
				resp.UserTotalIncome = resp.UserTotalIncome.Add(share)
			}
		case ledger.KindExpense:
			resp.UserTotalExpense = resp.UserTotalExpense.Add(p.Amount)
		}
	}
	return resp, nil
}

// CombinedFeed returns the caller's visible payments as a single
// credit/debit feed, newest first. Each entry carries the creator, the
// per-user shares and the receipt files plus settled-task descriptor.
func (s *ReaderService) CombinedFeed(ctx context.Context, actorID uuid.UUID) ([]CombinedEntryResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	payments, err := s.candidatePayments(ctx, actor)
	if err != nil {
		return nil, err
	}

	creators, err := s.feedCreators(ctx, payments)
	if err != nil {
		return nil, err
	}

	taskCache := make(map[uuid.UUID]*FeedTaskResponse)
	entries := make([]CombinedEntryResponse, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		entry := CombinedEntryResponse{
			ID:          p.ID,
			Kind:        p.Kind.String(),
			Description: p.Description,
			Credit:      decimal.Zero,
			Debit:       decimal.Zero,
			CreatedBy:   creators[p.CreatedBy],
			Shares:      make([]ShareResponse, 0, len(p.Shares)),
			Attachments: FeedAttachmentsResponse{Files: make([]AttachmentResponse, 0, len(p.Attachments))},
			CreatedAt:   p.CreatedAt,
		}
		for _, share := range p.Shares {
			entry.Shares = append(entry.Shares, ShareResponse{
				UserID: share.UserID,
				Amount: share.Amount,
			})
		}
		for _, att := range p.Attachments {
			entry.Attachments.Files = append(entry.Attachments.Files, AttachmentResponse{
				ID:        att.ID,
				FileName:  att.FileName,
				MimeType:  att.MimeType,
				SizeBytes: att.SizeBytes,
			})
		}
		if p.TaskID != nil {
			descriptor, err := s.feedTask(ctx, taskCache, *p.TaskID)
			if err != nil {
				return nil, err
			}
			entry.Attachments.Task = descriptor
		}
		income, expense := s.frameAmounts(actor, p)
		entry.Credit = income
		entry.Debit = expense
		if actor.IsGuest() {
			// Guests see their paid-out task work as earnings.
			entry.Kind = ledger.KindIncome.String()
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Receipt loads one stored receipt file. Admins, the recording user
// and the assignee of the linked task may download it.
func (s *ReaderService) Receipt(ctx context.Context, actorID, paymentID, fileID uuid.UUID) (*ReceiptResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}

	if err := s.authorizeReceipt(ctx, actor, payment); err != nil {
		return nil, err
	}

	for _, att := range payment.Attachments {
		if att.ID == fileID {
			return &ReceiptResponse{
				FileName: att.FileName,
				MimeType: att.MimeType,
				Data:     att.Data,
			}, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
}

func (s *ReaderService) authorizeReceipt(ctx context.Context, actor *identity.User, payment *ledger.Payment) error {
	if actor.Role == identity.RoleAdmin || payment.CreatedBy == actor.ID {
		return nil
	}
	if payment.TaskID != nil {
		t, err := s.taskRepo.FindByID(ctx, *payment.TaskID)
		if err != nil {
			return err
		}
		if t != nil && t.AssignedTo != nil && *t.AssignedTo == actor.ID {
			return nil
		}
	}
	return shared.NewDomainError("FORBIDDEN", "Not allowed to access this receipt")
}

func (s *ReaderService) requireActor(ctx context.Context, actorID uuid.UUID) (*identity.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return actor, nil
}

// feedCreators batch-loads the recording users of the given payments
// and maps them by ID. Unknown creators are simply absent.
func (s *ReaderService) feedCreators(ctx context.Context, payments []ledger.Payment) (map[uuid.UUID]*FeedUserResponse, error) {
	seen := make(map[uuid.UUID]bool, len(payments))
	ids := make([]uuid.UUID, 0, len(payments))
	for i := range payments {
		id := payments[i].CreatedBy
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*FeedUserResponse{}, nil
	}

	users, err := s.userRepo.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	creators := make(map[uuid.UUID]*FeedUserResponse, len(users))
	for i := range users {
		u := &users[i]
		creators[u.ID] = &FeedUserResponse{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
	}
	return creators, nil
}

// feedTask loads the descriptor of a settled task, caching per feed
// build. A dangling task reference yields no descriptor.
func (s *ReaderService) feedTask(ctx context.Context, cache map[uuid.UUID]*FeedTaskResponse, taskID uuid.UUID) (*FeedTaskResponse, error) {
	if descriptor, ok := cache[taskID]; ok {
		return descriptor, nil
	}
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	var descriptor *FeedTaskResponse
	if t != nil {
		descriptor = &FeedTaskResponse{
			ID:         t.ID,
			Title:      t.Title,
			Status:     t.Status.String(),
			AssignedTo: t.AssignedTo,
		}
	}
	cache[taskID] = descriptor
	return descriptor, nil
}

// candidatePayments returns the payments visible to the actor.
// Admins see everything, residents see what they created or hold a
// share in, guests see expenses settling tasks assigned to them.
func (s *ReaderService) candidatePayments(ctx context.Context, actor *identity.User) ([]ledger.Payment, error) {
	switch actor.Role {
	case identity.RoleAdmin:
		return s.paymentRepo.FindAll(ctx)
	case identity.RoleGuest:
		return s.paymentRepo.FindExpensesByTaskAssignee(ctx, actor.ID)
	default:
		return s.paymentRepo.FindByCreatedOrShared(ctx, actor.ID)
	}
}

// frameAmounts maps one payment onto the actor's (income, expense)
// contribution. Admins count full amounts on both sides, residents
// count their own share of income and full expenses, guests count
// settled task expenses as income.
func (s *ReaderService) frameAmounts(actor *identity.User, p *ledger.Payment) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero

	if actor.IsGuest() {
		income = p.Amount
		return income, expense
	}

	switch p.Kind {
	case ledger.KindIncome:
		if actor.Role == identity.RoleAdmin {
			income = p.Amount
		} else if share, ok := p.ShareFor(actor.ID); ok {
			income = share
		}
	case ledger.KindExpense:
		expense = p.Amount
	}
	return income, expense
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
