package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/task"
)

// PaymentRepository defines persistence operations for payments.
// All finders load the full payment graph: shares, attachments and the
// linked task, so read views never chase references lazily.
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context) ([]Payment, error)
	// FindByCreatedOrShared returns payments the user created or holds
	// a share in. This is the resident candidate set.
	FindByCreatedOrShared(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	// FindExpensesByTaskAssignee returns expense payments whose linked
	// task is assigned to the user. This is the guest candidate set.
	FindExpensesByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	// FindByTaskAssignee returns payments of any kind whose linked task
	// is assigned to the user.
	FindByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]Payment, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]Payment, error)
}

// SummaryRepository defines persistence operations for the running
// ledger summary.
type SummaryRepository interface {
	// Current returns the most recently created summary, or
	// shared.ErrNotFound if no payment has ever been recorded.
	Current(ctx context.Context) (*LedgerSummary, error)
	Save(ctx context.Context, summary *LedgerSummary) error
	// SaveWithLock saves the summary with an optimistic version check,
	// failing with CONCURRENCY_CONFLICT when another writer got there
	// first.
	SaveWithLock(ctx context.Context, summary *LedgerSummary) error
}

// TxRepositories bundles the repositories visible inside one unit of
// work. Everything done through them commits or rolls back together.
type TxRepositories struct {
	Payments  PaymentRepository
	Summaries SummaryRepository
	Tasks     task.Repository
}

// UnitOfWork opens a transaction boundary around payment recording.
// A payment, its shares/attachments, the task link and the summary
// update persist atomically or not at all.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}
