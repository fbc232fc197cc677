package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/identity"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByIDAndRoleNot(ctx context.Context, id uuid.UUID, excluded identity.Role) (*identity.User, error) {
	args := m.Called(ctx, id, excluded)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]identity.User)
	return users, args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, id)
	payment, _ := args.Get(0).(*ledger.Payment)
	return payment, args.Error(1)
}

func (m *mockPaymentRepository) FindAll(ctx context.Context) ([]ledger.Payment, error) {
	args := m.Called(ctx)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

func (m *mockPaymentRepository) FindByCreatedOrShared(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

func (m *mockPaymentRepository) FindExpensesByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

func (m *mockPaymentRepository) FindByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

func (m *mockPaymentRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]ledger.Payment, error) {
	args := m.Called(ctx, start, end)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

type mockSummaryRepository struct {
	mock.Mock
}

func (m *mockSummaryRepository) Current(ctx context.Context) (*ledger.LedgerSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*ledger.LedgerSummary)
	return summary, args.Error(1)
}

func (m *mockSummaryRepository) Save(ctx context.Context, summary *ledger.LedgerSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockSummaryRepository) SaveWithLock(ctx context.Context, summary *ledger.LedgerSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

type mockTaskRepository struct {
	mock.Mock
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*task.Task)
	return t, args.Error(1)
}

func (m *mockTaskRepository) FindByIDAndStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	args := m.Called(ctx, id, status)
	t, _ := args.Get(0).(*task.Task)
	return t, args.Error(1)
}

func (m *mockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepository) SaveWithLock(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// fakeUnitOfWork runs the transactional function directly against the
// given repositories, without any real transaction.
type fakeUnitOfWork struct {
	repos    ledger.TxRepositories
	attempts int
}

func (f *fakeUnitOfWork) Execute(ctx context.Context, fn func(ledger.TxRepositories) error) error {
	f.attempts++
	return fn(f.repos)
}
