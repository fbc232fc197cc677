package task

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	amount := valueobject.NewMoneyUSDFromFloat(25)

	t.Run("creates pending task", func(t *testing.T) {
		task, err := NewTask("Mow the lawn", "front and back", amount)
		require.NoError(t, err)

		assert.Equal(t, StatusPending, task.Status)
		assert.Nil(t, task.AssignedTo)
		assert.Nil(t, task.PaymentID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask("", "", amount)
		assert.Error(t, err)
	})

	t.Run("rejects overlong title", func(t *testing.T) {
		_, err := NewTask(strings.Repeat("x", 101), "", amount)
		assert.Error(t, err)
	})

	t.Run("rejects overlong description", func(t *testing.T) {
		_, err := NewTask("ok", strings.Repeat("x", 501), amount)
		assert.Error(t, err)
	})
}

func TestTaskLifecycle(t *testing.T) {
	amount := valueobject.NewMoneyUSDFromFloat(10)

	newTask := func(t *testing.T) *Task {
		task, err := NewTask("Clean kitchen", "", amount)
		require.NoError(t, err)
		return task
	}

	t.Run("assign moves task in progress", func(t *testing.T) {
		task := newTask(t)
		assignee, assigner := uuid.New(), uuid.New()
		require.NoError(t, task.Assign(assignee, assigner))

		assert.Equal(t, StatusInProgress, task.Status)
		assert.Equal(t, assignee, *task.AssignedTo)
		assert.Equal(t, assigner, *task.AssignedBy)
	})

	t.Run("cannot assign completed task", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Complete())
		assert.Error(t, task.Assign(uuid.New(), uuid.New()))
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Complete())
		assert.Error(t, task.Complete())
	})
}

func TestTaskLinkPayment(t *testing.T) {
	amount := valueobject.NewMoneyUSDFromFloat(10)

	t.Run("links payment to completed task", func(t *testing.T) {
		task, err := NewTask("Fix fence", "", amount)
		require.NoError(t, err)
		require.NoError(t, task.Complete())

		paymentID := uuid.New()
		require.NoError(t, task.LinkPayment(paymentID))
		assert.True(t, task.HasPayment())
		assert.Equal(t, paymentID, *task.PaymentID)
	})

	t.Run("rejects payment on incomplete task", func(t *testing.T) {
		task, err := NewTask("Fix fence", "", amount)
		require.NoError(t, err)

		err = task.LinkPayment(uuid.New())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects second payment", func(t *testing.T) {
		task, err := NewTask("Fix fence", "", amount)
		require.NoError(t, err)
		require.NoError(t, task.Complete())
		require.NoError(t, task.LinkPayment(uuid.New()))

		err = task.LinkPayment(uuid.New())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})
}
