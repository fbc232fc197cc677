package models

import (
	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/task"
	"github.com/shopspring/decimal"
)

// TaskModel is the persistence model for the Task aggregate root
type TaskModel struct {
	AggregateModel
	Title         string          `gorm:"type:varchar(100);not null"`
	Description   string          `gorm:"type:varchar(500)"`
	Status        task.Status     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AssignedTo    *uuid.UUID      `gorm:"type:uuid;index"`
	AssignedBy    *uuid.UUID      `gorm:"type:uuid"`
	PaymentAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Status:            m.Status,
		AssignedTo:        m.AssignedTo,
		AssignedBy:        m.AssignedBy,
		PaymentAmount:     m.PaymentAmount,
		PaymentID:         m.PaymentID,
	}
}

// FromDomain populates the persistence model from a domain Task
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.Status = t.Status
	m.AssignedTo = t.AssignedTo
	m.AssignedBy = t.AssignedBy
	m.PaymentAmount = t.PaymentAmount
	m.PaymentID = t.PaymentID
}

// TaskModelFromDomain creates a new persistence model from domain
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
