package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root
type PaymentModel struct {
	AggregateModel
	Kind        ledger.Kind       `gorm:"type:varchar(10);not null;index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Description string            `gorm:"type:varchar(255)"`
	CreatedBy   uuid.UUID         `gorm:"type:uuid;not null;index"`
	TaskID      *uuid.UUID        `gorm:"type:uuid;uniqueIndex"`
	SummaryID   uuid.UUID         `gorm:"type:uuid;index"`
	Shares      []UserShareModel  `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
	Attachments []AttachmentModel `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// UserShareModel is the persistence model for a payment's user share
type UserShareModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserShareModel) TableName() string {
	return "user_shares"
}

// AttachmentModel is the persistence model for a payment receipt file
type AttachmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	MimeType  string    `gorm:"type:varchar(100)"`
	SizeBytes int64     `gorm:"not null;default:0"`
	Data      []byte    `gorm:"type:bytea;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// LedgerSummaryModel is the persistence model for the running summary.
// Singleton is constant true under a unique index so only one summary
// row can ever exist; a racing second insert fails on the index.
type LedgerSummaryModel struct {
	AggregateModel
	TotalIncome  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalExpense decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Singleton    bool            `gorm:"not null;default:true;uniqueIndex"`
}

// TableName returns the table name for GORM
func (LedgerSummaryModel) TableName() string {
	return "ledger_summaries"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *ledger.Payment {
	p := &ledger.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		Amount:            m.Amount,
		Description:       m.Description,
		CreatedBy:         m.CreatedBy,
		TaskID:            m.TaskID,
		SummaryID:         m.SummaryID,
	}
	for _, s := range m.Shares {
		p.Shares = append(p.Shares, ledger.UserShare{
			ID:        s.ID,
			UserID:    s.UserID,
			Amount:    s.Amount,
			CreatedAt: s.CreatedAt,
		})
	}
	for _, a := range m.Attachments {
		p.Attachments = append(p.Attachments, ledger.Attachment{
			ID:        a.ID,
			FileName:  a.FileName,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
			Data:      a.Data,
			CreatedAt: a.CreatedAt,
		})
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Kind = p.Kind
	m.Amount = p.Amount
	m.Description = p.Description
	m.CreatedBy = p.CreatedBy
	m.TaskID = p.TaskID
	m.SummaryID = p.SummaryID
	m.Shares = nil
	for _, s := range p.Shares {
		m.Shares = append(m.Shares, UserShareModel{
			ID:        s.ID,
			PaymentID: p.ID,
			UserID:    s.UserID,
			Amount:    s.Amount,
			CreatedAt: s.CreatedAt,
		})
	}
	m.Attachments = nil
	for _, a := range p.Attachments {
		m.Attachments = append(m.Attachments, AttachmentModel{
			ID:        a.ID,
			PaymentID: p.ID,
			FileName:  a.FileName,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
			Data:      a.Data,
			CreatedAt: a.CreatedAt,
		})
	}
}

// PaymentModelFromDomain creates a new persistence model from domain
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// ToDomain converts the persistence model to a domain LedgerSummary
func (m *LedgerSummaryModel) ToDomain() *ledger.LedgerSummary {
	return &ledger.LedgerSummary{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TotalIncome:       m.TotalIncome,
		TotalExpense:      m.TotalExpense,
	}
}

// FromDomain populates the persistence model from a domain LedgerSummary
func (m *LedgerSummaryModel) FromDomain(s *ledger.LedgerSummary) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.TotalIncome = s.TotalIncome
	m.TotalExpense = s.TotalExpense
	m.Singleton = true
}

// LedgerSummaryModelFromDomain creates a new persistence model from domain
func LedgerSummaryModelFromDomain(s *ledger.LedgerSummary) *LedgerSummaryModel {
	m := &LedgerSummaryModel{}
	m.FromDomain(s)
	return m
}
