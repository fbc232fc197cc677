package models

import (
	"github.com/residency/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root
type UserModel struct {
	AggregateModel
	FirstName    string        `gorm:"type:varchar(100);not null"`
	LastName     string        `gorm:"type:varchar(100)"`
	Email        string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
}

// UserModelFromDomain creates a new persistence model from domain
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
