package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByIDAndRoleNot returns the user only if it exists and does not
	// hold the excluded role. Backs the recorder's non-guest actor check.
	FindByIDAndRoleNot(ctx context.Context, id uuid.UUID, excluded Role) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAllByIDs returns the users for the given ids. Callers compare
	// the result length against the input to detect unresolvable ids.
	FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)
	Save(ctx context.Context, user *User) error
}
