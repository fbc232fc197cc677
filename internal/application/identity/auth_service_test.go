package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domainidentity "github.com/residency/backend/internal/domain/identity"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/infrastructure/auth"
	"github.com/residency/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainidentity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domainidentity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByIDAndRoleNot(ctx context.Context, id uuid.UUID, excluded domainidentity.Role) (*domainidentity.User, error) {
	args := m.Called(ctx, id, excluded)
	user, _ := args.Get(0).(*domainidentity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domainidentity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domainidentity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domainidentity.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]domainidentity.User)
	return users, args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *domainidentity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newAuthFixture() (*AuthService, *mockUserRepository, *auth.JWTService, *auth.MemoryTokenBlacklist) {
	userRepo := new(mockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "residency-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewMemoryTokenBlacklist()
	svc := NewAuthService(userRepo, jwtService, blacklist, zap.NewNop())
	return svc, userRepo, jwtService, blacklist
}

func hashedUser(t *testing.T, password string) *domainidentity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := domainidentity.NewUser("Ada", "Lovelace", "ada@example.com", string(hash), domainidentity.RoleResident)
	require.NoError(t, err)
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		svc, userRepo, jwtService, _ := newAuthFixture()
		user := hashedUser(t, "correct horse")

		userRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

		resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct horse"})
		require.NoError(t, err)

		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, "RESIDENT", resp.User.Role)

		claims, err := jwtService.ValidateAccessToken(resp.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		user := hashedUser(t, "correct horse")

		userRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()

		userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the access token", func(t *testing.T) {
		svc, _, jwtService, blacklist := newAuthFixture()

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, pair.AccessToken))

		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		assert.Error(t, svc.Logout(ctx, "garbage"))
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()

		userRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Grace",
			Email:     "new@example.com",
			Password:  "hunter2hunter2",
			Role:      "guest",
		})
		require.NoError(t, err)

		assert.Equal(t, "GUEST", resp.Role)
		saved := userRepo.Calls[len(userRepo.Calls)-1].Arguments.Get(1).(*domainidentity.User)
		assert.NotEqual(t, "hunter2hunter2", saved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("hunter2hunter2")))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		user := hashedUser(t, "pw")

		userRepo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada",
			Email:     "ada@example.com",
			Password:  "hunter2hunter2",
			Role:      "RESIDENT",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()

		_, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada",
			Email:     "x@example.com",
			Password:  "hunter2hunter2",
			Role:      "LANDLORD",
		})
		assert.Error(t, err)
	})
}
