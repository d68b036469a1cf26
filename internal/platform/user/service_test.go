package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feyli/moneymood/internal/platform/user"
)

// memoryRepo is an in-memory user.Repository.
type memoryRepo struct {
	users map[string]*user.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*user.User)}
}

func (r *memoryRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.users[u.Email]; ok {
		return user.ErrUserAlreadyExists
	}
	copied := *u
	r.users[u.Email] = &copied
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid registration",
			email:    "user@example.com",
			password: "SecureP@ssw0rd",
		},
		{
			name:     "minimum valid password length",
			email:    "user2@example.com",
			password: "12345678",
		},
		{
			name:     "password too short",
			email:    "user@example.com",
			password: "short",
			wantErr:  user.ErrPasswordTooShort,
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "SecureP@ssw0rd",
			wantErr:  user.ErrInvalidEmail,
		},
		{
			name:     "empty email",
			email:    "",
			password: "SecureP@ssw0rd",
			wantErr:  user.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := user.NewService(newMemoryRepo())
			u, err := svc.Register(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, u.Email)
			assert.NotEqual(t, uuid.Nil, u.ID)
			// The plain password is never stored.
			assert.NotEmpty(t, u.PasswordHash)
			assert.NotEqual(t, tt.password, u.PasswordHash)
		})
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepo())

	_, err := svc.Register(ctx, "user@example.com", "SecureP@ssw0rd")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "user@example.com", "AnotherP@ss1")
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepo())

	registered, err := svc.Register(ctx, "user@example.com", "SecureP@ssw0rd")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "user@example.com", "SecureP@ssw0rd")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Login(ctx, "user@example.com", "WrongPassword1")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)

	// An unknown email fails the same way as a wrong password.
	_, err = svc.Login(ctx, "nobody@example.com", "SecureP@ssw0rd")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)
}

func TestServiceGetByID(t *testing.T) {
	ctx := context.Background()
	svc := user.NewService(newMemoryRepo())

	registered, err := svc.Register(ctx, "user@example.com", "SecureP@ssw0rd")
	require.NoError(t, err)

	u, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
