package services

import (
	"context"
	"testing"

	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "Coach@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", user.Email, "emails are normalized to lower case")
	assert.NotEqual(t, "secret123", user.PasswordHash, "passwords are never stored in the clear")

	logged, err := svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash, "login must not leak the hash")
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "coach@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "coach@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "coach@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "coach@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "", Password: "x"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
