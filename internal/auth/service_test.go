package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inkwell/infrastructure"
	"inkwell/internal/account"
)

type fakeProvider struct {
	accounts map[string]*account.Account
}

func (f *fakeProvider) ByID(_ context.Context, id uint) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (f *fakeProvider) ByUsername(_ context.Context, username string) (*account.Account, error) {
	if a, ok := f.accounts[username]; ok {
		return a, nil
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (f *fakeProvider) ByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (f *fakeProvider) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := f.ByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeProvider) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, ok := f.accounts[username]
	return ok, nil
}

func newTestService(t *testing.T, accounts ...*account.Account) *Service {
	t.Helper()
	provider := &fakeProvider{accounts: make(map[string]*account.Account)}
	for _, a := range accounts {
		provider.accounts[a.Username] = a
	}
	return NewService(provider, []byte("test-secret"))
}

func activeAccount(t *testing.T, username, email, password string) *account.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &account.Account{
		ID:           1,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         account.RoleAuthor,
		Status:       account.StatusActive,
	}
}

func TestLogin(t *testing.T) {
	alice := activeAccount(t, "alice", "alice@example.com", "Str0ng!Pass")
	svc := newTestService(t, alice)

	pair, acct, err := svc.Login(context.Background(), "alice@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.Username)

	claims, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.AccountID)
	assert.Equal(t, account.RoleAuthor, claims.Role)
}

func TestLogin_Rejections(t *testing.T) {
	alice := activeAccount(t, "alice", "alice@example.com", "Str0ng!Pass")
	pending := activeAccount(t, "bob", "bob@example.com", "Str0ng!Pass")
	pending.ID = 2
	pending.Status = account.StatusPending
	svc := newTestService(t, alice, pending)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)

	// An account that never verified its email cannot log in.
	_, _, err = svc.Login(context.Background(), "bob@example.com", "Str0ng!Pass")
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	alice := activeAccount(t, "alice", "alice@example.com", "Str0ng!Pass")
	svc := newTestService(t, alice)

	pair, _, err := svc.Login(context.Background(), "alice@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.VerifyAccess(fresh.AccessToken)
	assert.NoError(t, err)

	// An access token is not accepted in place of a refresh token.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
}

func TestVerifyAccess_RejectsRefreshTokenAndGarbage(t *testing.T) {
	alice := activeAccount(t, "alice", "alice@example.com", "Str0ng!Pass")
	svc := newTestService(t, alice)

	pair, _, err := svc.Login(context.Background(), "alice@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)

	_, err = svc.VerifyAccess("not.a.token")
	assert.ErrorIs(t, err, infrastructure.ErrUnauthorized)
}
