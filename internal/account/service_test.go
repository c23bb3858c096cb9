package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/infrastructure"
	"inkwell/internal/blog"
)

// -------- test fakes --------

type fakeStorage struct {
	byUsername map[string]*Account
	updated    []*Account
}

func newFakeStorage(accounts ...*Account) *fakeStorage {
	s := &fakeStorage{byUsername: make(map[string]*Account)}
	for _, a := range accounts {
		s.byUsername[a.Username] = a
	}
	return s
}

func (s *fakeStorage) ByID(_ context.Context, id uint) (*Account, error) {
	for _, a := range s.byUsername {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (s *fakeStorage) ByUsername(_ context.Context, username string) (*Account, error) {
	if a, ok := s.byUsername[username]; ok {
		return a, nil
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (s *fakeStorage) ByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range s.byUsername {
		if a.Email == NormalizeEmail(email) {
			return a, nil
		}
	}
	return nil, infrastructure.ErrAccountNotFound
}

func (s *fakeStorage) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := s.ByEmail(context.Background(), email)
	return err == nil, nil
}

func (s *fakeStorage) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, ok := s.byUsername[username]
	return ok, nil
}

func (s *fakeStorage) Save(_ context.Context, acct *Account) error {
	s.byUsername[acct.Username] = acct
	return nil
}

func (s *fakeStorage) Update(_ context.Context, acct *Account) error {
	s.byUsername[acct.Username] = acct
	s.updated = append(s.updated, acct)
	return nil
}

type fakeContentStore struct {
	blog.Store
	reassignedFrom uint
	reassignedTo   uint
	calls          int
}

func (f *fakeContentStore) ReassignPosts(_ context.Context, from, to uint) error {
	f.reassignedFrom, f.reassignedTo = from, to
	f.calls++
	return nil
}

func (f *fakeContentStore) CommentsByAccount(_ context.Context, _ uint) ([]blog.Comment, error) {
	return nil, nil
}

func (f *fakeContentStore) ReassignReactions(_ context.Context, _, _ uint) error {
	return nil
}

func (f *fakeContentStore) Transaction(_ context.Context, fn func(blog.Store) error) error {
	return fn(f)
}

type fakePurger struct {
	purged []uint
	err    error
}

func (p *fakePurger) PurgeAccountTokens(_ context.Context, accountID uint) error {
	if p.err != nil {
		return p.err
	}
	p.purged = append(p.purged, accountID)
	return nil
}

type fakeTx struct {
	storage *fakeStorage
	content *fakeContentStore
	purger  *fakePurger
}

func (f *fakeTx) Accounts() Storage   { return f.storage }
func (f *fakeTx) Content() blog.Store { return f.content }
func (f *fakeTx) Tokens() TokenPurger { return f.purger }

// fakeRunner records whether the workflow committed or failed inside its
// single atomic unit.
type fakeRunner struct {
	tx         fakeTx
	calls      int
	rolledBack bool
}

func (r *fakeRunner) RunInTransaction(_ context.Context, fn func(Tx) error) error {
	r.calls++
	if err := fn(&r.tx); err != nil {
		r.rolledBack = true
		return err
	}
	return nil
}

func newTestService(storage *fakeStorage, content *fakeContentStore, purger *fakePurger) (*Service, *fakeRunner) {
	runner := &fakeRunner{tx: fakeTx{storage: storage, content: content, purger: purger}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(storage, runner, logger), runner
}

// -------- tests --------

func TestDelete_MissingSentinelHaltsDeletion(t *testing.T) {
	alice := &Account{ID: 1, Username: "alice", Email: "alice@example.com", Status: StatusActive}
	storage := newFakeStorage(alice)
	content := &fakeContentStore{}
	purger := &fakePurger{}
	svc, _ := newTestService(storage, content, purger)

	err := svc.Delete(context.Background(), "alice")
	require.ErrorIs(t, err, infrastructure.ErrSentinelMissing)

	assert.Equal(t, StatusActive, alice.Status, "deletion must halt before touching the account")
	assert.Zero(t, content.calls)
	assert.Empty(t, purger.purged)
}

func TestDelete(t *testing.T) {
	alice := &Account{ID: 1, Username: "alice", Email: "alice@example.com", Status: StatusActive}
	sentinel := &Account{ID: 99, Username: SentinelUsername, Status: StatusDeactivated}
	storage := newFakeStorage(alice, sentinel)
	content := &fakeContentStore{}
	purger := &fakePurger{}
	svc, runner := newTestService(storage, content, purger)

	require.NoError(t, svc.Delete(context.Background(), "alice"))

	assert.Equal(t, StatusDeactivated, alice.Status)
	assert.Equal(t, uint(1), content.reassignedFrom)
	assert.Equal(t, uint(99), content.reassignedTo)
	assert.Equal(t, []uint{1}, purger.purged)
	assert.Equal(t, 1, runner.calls, "the whole workflow shares one transaction")
	assert.False(t, runner.rolledBack)
}

func TestDelete_PurgeFailureRollsBackWorkflow(t *testing.T) {
	alice := &Account{ID: 1, Username: "alice", Email: "alice@example.com", Status: StatusActive}
	sentinel := &Account{ID: 99, Username: SentinelUsername, Status: StatusDeactivated}
	storage := newFakeStorage(alice, sentinel)
	content := &fakeContentStore{}
	purger := &fakePurger{err: errors.New("storage down")}
	svc, runner := newTestService(storage, content, purger)

	err := svc.Delete(context.Background(), "alice")
	require.Error(t, err)

	// The failure surfaced inside the transaction, so reassignment, purge
	// and deactivation unwind together.
	assert.True(t, runner.rolledBack)
	assert.Equal(t, StatusActive, alice.Status)
	assert.Empty(t, storage.updated)
}

func TestDelete_AlreadyDeactivated(t *testing.T) {
	alice := &Account{ID: 1, Username: "alice", Status: StatusDeactivated}
	sentinel := &Account{ID: 99, Username: SentinelUsername, Status: StatusDeactivated}
	svc, _ := newTestService(newFakeStorage(alice, sentinel), &fakeContentStore{}, &fakePurger{})

	err := svc.Delete(context.Background(), "alice")
	assert.ErrorIs(t, err, infrastructure.ErrAccountNotFound)
}

func TestUpdateProfile(t *testing.T) {
	alice := &Account{ID: 1, Username: "alice", Role: RoleReader, Status: StatusActive}
	svc, _ := newTestService(newFakeStorage(alice), &fakeContentStore{}, &fakePurger{})

	bio := "writes about Go"
	role := RoleAuthor
	acct, err := svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{Bio: &bio, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "writes about Go", acct.Bio)
	assert.Equal(t, RoleAuthor, acct.Role)

	bad := Role("SUPERUSER")
	_, err = svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{Role: &bad})
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)
}

func TestEnsureSentinel(t *testing.T) {
	storage := newFakeStorage()

	sentinel, err := EnsureSentinel(context.Background(), storage)
	require.NoError(t, err)
	assert.Equal(t, SentinelUsername, sentinel.Username)
	assert.Equal(t, StatusDeactivated, sentinel.Status)

	again, err := EnsureSentinel(context.Background(), storage)
	require.NoError(t, err)
	assert.Equal(t, sentinel, again)
}
