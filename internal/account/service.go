package account

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/infrastructure"
	"inkwell/internal/blog"
)

// TokenPurger removes every live verification token bound to an account.
// Implemented by the verification store; declared here so account deletion
// can discard tokens without depending on the verification package.
type TokenPurger interface {
	PurgeAccountTokens(ctx context.Context, accountID uint) error
}

// Storage is the persistence surface the account workflows need.
type Storage interface {
	Provider
	Saver
	Updater
}

// Tx is the view of one atomic unit the deletion workflow mutates through:
// the account rows, the authored content, and the verification tokens.
type Tx interface {
	Accounts() Storage
	Content() blog.Store
	Tokens() TokenPurger
}

// TxRunner runs fn against a Tx bound to a single transaction. An error from
// fn rolls every store back together.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(Tx) error) error
}

type Service struct {
	accounts Storage
	tx       TxRunner
	logger   *slog.Logger
}

func NewService(accounts Storage, tx TxRunner, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, tx: tx, logger: logger}
}

func (s *Service) Get(ctx context.Context, username string) (*Account, error) {
	return s.accounts.ByUsername(ctx, username)
}

type UpdateProfileInput struct {
	Bio  *string
	Role *Role
}

// UpdateProfile mutates the mutable profile fields. Email changes go through
// the verification controller's email-update flow, never through here.
func (s *Service) UpdateProfile(ctx context.Context, username string, input UpdateProfileInput) (*Account, error) {
	acct, err := s.accounts.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		acct.Bio = *input.Bio
	}
	if input.Role != nil {
		if !ValidRole(*input.Role) {
			return nil, fmt.Errorf("%w: invalid role %q", infrastructure.ErrInvalidInput, *input.Role)
		}
		acct.Role = *input.Role
	}

	if err := s.accounts.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Delete soft-deletes an account. Authored content is handed to the sentinel
// account so no foreign key is left dangling, verification tokens are purged,
// and the account is deactivated — all in one transaction: a failure anywhere
// leaves the account exactly as it was.
func (s *Service) Delete(ctx context.Context, username string) error {
	var acct *Account
	err := s.tx.RunInTransaction(ctx, func(tx Tx) error {
		accounts := tx.Accounts()

		var err error
		acct, err = accounts.ByUsername(ctx, username)
		if err != nil {
			return err
		}
		if acct.Status == StatusDeactivated {
			return infrastructure.ErrAccountNotFound
		}

		sentinel, err := accounts.ByUsername(ctx, SentinelUsername)
		if err != nil {
			// A missing sentinel is a deployment defect. Halt the deletion
			// rather than corrupt authored-content references.
			return fmt.Errorf("%w: %v", infrastructure.ErrSentinelMissing, err)
		}

		if err := blog.ReassignAuthorship(ctx, tx.Content(), acct.ID, sentinel.ID); err != nil {
			return fmt.Errorf("reassign authored content: %w", err)
		}
		if err := tx.Tokens().PurgeAccountTokens(ctx, acct.ID); err != nil {
			return fmt.Errorf("purge verification tokens: %w", err)
		}

		acct.Status = StatusDeactivated
		return accounts.Update(ctx, acct)
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deactivated",
		slog.String("username", acct.Username), slog.Uint64("id", uint64(acct.ID)))
	return nil
}
