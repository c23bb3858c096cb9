package account

import (
	"context"
	"errors"

	"inkwell/infrastructure"
)

// EnsureSentinel provisions the reserved "deleted" account if it is absent.
// Deletion integrity depends on it existing; run this at startup.
func EnsureSentinel(ctx context.Context, accounts Storage) (*Account, error) {
	sentinel, err := accounts.ByUsername(ctx, SentinelUsername)
	if err == nil {
		return sentinel, nil
	}
	if !errors.Is(err, infrastructure.ErrAccountNotFound) {
		return nil, err
	}

	sentinel = &Account{
		Username: SentinelUsername,
		Email:    "deleted@invalid.local",
		// No credentials: the sentinel never authenticates.
		PasswordHash: "!",
		Role:         RoleReader,
		Status:       StatusDeactivated,
	}
	if err := accounts.Save(ctx, sentinel); err != nil {
		return nil, err
	}
	return sentinel, nil
}
