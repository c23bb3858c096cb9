package database

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/account"
	"inkwell/internal/blog"
	"inkwell/internal/verification"
)

// deletionTx binds the three stores the account-deletion workflow touches to
// one gorm transaction.
type deletionTx struct {
	accounts *account.GormStorage
	content  *blog.GormStore
	tokens   *verification.GormStore
}

func (t *deletionTx) Accounts() account.Storage   { return t.accounts }
func (t *deletionTx) Content() blog.Store         { return t.content }
func (t *deletionTx) Tokens() account.TokenPurger { return t.tokens }

// DeletionRunner implements account.TxRunner over a shared gorm handle.
type DeletionRunner struct {
	db *gorm.DB
}

func NewDeletionRunner(db *gorm.DB) *DeletionRunner {
	return &DeletionRunner{db: db}
}

func (r *DeletionRunner) RunInTransaction(ctx context.Context, fn func(account.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&deletionTx{
			accounts: account.NewGormStorage(tx),
			content:  blog.NewGormStore(tx),
			tokens:   verification.NewGormStore(tx),
		})
	})
}
