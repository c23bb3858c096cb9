package verification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/infrastructure"
	"inkwell/internal/account"
)

// Store is the shared mutable surface of the verification controller: the
// token table plus the account lookups and mutations redemption performs.
// Transaction hands the callback a Store bound to a single atomic unit.
// Callers never write tokens around the controller; the one-token-per-
// (account, variant) invariant lives in the controller's delete-before-
// create, while key uniqueness is backed by the store's unique index.
type Store interface {
	TokenByKey(ctx context.Context, variant Variant, key string) (*Token, error)
	TokenForAccount(ctx context.Context, variant Variant, accountID uint) (*Token, error)
	KeyInUse(ctx context.Context, key string) (bool, error)
	SaveToken(ctx context.Context, token *Token) error
	UpdateToken(ctx context.Context, token *Token) error
	DeleteToken(ctx context.Context, tokenID uint) error
	DeleteAccountTokens(ctx context.Context, variant Variant, accountID uint) error

	// PendingEmailTaken reports whether another account already has an
	// email-update token targeting the address. The requesting account's
	// own pending token does not count: re-requesting the same address is
	// allowed and just rotates the key.
	PendingEmailTaken(ctx context.Context, email string, excludeAccountID uint) (bool, error)

	AccountByID(ctx context.Context, id uint) (*account.Account, error)
	AccountByEmail(ctx context.Context, email string) (*account.Account, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	CreateAccount(ctx context.Context, acct *account.Account) error
	UpdateAccount(ctx context.Context, acct *account.Account) error

	Transaction(ctx context.Context, fn func(Store) error) error
}

type GormStore struct {
	db       *gorm.DB
	accounts *account.GormStorage
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, accounts: account.NewGormStorage(db)}
}

func (s *GormStore) TokenByKey(ctx context.Context, variant Variant, key string) (*Token, error) {
	var token Token
	err := s.db.WithContext(ctx).
		Where("variant = ? AND key = ?", variant, key).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, infrastructure.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (s *GormStore) TokenForAccount(ctx context.Context, variant Variant, accountID uint) (*Token, error) {
	var token Token
	err := s.db.WithContext(ctx).
		Where("variant = ? AND account_id = ?", variant, accountID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, infrastructure.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (s *GormStore) KeyInUse(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Token{}).Where("key = ?", key).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) SaveToken(ctx context.Context, token *Token) error {
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormStore) UpdateToken(ctx context.Context, token *Token) error {
	return s.db.WithContext(ctx).Save(token).Error
}

func (s *GormStore) DeleteToken(ctx context.Context, tokenID uint) error {
	return s.db.WithContext(ctx).Delete(&Token{}, tokenID).Error
}

func (s *GormStore) DeleteAccountTokens(ctx context.Context, variant Variant, accountID uint) error {
	return s.db.WithContext(ctx).
		Where("variant = ? AND account_id = ?", variant, accountID).
		Delete(&Token{}).Error
}

// PurgeAccountTokens drops every live token of the account, all variants.
// Satisfies account.TokenPurger for the deletion workflow.
func (s *GormStore) PurgeAccountTokens(ctx context.Context, accountID uint) error {
	return s.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&Token{}).Error
}

func (s *GormStore) PendingEmailTaken(ctx context.Context, email string, excludeAccountID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Token{}).
		Where("variant = ? AND new_email = ? AND account_id <> ?", VariantEmailUpdate, email, excludeAccountID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) AccountByID(ctx context.Context, id uint) (*account.Account, error) {
	return s.accounts.ByID(ctx, id)
}

func (s *GormStore) AccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.accounts.ByEmail(ctx, email)
}

func (s *GormStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.accounts.EmailTaken(ctx, email)
}

func (s *GormStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.accounts.UsernameTaken(ctx, username)
}

func (s *GormStore) CreateAccount(ctx context.Context, acct *account.Account) error {
	return s.accounts.Save(ctx, acct)
}

func (s *GormStore) UpdateAccount(ctx context.Context, acct *account.Account) error {
	return s.accounts.Update(ctx, acct)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
