package account

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/infrastructure"
)

type Provider interface {
	ByID(ctx context.Context, id uint) (*Account, error)
	ByUsername(ctx context.Context, username string) (*Account, error)
	ByEmail(ctx context.Context, email string) (*Account, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type Saver interface {
	Save(ctx context.Context, acct *Account) error
}

type Updater interface {
	Update(ctx context.Context, acct *Account) error
}

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) ByID(ctx context.Context, id uint) (*Account, error) {
	var acct Account
	if err := s.db.WithContext(ctx).First(&acct, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, infrastructure.ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (s *GormStorage) ByUsername(ctx context.Context, username string) (*Account, error) {
	var acct Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, infrastructure.ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (s *GormStorage) ByEmail(ctx context.Context, email string) (*Account, error) {
	var acct Account
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, infrastructure.ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (s *GormStorage) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Account{}).
		Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (s *GormStorage) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Account{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *GormStorage) Save(ctx context.Context, acct *Account) error {
	return s.db.WithContext(ctx).Create(acct).Error
}

func (s *GormStorage) Update(ctx context.Context, acct *Account) error {
	return s.db.WithContext(ctx).Save(acct).Error
}
