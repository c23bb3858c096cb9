package blog

import (
	"context"

	"gorm.io/gorm"
)

// Store is the slice of content persistence the deletion-integrity handler
// works against. Transaction hands the callback a Store bound to one atomic
// unit; the reassignment either lands completely or not at all.
type Store interface {
	ReassignPosts(ctx context.Context, fromAccountID, toAccountID uint) error
	CommentsByAccount(ctx context.Context, accountID uint) ([]Comment, error)
	HasReplies(ctx context.Context, commentID uint) (bool, error)
	DeleteComment(ctx context.Context, commentID uint) error
	DeleteCommentReactions(ctx context.Context, commentID uint) error
	SoftDeleteComment(ctx context.Context, commentID, sentinelID uint) error
	ReassignReactions(ctx context.Context, fromAccountID, toAccountID uint) error

	Transaction(ctx context.Context, fn func(Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ReassignPosts(ctx context.Context, fromAccountID, toAccountID uint) error {
	return s.db.WithContext(ctx).Model(&Post{}).
		Where("author_id = ?", fromAccountID).
		Update("author_id", toAccountID).Error
}

func (s *GormStore) CommentsByAccount(ctx context.Context, accountID uint) ([]Comment, error) {
	var comments []Comment
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&comments).Error
	return comments, err
}

func (s *GormStore) HasReplies(ctx context.Context, commentID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Comment{}).
		Where("parent_id = ?", commentID).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) DeleteComment(ctx context.Context, commentID uint) error {
	return s.db.WithContext(ctx).Delete(&Comment{}, commentID).Error
}

func (s *GormStore) DeleteCommentReactions(ctx context.Context, commentID uint) error {
	return s.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Delete(&Reaction{}).Error
}

func (s *GormStore) SoftDeleteComment(ctx context.Context, commentID, sentinelID uint) error {
	return s.db.WithContext(ctx).Model(&Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{
			"account_id": sentinelID,
			"text":       "",
			"deleted":    true,
		}).Error
}

func (s *GormStore) ReassignReactions(ctx context.Context, fromAccountID, toAccountID uint) error {
	return s.db.WithContext(ctx).Model(&Reaction{}).
		Where("account_id = ?", fromAccountID).
		Update("account_id", toAccountID).Error
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
