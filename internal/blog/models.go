package blog

import "time"

type Category struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

type Post struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Title           string `gorm:"uniqueIndex;size:255;not null" json:"title"`
	Subtitle        string `gorm:"size:255" json:"subtitle"`
	Slug            string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Body            string `gorm:"type:text;not null" json:"body"`
	MetaDescription string `gorm:"size:150" json:"meta_description"`

	Published   bool       `json:"published"`
	PublishDate *time.Time `json:"publish_date,omitempty"`

	AuthorID   uint  `gorm:"not null;index" json:"author_id"`
	CategoryID uint  `gorm:"not null" json:"category_id"`
	Tags       []Tag `gorm:"many2many:post_tags" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a node in a per-post reply tree via ParentID. Deleted marks a
// soft-deleted comment kept only to preserve the structure of its replies.
type Comment struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	AccountID uint   `gorm:"not null;index" json:"account_id"`
	PostID    uint   `gorm:"not null;index" json:"post_id"`
	ParentID  *uint  `gorm:"index" json:"parent_id,omitempty"`
	Text      string `gorm:"type:text" json:"text"`
	Deleted   bool   `json:"deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReactionType string

const (
	ReactionNeutral ReactionType = "NEUTRAL"
	ReactionLike    ReactionType = "LIKE"
	ReactionDislike ReactionType = "DISLIKE"
)

type Reaction struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	AccountID uint         `gorm:"not null;uniqueIndex:idx_reactions_account_comment" json:"account_id"`
	CommentID uint         `gorm:"not null;uniqueIndex:idx_reactions_account_comment" json:"comment_id"`
	Type      ReactionType `gorm:"size:7;not null;default:NEUTRAL" json:"type"`
}
