package account

import (
	"strings"
	"time"
)

type Role string

const (
	RoleReader Role = "READER"
	RoleAuthor Role = "AUTHOR"
	RoleAdmin  Role = "ADMIN"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleReader, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// Status is the account lifecycle state. A single tagged state replaces the
// is_active / is_email_verified flag pair: an account is either waiting on
// email verification, fully active, or soft-deleted.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusActive      Status = "ACTIVE"
	StatusDeactivated Status = "DEACTIVATED"
)

// SentinelUsername is the reserved username of the pre-provisioned account
// that adopts content authored by deleted users.
const SentinelUsername = "deleted"

type Account struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"size:9;not null;default:READER" json:"role"`
	Status       Status `gorm:"size:12;not null" json:"status"`
	Bio          string `gorm:"size:255" json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanAuthenticate reports whether the account may log in. Pending accounts
// must redeem their verification token first; deactivated accounts are gone.
func (a *Account) CanAuthenticate() bool {
	return a.Status == StatusActive
}

// NormalizeEmail strips surrounding whitespace and lowercases the address so
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
