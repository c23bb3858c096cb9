package verification

import "time"

// Variant names the purpose a token gates. The three variants share one
// shape and differ only in payload and configured lifetime.
type Variant string

const (
	VariantEmailVerify   Variant = "email_verify"
	VariantEmailUpdate   Variant = "email_update"
	VariantPasswordReset Variant = "password_reset"
)

// Token is a single-use verification token. Key is a 128-bit random value in
// canonical UUID form, unique across every variant; each account holds at
// most one live token per variant.
type Token struct {
	ID        uint    `gorm:"primarykey"`
	Key       string  `gorm:"uniqueIndex;size:36;not null"`
	Variant   Variant `gorm:"size:16;not null;index:idx_tokens_account_variant"`
	AccountID uint    `gorm:"not null;index:idx_tokens_account_variant"`
	CreatedAt time.Time

	// SendAttempts counts dispatched notifications for the email-verify
	// variant. It survives key regeneration: a resend carries the counter
	// over from the token it replaces.
	SendAttempts int

	// NewEmail is the pending destination address of an email-update token.
	NewEmail string `gorm:"size:255"`
}

// IsExpired is a pure function of CreatedAt and the configured lifetime.
// Tokens never extend their own expiry.
func (t *Token) IsExpired(now time.Time, lifetime time.Duration) bool {
	return !now.Before(t.CreatedAt.Add(lifetime))
}
