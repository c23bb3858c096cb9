package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"inkwell/config"
	"inkwell/infrastructure"
	"inkwell/internal/account"
	"inkwell/internal/email"
)

const PasswordMinEntropyBits = 50

// Controller owns the account-lifecycle token state machine: issuing,
// validating and redeeming single-use tokens, and the account transitions a
// redemption performs. Every multi-write path runs inside one store
// transaction; flows that must observe a dispatch failure send the email
// inside that transaction so a transport error rolls the token mutation back.
type Controller struct {
	store   Store
	gateway email.Gateway
	cfg     *config.Config
	logger  *slog.Logger

	now func() time.Time
}

func NewController(store Store, gateway email.Gateway, cfg *config.Config, logger *slog.Logger) *Controller {
	return &Controller{
		store:   store,
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Controller) lifetime(variant Variant) time.Duration {
	switch variant {
	case VariantEmailVerify:
		return c.cfg.EmailVerifyTokenTTL
	case VariantEmailUpdate:
		return c.cfg.EmailUpdateTokenTTL
	case VariantPasswordReset:
		return c.cfg.PasswordResetTokenTTL
	default:
		panic(fmt.Sprintf("unknown token variant %q", variant))
	}
}

// issue creates a fresh token for the account. The caller must have removed
// any live token of the same variant first; resend and the request flows do
// that as part of their transaction. Key collisions are astronomically rare
// but checked anyway, regenerating key and creation time until free.
func (c *Controller) issue(ctx context.Context, s Store, variant Variant, accountID uint, newEmail string) (*Token, error) {
	token := &Token{
		Variant:   variant,
		AccountID: accountID,
		NewEmail:  newEmail,
	}
	for {
		token.Key = uuid.NewString()
		token.CreatedAt = c.now()
		inUse, err := s.KeyInUse(ctx, token.Key)
		if err != nil {
			return nil, err
		}
		if !inUse {
			break
		}
	}
	if err := s.SaveToken(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate checks a presented key without consuming it. Expiry is evaluated
// lazily here; there is no background sweeper.
func (c *Controller) Validate(ctx context.Context, variant Variant, key string) (*Token, error) {
	return c.validate(ctx, c.store, variant, key)
}

func (c *Controller) validate(ctx context.Context, s Store, variant Variant, key string) (*Token, error) {
	token, err := s.TokenByKey(ctx, variant, key)
	if err != nil {
		return nil, err
	}
	if token.IsExpired(c.now(), c.lifetime(variant)) {
		return nil, infrastructure.ErrTokenExpired
	}
	return token, nil
}

// Register provisions a pending account, issues its email-verify token and
// dispatches the registration email, all in one atomic unit. The attempt
// counter ends at one: the dispatch that just happened.
func (c *Controller) Register(ctx context.Context, username, emailAddr, password string) (*account.Account, *Token, error) {
	emailAddr = account.NormalizeEmail(emailAddr)
	if err := checkCredentials(emailAddr, password); err != nil {
		return nil, nil, err
	}
	if username == "" || username == account.SentinelUsername {
		return nil, nil, fmt.Errorf("%w: invalid username", infrastructure.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	var (
		acct  *account.Account
		token *Token
	)
	err = c.store.Transaction(ctx, func(tx Store) error {
		taken, err := tx.EmailTaken(ctx, emailAddr)
		if err != nil {
			return err
		}
		if taken {
			return infrastructure.ErrEmailTaken
		}
		taken, err = tx.UsernameTaken(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username %q already registered", infrastructure.ErrInvalidInput, username)
		}

		acct = &account.Account{
			Username:     username,
			Email:        emailAddr,
			PasswordHash: string(hash),
			Role:         account.RoleReader,
			Status:       account.StatusPending,
		}
		if err := tx.CreateAccount(ctx, acct); err != nil {
			return err
		}

		token, err = c.issue(ctx, tx, VariantEmailVerify, acct.ID, "")
		if err != nil {
			return err
		}
		return c.dispatch(ctx, tx, email.TemplateRegistration, acct.Email, token)
	})
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("account registered", slog.String("username", username))
	return acct, token, nil
}

// dispatch sends the notification and counts the attempt on email-verify
// tokens. It runs inside the caller's transaction: a transport error
// propagates and unwinds whatever token mutation preceded it.
func (c *Controller) dispatch(ctx context.Context, s Store, template, to string, token *Token) error {
	if err := c.gateway.Send(template, to, token.Key); err != nil {
		return err
	}
	if token.Variant == VariantEmailVerify {
		token.SendAttempts++
		if err := s.UpdateToken(ctx, token); err != nil {
			return err
		}
	}
	return nil
}

// Resend regenerates the email-verify token under a new key and dispatches
// it again. The old link dies with the old key, but the attempt budget is
// carried over, so forcing regeneration never buys extra sends. The delete
// and create share one transaction with the dispatch: a transport failure
// leaves the account holding exactly the token it had before the call.
func (c *Controller) Resend(ctx context.Context, emailAddr string) (*Token, *account.Account, error) {
	emailAddr = account.NormalizeEmail(emailAddr)

	var (
		acct  *account.Account
		fresh *Token
	)
	err := c.store.Transaction(ctx, func(tx Store) error {
		var err error
		acct, err = tx.AccountByEmail(ctx, emailAddr)
		if err != nil {
			return err
		}
		if acct.Status == account.StatusActive {
			return infrastructure.ErrAlreadyActive
		}

		old, err := tx.TokenForAccount(ctx, VariantEmailVerify, acct.ID)
		if err != nil {
			// A pending account always holds a verify token; its absence
			// means a deactivated account is probing this endpoint. Any
			// other store failure propagates as-is.
			if errors.Is(err, infrastructure.ErrTokenNotFound) {
				return infrastructure.ErrUnauthorized
			}
			return err
		}
		if old.SendAttempts >= c.cfg.MaxSendAttempts {
			return infrastructure.ErrAttemptsExceeded
		}

		if err := tx.DeleteToken(ctx, old.ID); err != nil {
			return err
		}
		fresh, err = c.issue(ctx, tx, VariantEmailVerify, acct.ID, "")
		if err != nil {
			return err
		}
		fresh.SendAttempts = old.SendAttempts

		return c.dispatch(ctx, tx, email.TemplateRegistration, acct.Email, fresh)
	})
	if err != nil {
		return nil, nil, err
	}
	return fresh, acct, nil
}

// RedeemEmailVerification consumes a verify token and activates its account.
// Redemption deletes the token, so a replayed key fails with not-found.
func (c *Controller) RedeemEmailVerification(ctx context.Context, key string) (*account.Account, error) {
	var acct *account.Account
	err := c.store.Transaction(ctx, func(tx Store) error {
		token, err := c.validate(ctx, tx, VariantEmailVerify, key)
		if err != nil {
			return err
		}
		acct, err = tx.AccountByID(ctx, token.AccountID)
		if err != nil {
			return err
		}
		acct.Status = account.StatusActive
		if err := tx.UpdateAccount(ctx, acct); err != nil {
			return err
		}
		return tx.DeleteToken(ctx, token.ID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("email verified", slog.String("username", acct.Username))
	return acct, nil
}

// RequestEmailUpdate issues an email-update token for the new address and
// mails the confirmation link to it. An existing update token is replaced
// with a fresh key even when the destination is unchanged.
func (c *Controller) RequestEmailUpdate(ctx context.Context, accountID uint, newEmail string) (*Token, error) {
	var token *Token
	err := c.store.Transaction(ctx, func(tx Store) error {
		acct, err := tx.AccountByID(ctx, accountID)
		if err != nil {
			return err
		}

		newEmail, err = c.checkNewEmail(ctx, tx, acct, newEmail)
		if err != nil {
			return err
		}

		if err := tx.DeleteAccountTokens(ctx, VariantEmailUpdate, acct.ID); err != nil {
			return err
		}
		token, err = c.issue(ctx, tx, VariantEmailUpdate, acct.ID, newEmail)
		if err != nil {
			return err
		}
		return c.dispatch(ctx, tx, email.TemplateUpdateEmail, newEmail, token)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (c *Controller) checkNewEmail(ctx context.Context, s Store, acct *account.Account, newEmail string) (string, error) {
	const maxLength = 255

	newEmail = account.NormalizeEmail(newEmail)
	if newEmail == "" {
		return "", fmt.Errorf("%w: new email required", infrastructure.ErrInvalidInput)
	}
	if len(newEmail) > maxLength {
		return "", fmt.Errorf("%w: the new email address is too long", infrastructure.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return "", fmt.Errorf("%w: malformed email address", infrastructure.ErrInvalidInput)
	}
	if acct.Email == newEmail {
		return "", fmt.Errorf("%w: the new email address must differ from the current one", infrastructure.ErrInvalidInput)
	}

	taken, err := s.EmailTaken(ctx, newEmail)
	if err != nil {
		return "", err
	}
	if !taken {
		taken, err = s.PendingEmailTaken(ctx, newEmail, acct.ID)
		if err != nil {
			return "", err
		}
	}
	if taken {
		return "", infrastructure.ErrEmailTaken
	}
	return newEmail, nil
}

// RedeemEmailUpdate consumes an update token and moves the account to its
// pending address. The address is re-checked here: a third party may have
// claimed it between request and redemption.
func (c *Controller) RedeemEmailUpdate(ctx context.Context, key string) (*account.Account, error) {
	var acct *account.Account
	err := c.store.Transaction(ctx, func(tx Store) error {
		token, err := c.validate(ctx, tx, VariantEmailUpdate, key)
		if err != nil {
			return err
		}
		taken, err := tx.EmailTaken(ctx, token.NewEmail)
		if err != nil {
			return err
		}
		if taken {
			return infrastructure.ErrEmailTaken
		}

		acct, err = tx.AccountByID(ctx, token.AccountID)
		if err != nil {
			return err
		}
		acct.Email = token.NewEmail
		if err := tx.UpdateAccount(ctx, acct); err != nil {
			return err
		}
		return tx.DeleteToken(ctx, token.ID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("email updated", slog.String("username", acct.Username))
	return acct, nil
}

// RequestPasswordReset issues a reset token for an account that has finished
// registration. Pending accounts have no password worth resetting yet and
// must complete verification instead.
func (c *Controller) RequestPasswordReset(ctx context.Context, emailAddr string) (*Token, error) {
	emailAddr = account.NormalizeEmail(emailAddr)

	var token *Token
	err := c.store.Transaction(ctx, func(tx Store) error {
		acct, err := tx.AccountByEmail(ctx, emailAddr)
		if err != nil {
			return err
		}
		if acct.Status != account.StatusActive {
			return infrastructure.ErrUnauthorized
		}

		if err := tx.DeleteAccountTokens(ctx, VariantPasswordReset, acct.ID); err != nil {
			return err
		}
		token, err = c.issue(ctx, tx, VariantPasswordReset, acct.ID, "")
		if err != nil {
			return err
		}
		return c.dispatch(ctx, tx, email.TemplateResetPassword, acct.Email, token)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// RedeemPasswordReset consumes a reset token and sets the new password. A
// reset link reaching the mailbox proves ownership, so an account still
// pending verification is promoted to active and its verify token discarded.
func (c *Controller) RedeemPasswordReset(ctx context.Context, key, newPassword string) (*account.Account, error) {
	if err := passwordvalidator.Validate(newPassword, PasswordMinEntropyBits); err != nil {
		return nil, fmt.Errorf("%w: password is not strong enough", infrastructure.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var acct *account.Account
	err = c.store.Transaction(ctx, func(tx Store) error {
		token, err := c.validate(ctx, tx, VariantPasswordReset, key)
		if err != nil {
			return err
		}
		acct, err = tx.AccountByID(ctx, token.AccountID)
		if err != nil {
			return err
		}

		acct.PasswordHash = string(hash)
		if acct.Status == account.StatusPending {
			acct.Status = account.StatusActive
			if err := tx.DeleteAccountTokens(ctx, VariantEmailVerify, acct.ID); err != nil {
				return err
			}
		}
		if err := tx.UpdateAccount(ctx, acct); err != nil {
			return err
		}
		return tx.DeleteToken(ctx, token.ID)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("password reset", slog.String("username", acct.Username))
	return acct, nil
}

func checkCredentials(emailAddr, password string) error {
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return fmt.Errorf("%w: malformed email address", infrastructure.ErrInvalidInput)
	}
	if err := passwordvalidator.Validate(password, PasswordMinEntropyBits); err != nil {
		return fmt.Errorf("%w: password is not strong enough", infrastructure.ErrInvalidInput)
	}
	return nil
}
