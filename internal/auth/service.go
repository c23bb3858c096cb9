package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"inkwell/infrastructure"
	"inkwell/internal/account"
)

const (
	accessTokenLifetime  = 15 * time.Minute
	refreshTokenLifetime = 7 * 24 * time.Hour
)

type Service struct {
	accounts account.Provider
	secret   []byte
}

func NewService(accounts account.Provider, secret []byte) *Service {
	return &Service{accounts: accounts, secret: secret}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims carried by both token types. Role rides along so the middleware can
// gate author/admin routes without a lookup.
type Claims struct {
	AccountID uint         `json:"account_id"`
	Role      account.Role `json:"role"`
	TokenType string       `json:"type"`
	jwt.RegisteredClaims
}

// Login authenticates an active account by email and password. Pending and
// deactivated accounts are rejected with the same error as a bad password.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, *account.Account, error) {
	acct, err := s.accounts.ByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, infrastructure.ErrAccountNotFound) {
			return nil, nil, infrastructure.ErrUnauthorized
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, nil, infrastructure.ErrUnauthorized
	}
	if !acct.CanAuthenticate() {
		return nil, nil, infrastructure.ErrUnauthorized
	}

	pair, err := s.issuePair(acct)
	if err != nil {
		return nil, nil, err
	}
	return pair, acct, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, infrastructure.ErrUnauthorized
	}

	acct, err := s.accounts.ByID(ctx, claims.AccountID)
	if err != nil {
		return nil, infrastructure.ErrUnauthorized
	}
	if !acct.CanAuthenticate() {
		return nil, infrastructure.ErrUnauthorized
	}
	return s.issuePair(acct)
}

// VerifyAccess validates an access token and returns its claims.
func (s *Service) VerifyAccess(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, infrastructure.ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) issuePair(acct *account.Account) (*TokenPair, error) {
	access, err := s.generate(acct, "access", accessTokenLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generate(acct, "refresh", refreshTokenLifetime)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) generate(acct *account.Account, tokenType string, lifetime time.Duration) (string, error) {
	claims := Claims{
		AccountID: acct.ID,
		Role:      acct.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, infrastructure.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, infrastructure.ErrUnauthorized
	}
	return claims, nil
}
