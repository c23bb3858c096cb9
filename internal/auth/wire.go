package auth

import (
	"github.com/google/wire"

	"inkwell/config"
	"inkwell/internal/account"
)

func NewServiceFromConfig(accounts account.Provider, cfg *config.Config) *Service {
	return NewService(accounts, cfg.JWTSecret)
}

var Set = wire.NewSet(
	NewServiceFromConfig,
	NewJSONHandler,
)
