//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"
	"gorm.io/gorm"

	"inkwell/config"
	"inkwell/internal/account"
	"inkwell/internal/api"
	"inkwell/internal/auth"
	"inkwell/internal/database"
	"inkwell/internal/email"
	"inkwell/internal/verification"
)

var AppSet = wire.NewSet(
	account.Set,
	database.NewDeletionRunner,
	wire.Bind(new(account.TxRunner), new(*database.DeletionRunner)),
	verification.Set,
	email.Set,
	auth.Set,
	api.NewAccountHandler,
	api.NewServer,
)

func InitializeServer(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *api.Server {
	wire.Build(AppSet)
	return &api.Server{}
}
