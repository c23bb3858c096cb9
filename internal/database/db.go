package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inkwell/internal/account"
	"inkwell/internal/blog"
	"inkwell/internal/verification"
)

type Database struct {
	*gorm.DB
}

func NewDatabase(dsn string, logger *slog.Logger) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("connected to database")

	return &Database{db}, nil
}

func (db *Database) Migrate() error {
	err := db.AutoMigrate(
		&account.Account{},
		&verification.Token{},
		&blog.Category{},
		&blog.Tag{},
		&blog.Post{},
		&blog.Comment{},
		&blog.Reaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
