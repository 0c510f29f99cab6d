package db

import (
	gocontext "context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewGorm opens a gorm connection to postgres with the standard plugins
// and logger attached.
func NewGorm(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		FullSaveAssociations: false,
		Logger:               NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Use(NewOopsPlugin()); err != nil {
		return nil, fmt.Errorf("failed to register oops plugin: %w", err)
	}

	return db, nil
}

// NewPgxPool creates a pgx connection pool for callers that need raw access
// alongside gorm.
func NewPgxPool(ctx gocontext.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return pool, nil
}
