package config

import (
	"context"
	"fmt"
	"os"

	"timestrap/internal/logging"
	"timestrap/internal/repository/sqlstore"
)

// CreateRepository opens the configured database, creating the sqlite directory if needed
func CreateRepository(ctx context.Context, config *Config) (*sqlstore.Store, error) {
	dialect, err := sqlstore.ParseDialect(config.Database.Driver)
	if err != nil {
		return nil, err
	}

	if dialect == sqlstore.DialectSQLite && config.Database.DSN == "" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logging.Debugf("opening %s database", dialect)
	ctx, cancel := context.WithTimeout(ctx, config.GetQueryTimeout())
	defer cancel()

	store, err := sqlstore.Open(ctx, dialect, config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return store, nil
}
