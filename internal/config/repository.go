package config

import (
	"fmt"
	"os"

	"timeclock/internal/errors"
	"timeclock/internal/repository/sqlite"
)

// CreateRepository opens the configured database, creating its directory first.
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "failed to create database directory "+config.Database.Dir)
	}

	repo, err := sqlite.NewWithOptions(config.GetDatabasePath(), sqlite.Options{
		QueryTimeout: config.Database.QueryTimeout,
		WriteTimeout: config.Database.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}
