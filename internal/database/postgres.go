package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
// Error translation is enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey,
// which the problem repository relies on to resolve concurrent catalog inserts.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}
