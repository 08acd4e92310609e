package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cyhdev/forums/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite database at dbPath and migrates the schema.
// TranslateError maps driver unique-constraint failures onto
// gorm.ErrDuplicatedKey so repositories can branch on them.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// SQLite serializes writers; a small pool avoids lock contention.
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.EmailVerificationToken{},
		&entities.PasswordResetToken{},
		&entities.Post{},
		&entities.Comment{},
		&entities.AuthEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
