package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/shopreply/internal/config"
	"github.com/xelth-com/shopreply/internal/models"
)

// DB wraps gorm.DB for the operator audit trail
type DB struct {
	*gorm.DB
}

// Connect establishes a connection to PostgreSQL and migrates the audit table
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := open(postgres.Open(cfg.URL))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&models.EmailAudit{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit table: %w", err)
	}

	log.Println("✅ Audit database connected")
	return db, nil
}

// FromConn wraps an existing *sql.DB (used by tests and embedding callers)
func FromConn(conn *sql.DB) (*DB, error) {
	return open(postgres.New(postgres.Config{Conn: conn}))
}

func open(dialector gorm.Dialector) (*DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DB{DB: gormDB}, nil
}

// Record stores one audit entry. ID and CreatedAt are filled in when empty.
func (db *DB) Record(ctx context.Context, entry models.EmailAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries, newest first
func (db *DB) Recent(ctx context.Context, limit int) ([]models.EmailAudit, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []models.EmailAudit
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	return entries, nil
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
