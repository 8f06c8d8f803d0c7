package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/SimpleBookRental/backend/pkg/config"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// DBConn represents a database connection. Schema migrations are an
// external collaborator — this package only opens and pools
// the connection the engine's repositories run against.
type DBConn struct {
	DB     *sql.DB
	Logger *logger.Logger
}

// NewDBConn creates a new database connection.
func NewDBConn(cfg *config.DatabaseConfig, log *logger.Logger) (*DBConn, error) {
	db, err := NewPostgresDB(*cfg)
	if err != nil {
		return nil, err
	}

	log.Info("connected to database")

	return &DBConn{
		DB:     db,
		Logger: log,
	}, nil
}

// NewPostgresDB creates a new PostgreSQL database connection with
// pooling settings from cfg.
func NewPostgresDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.GetDSN()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	return db, nil
}

// Close closes the database connection.
func (c *DBConn) Close() error {
	if c.DB != nil {
		c.Logger.Info("closing database connection")
		return c.DB.Close()
	}
	return nil
}
