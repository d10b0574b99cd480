package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/markmanipula/QuickCourt-Backend/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			organizer VARCHAR(255) NOT NULL,
			location VARCHAR(255) NOT NULL,
			date_time TIMESTAMP NOT NULL,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			max_participants INTEGER NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			visibility VARCHAR(20) NOT NULL DEFAULT 'public',
			passcode VARCHAR(8),
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS event_members (
			event_id VARCHAR(36) REFERENCES events(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			roster VARCHAR(10) NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (event_id, name)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_event_members_event_id ON event_members(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date_time ON events(date_time)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
