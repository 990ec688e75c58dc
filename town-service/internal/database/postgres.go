package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"town-discovery/town-service/internal/config"
)

// NewPostgres opens the town database and applies migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS towns (
			id SERIAL PRIMARY KEY,
			feed_id VARCHAR(100) UNIQUE,
			name VARCHAR(200) NOT NULL,
			country VARCHAR(100) NOT NULL,
			region VARCHAR(200) DEFAULT '',
			description TEXT,
			geographic_features TEXT[],
			activities_available TEXT[],
			hobby_capabilities TEXT[] DEFAULT '{}',
			image_url VARCHAR(1000),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(name, country)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_towns_country ON towns(country)`,
		`CREATE INDEX IF NOT EXISTS idx_towns_name ON towns(name)`,
		`CREATE INDEX IF NOT EXISTS idx_towns_with_image ON towns(id) WHERE image_url IS NOT NULL`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
