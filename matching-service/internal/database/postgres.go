package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"town-discovery/matching-service/internal/config"
)

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

// seedHobbies is the initial hobby catalog. Rows are only inserted when
// missing so edits made by administrators survive restarts.
var seedHobbies = []struct {
	name, category, description string
	universal                   bool
}{
	{"walking", "activity", "Strolls, promenades and nordic walking", true},
	{"gardening", "activity", "Allotments, community and balcony gardens", true},
	{"cycling", "activity", "Bike paths and cycling routes", false},
	{"swimming", "activity", "Beaches, lakes and public pools", false},
	{"golf", "activity", "Golf courses within reach", false},
	{"tennis", "activity", "Tennis courts and sports clubs", false},
	{"fishing", "activity", "Coastal, lake and river fishing", false},
	{"hiking", "activity", "Trails, parks and mountains", false},
	{"water_sports", "activity", "Sailing, kayaking, snorkeling and more", false},
	{"reading", "interest", "Libraries and book clubs", true},
	{"cooking", "interest", "Markets and cooking classes", true},
	{"arts", "interest", "Arts and crafts groups", true},
	{"music", "interest", "Concerts, choirs and music lessons", true},
	{"theater", "interest", "Theaters and cultural centers", false},
	{"wine", "interest", "Vineyards and wine regions", false},
	{"museums", "interest", "Museums and galleries", false},
	{"history", "interest", "", false},
	{"volunteering", "interest", "", false},
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS hobbies (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) UNIQUE NOT NULL,
			category VARCHAR(20) NOT NULL,
			is_universal BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hobbies_category ON hobbies(category)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	for _, h := range seedHobbies {
		if _, err := db.Exec(`
			INSERT INTO hobbies (name, category, is_universal, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, h.name, h.category, h.universal, h.description); err != nil {
			return fmt.Errorf("seed hobby %s: %w", h.name, err)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
