package repository

import (
	"context"
	"database/sql"
	"fmt"

	"town-discovery/matching-service/internal/models"
)

type HobbyRepository struct {
	db *sql.DB
}

func NewHobbyRepository(db *sql.DB) *HobbyRepository {
	return &HobbyRepository{db: db}
}

// ListHobbies returns the whole hobby catalog ordered by category and name.
func (r *HobbyRepository) ListHobbies(ctx context.Context) ([]models.Hobby, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, is_universal, COALESCE(description, ''), created_at
		FROM hobbies
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query hobbies: %w", err)
	}
	defer rows.Close()

	hobbies := make([]models.Hobby, 0)
	for rows.Next() {
		var h models.Hobby
		if err := rows.Scan(&h.ID, &h.Name, &h.Category, &h.IsUniversal, &h.Description, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hobby: %w", err)
		}
		hobbies = append(hobbies, h)
	}
	return hobbies, rows.Err()
}
