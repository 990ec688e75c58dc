package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"town-discovery/town-service/internal/models"
)

// TownRepository handles database operations for towns.
type TownRepository struct {
	db *sql.DB
}

// NewTownRepository creates a new TownRepository.
func NewTownRepository(db *sql.DB) *TownRepository {
	return &TownRepository{db: db}
}

const townColumns = `t.id, COALESCE(t.feed_id, ''), t.name, t.country, COALESCE(t.region, ''),
	COALESCE(t.description, ''), t.geographic_features, t.activities_available,
	t.hobby_capabilities, COALESCE(t.image_url, ''), t.created_at, t.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTown(row rowScanner) (models.Town, error) {
	var t models.Town
	err := row.Scan(
		&t.ID, &t.FeedID, &t.Name, &t.Country, &t.Region,
		&t.Description, pq.Array(&t.GeographicFeatures), pq.Array(&t.ActivitiesAvailable),
		pq.Array(&t.HobbyCapabilities), &t.ImageURL, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// UpsertTown inserts or updates a town keyed by name and country.
func (r *TownRepository) UpsertTown(t *models.Town) (int, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO towns (feed_id, name, country, region, description,
			geographic_features, activities_available, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name, country) DO UPDATE SET
			feed_id = EXCLUDED.feed_id,
			region = EXCLUDED.region,
			description = EXCLUDED.description,
			geographic_features = EXCLUDED.geographic_features,
			activities_available = EXCLUDED.activities_available,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, nullableString(t.FeedID), t.Name, t.Country, t.Region, nullableString(t.Description),
		pq.Array(t.GeographicFeatures), pq.Array(t.ActivitiesAvailable),
		nullableString(t.ImageURL), time.Now()).Scan(&id)
	return id, err
}

// ListTowns returns a paginated list of towns matching the given filters.
func (r *TownRepository) ListTowns(params models.TownListParams) (*models.TownListResponse, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.Country != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(t.country) = LOWER($%d)", argIdx))
		args = append(args, params.Country)
		argIdx++
	}
	if params.WithPhoto {
		conditions = append(conditions, "t.image_url IS NOT NULL")
	}

	whereClause := strings.Join(conditions, " AND ")

	// Validate sort column to prevent SQL injection
	sortColumn := "name"
	switch params.SortBy {
	case "country":
		sortColumn = "country"
	case "updated_at":
		sortColumn = "updated_at"
	}
	orderDir := "ASC"
	if params.Order == "desc" {
		orderDir = "DESC"
	}

	var totalResults int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM towns t WHERE %s", whereClause)
	if err := r.db.QueryRow(countQuery, args...).Scan(&totalResults); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	totalPages := 0
	if totalResults > 0 {
		totalPages = (totalResults + params.PageSize - 1) / params.PageSize
	}

	// id breaks ties so pages are stable
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM towns t
		WHERE %s
		ORDER BY t.%s %s NULLS LAST, t.id ASC
		LIMIT $%d OFFSET $%d
	`, townColumns, whereClause, sortColumn, orderDir, argIdx, argIdx+1)

	args = append(args, params.PageSize, offset)

	rows, err := r.db.Query(listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	items := make([]models.Town, 0)
	for rows.Next() {
		t, err := scanTown(rows)
		if err != nil {
			return nil, fmt.Errorf("scan town: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate towns: %w", err)
	}

	return &models.TownListResponse{
		Page:         params.Page,
		PageSize:     params.PageSize,
		TotalPages:   totalPages,
		TotalResults: totalResults,
		Data:         items,
	}, nil
}

// GetTownByID returns a town by internal ID.
func (r *TownRepository) GetTownByID(id int) (*models.Town, error) {
	row := r.db.QueryRow(fmt.Sprintf(`SELECT %s FROM towns t WHERE t.id = $1`, townColumns), id)
	t, err := scanTown(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAllTowns returns every town, for capability derivation.
func (r *TownRepository) GetAllTowns() ([]models.Town, error) {
	rows, err := r.db.Query(fmt.Sprintf(`SELECT %s FROM towns t ORDER BY t.id`, townColumns))
	if err != nil {
		return nil, fmt.Errorf("query towns: %w", err)
	}
	defer rows.Close()

	var towns []models.Town
	for rows.Next() {
		t, err := scanTown(rows)
		if err != nil {
			return nil, fmt.Errorf("scan town: %w", err)
		}
		towns = append(towns, t)
	}
	return towns, rows.Err()
}

// UpdateCapabilities stores the derived hobby capabilities for a town.
func (r *TownRepository) UpdateCapabilities(id int, capabilities []string) error {
	_, err := r.db.Exec(`
		UPDATE towns SET hobby_capabilities = $1, updated_at = NOW() WHERE id = $2
	`, pq.Array(capabilities), id)
	return err
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
