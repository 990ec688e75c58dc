package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"town-discovery/preference-service/internal/models"
)

// UserRepository handles database operations for users, preferences and favorites.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user.
func (r *UserRepository) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		INSERT INTO users (username, email) VALUES ($1, $2)
		RETURNING id, username, email, created_at
	`, req.Username, req.Email).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUser returns a user by ID.
func (r *UserRepository) GetUser(id int) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, username, email, created_at FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertPreference creates or updates a user's hobby preferences.
func (r *UserRepository) UpsertPreference(userID int, req models.SetPreferenceRequest) (*models.HobbyPreference, error) {
	var pref models.HobbyPreference
	var updatedAt time.Time
	err := r.db.QueryRow(`
		INSERT INTO user_preferences (user_id, activities, interests, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			activities = EXCLUDED.activities,
			interests = EXCLUDED.interests,
			updated_at = NOW()
		RETURNING id, user_id, activities, interests, updated_at
	`, userID, pq.Array(req.Activities), pq.Array(req.Interests)).Scan(
		&pref.ID, &pref.UserID, pq.Array(&pref.Activities), pq.Array(&pref.Interests), &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}
	pref.UpdatedAt = &updatedAt
	return &pref, nil
}

// GetPreference returns a user's hobby preferences.
func (r *UserRepository) GetPreference(userID int) (*models.HobbyPreference, error) {
	var pref models.HobbyPreference
	var updatedAt time.Time
	err := r.db.QueryRow(`
		SELECT id, user_id, activities, interests, updated_at
		FROM user_preferences WHERE user_id = $1
	`, userID).Scan(
		&pref.ID, &pref.UserID, pq.Array(&pref.Activities), pq.Array(&pref.Interests), &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	pref.UpdatedAt = &updatedAt
	return &pref, nil
}

// AddFavorite saves a town for a user. Saving the same town twice is a no-op
// that returns the existing row.
func (r *UserRepository) AddFavorite(userID, townID int) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.QueryRow(`
		INSERT INTO user_favorites (user_id, town_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, town_id) DO UPDATE SET town_id = EXCLUDED.town_id
		RETURNING id, user_id, town_id, created_at
	`, userID, townID).Scan(&fav.ID, &fav.UserID, &fav.TownID, &fav.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return &fav, nil
}

// ListFavorites returns a user's favorites, newest first.
func (r *UserRepository) ListFavorites(userID int) ([]models.Favorite, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, town_id, created_at
		FROM user_favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.TownID, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// DeleteFavorite removes a saved town. It reports whether a row was deleted.
func (r *UserRepository) DeleteFavorite(userID, townID int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM user_favorites WHERE user_id = $1 AND town_id = $2`, userID, townID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
