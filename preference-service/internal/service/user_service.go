package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"town-discovery/pkg/events"
	"town-discovery/preference-service/internal/models"
)

const (
	prefCacheTTL = 10 * time.Minute
)

var (
	// ErrUserNotFound is returned when no user has the requested ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrFavoriteNotFound is returned when deleting a town the user never saved.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(req models.CreateUserRequest) (*models.User, error)
	GetUser(id int) (*models.User, error)
	UpsertPreference(userID int, req models.SetPreferenceRequest) (*models.HobbyPreference, error)
	GetPreference(userID int) (*models.HobbyPreference, error)
	AddFavorite(userID, townID int) (*models.Favorite, error)
	ListFavorites(userID int) ([]models.Favorite, error)
	DeleteFavorite(userID, townID int) (bool, error)
}

// UserService handles users, their hobby preferences and favorites.
type UserService struct {
	repo  UserStore
	redis *redis.Client
}

// NewUserService creates a new UserService. A nil redis client disables
// caching and change notifications.
func NewUserService(repo UserStore, rdb *redis.Client) *UserService {
	return &UserService{repo: repo, redis: rdb}
}

func (s *UserService) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrInvalidRequest)
	}
	return s.repo.CreateUser(req)
}

func (s *UserService) GetUser(id int) (*models.User, error) {
	user, err := s.repo.GetUser(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetPreference stores the user's hobby profile and announces the change so
// cached rankings can be dropped.
func (s *UserService) SetPreference(ctx context.Context, userID int, req models.SetPreferenceRequest) (*models.HobbyPreference, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}

	req.Normalize()
	pref, err := s.repo.UpsertPreference(userID, req)
	if err != nil {
		return nil, err
	}

	s.delCache(ctx, prefCacheKey(userID))
	s.publishUpdate(ctx, userID)

	return pref, nil
}

// GetPreference returns the user's hobby profile, or an empty profile when
// the user exists but has not set one.
func (s *UserService) GetPreference(ctx context.Context, userID int) (*models.HobbyPreference, error) {
	cacheKey := prefCacheKey(userID)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var pref models.HobbyPreference
		if json.Unmarshal([]byte(cached), &pref) == nil {
			return &pref, nil
		}
	}

	pref, err := s.repo.GetPreference(userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if _, err := s.GetUser(userID); err != nil {
			return nil, err
		}
		pref = &models.HobbyPreference{
			UserID:     userID,
			Activities: []string{},
			Interests:  []string{},
		}
	}

	if data, err := json.Marshal(pref); err == nil {
		s.setCache(ctx, cacheKey, string(data), prefCacheTTL)
	}

	return pref, nil
}

func (s *UserService) AddFavorite(userID int, req models.CreateFavoriteRequest) (*models.Favorite, error) {
	if req.TownID <= 0 {
		return nil, fmt.Errorf("%w: invalid town ID", ErrInvalidRequest)
	}
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}
	return s.repo.AddFavorite(userID, req.TownID)
}

func (s *UserService) ListFavorites(userID int) ([]models.Favorite, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}
	favorites, err := s.repo.ListFavorites(userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

func (s *UserService) RemoveFavorite(userID, townID int) error {
	deleted, err := s.repo.DeleteFavorite(userID, townID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFavoriteNotFound
	}
	return nil
}

func prefCacheKey(userID int) string {
	return fmt.Sprintf("user:pref:%d", userID)
}

func (s *UserService) publishUpdate(ctx context.Context, userID int) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(events.PreferencesUpdated{UserID: userID, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, events.PreferencesUpdatedChannel, payload).Err(); err != nil {
		slog.Error("failed to publish preference update", "user_id", userID, "error", err)
	}
}

// Redis helpers

func (s *UserService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *UserService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

func (s *UserService) delCache(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, key)
}
