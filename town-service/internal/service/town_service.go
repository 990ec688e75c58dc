package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"town-discovery/pkg/events"
	"town-discovery/town-service/internal/capability"
	"town-discovery/town-service/internal/feed"
	"town-discovery/town-service/internal/models"
)

const (
	townListCacheTTL   = 5 * time.Minute
	townDetailCacheTTL = 30 * time.Minute
)

// ErrTownNotFound is returned when no town has the requested ID.
var ErrTownNotFound = errors.New("town not found")

// TownStore is the persistence the service needs.
type TownStore interface {
	UpsertTown(t *models.Town) (int, error)
	ListTowns(params models.TownListParams) (*models.TownListResponse, error)
	GetTownByID(id int) (*models.Town, error)
	GetAllTowns() ([]models.Town, error)
	UpdateCapabilities(id int, capabilities []string) error
}

// TownFeed pages through the upstream town feed.
type TownFeed interface {
	FetchPage(ctx context.Context, page int) (*feed.Page, error)
}

// TownService handles business logic for towns.
type TownService struct {
	repo  TownStore
	feed  TownFeed
	redis *redis.Client
}

// NewTownService creates a new TownService. A nil redis client disables caching.
func NewTownService(repo TownStore, feed TownFeed, rdb *redis.Client) *TownService {
	return &TownService{
		repo:  repo,
		feed:  feed,
		redis: rdb,
	}
}

// SyncTowns pulls up to pages pages from the town feed and upserts them.
// A failure on the first page aborts the sync; later page failures are
// logged and skipped.
func (s *TownService) SyncTowns(ctx context.Context, pages int) (int, error) {
	slog.Info("starting town feed sync", "pages", pages)

	totalSynced := 0
	for page := 1; page <= pages; page++ {
		result, err := s.feed.FetchPage(ctx, page)
		if err != nil {
			if page == 1 {
				return 0, fmt.Errorf("failed to fetch town feed: %w", err)
			}
			slog.Error("failed to fetch town feed page", "page", page, "error", err)
			continue
		}

		for _, ft := range result.Towns {
			if ft.Name == "" || ft.Country == "" {
				slog.Warn("skipping feed town without name or country", "feed_id", ft.ID)
				continue
			}
			town := &models.Town{
				FeedID:              ft.ID,
				Name:                ft.Name,
				Country:             ft.Country,
				Region:              ft.Region,
				Description:         ft.Description,
				GeographicFeatures:  ft.GeographicFeatures,
				ActivitiesAvailable: ft.ActivitiesAvailable,
				ImageURL:            ft.ImageURL,
			}
			if _, err := s.repo.UpsertTown(town); err != nil {
				slog.Error("failed to upsert town", "name", town.Name, "error", err)
				continue
			}
			totalSynced++
		}

		slog.Info("synced page", "page", page, "towns", len(result.Towns))
		if result.TotalPages > 0 && page >= result.TotalPages {
			break
		}
	}

	s.townsChanged(ctx, "sync")

	slog.Info("town feed sync completed", "total_synced", totalSynced)
	return totalSynced, nil
}

// DeriveCapabilities recomputes hobby capabilities for every town and stores
// the ones that changed.
func (s *TownService) DeriveCapabilities(ctx context.Context) (*models.CapabilityRun, error) {
	towns, err := s.repo.GetAllTowns()
	if err != nil {
		return nil, fmt.Errorf("failed to load towns: %w", err)
	}

	run := &models.CapabilityRun{Scanned: len(towns)}
	for _, t := range towns {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		caps := capability.Derive(t.GeographicFeatures, t.ActivitiesAvailable, t.Description)
		if capability.Equal(caps, t.HobbyCapabilities) {
			continue
		}
		if err := s.repo.UpdateCapabilities(t.ID, caps); err != nil {
			slog.Error("failed to update capabilities", "town_id", t.ID, "error", err)
			continue
		}
		run.Updated++
	}

	if run.Updated > 0 {
		s.townsChanged(ctx, "capabilities")
	}
	return run, nil
}

// ListTowns returns a paginated list of towns.
func (s *TownService) ListTowns(ctx context.Context, params models.TownListParams) (*models.TownListResponse, error) {
	params.Validate()

	cacheKey := fmt.Sprintf("towns:list:%d:%d:%s:%s:%s:%t",
		params.Page, params.PageSize, params.SortBy, params.Order,
		params.Country, params.WithPhoto)

	var cached models.TownListResponse
	if s.getFromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	result, err := s.repo.ListTowns(params)
	if err != nil {
		return nil, fmt.Errorf("failed to list towns: %w", err)
	}

	s.setCache(ctx, cacheKey, result, townListCacheTTL)
	return result, nil
}

// GetTown returns a single town by ID.
func (s *TownService) GetTown(ctx context.Context, id int) (*models.Town, error) {
	cacheKey := fmt.Sprintf("town:detail:%d", id)

	var cached models.Town
	if s.getFromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	town, err := s.repo.GetTownByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTownNotFound
		}
		return nil, fmt.Errorf("failed to get town: %w", err)
	}

	s.setCache(ctx, cacheKey, town, townDetailCacheTTL)
	return town, nil
}

// ---- Redis Helpers ----

func (s *TownService) getFromCache(ctx context.Context, key string, dst any) bool {
	if s.redis == nil {
		return false
	}
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false
	}
	slog.Debug("cache hit", "key", key)
	return true
}

func (s *TownService) setCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

// townsChanged drops the local town cache and tells other services that
// anything derived from town data is stale.
func (s *TownService) townsChanged(ctx context.Context, reason string) {
	if s.redis == nil {
		return
	}
	for _, pattern := range []string{"towns:*", "town:*"} {
		iter := s.redis.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			s.redis.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			slog.Error("failed to scan cache keys", "pattern", pattern, "error", err)
		}
	}
	slog.Info("Redis cache invalidated")

	payload, err := json.Marshal(events.TownsUpdated{Reason: reason, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, events.TownsUpdatedChannel, payload).Err(); err != nil {
		slog.Error("failed to publish towns update", "reason", reason, "error", err)
	}
}
