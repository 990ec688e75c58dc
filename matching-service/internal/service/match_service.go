package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"town-discovery/matching-service/internal/hobby"
	"town-discovery/matching-service/internal/models"
)

const (
	defaultMatchCacheTTL = 10 * time.Minute
	maxHighlights        = 5
)

// HobbyCatalog lists the hobby reference data.
type HobbyCatalog interface {
	ListHobbies(ctx context.Context) ([]models.Hobby, error)
}

// Deps wires a MatchService. Redis may be nil, which disables response
// caching and change notifications.
type Deps struct {
	Catalog                  HobbyCatalog
	CatalogCache             *hobby.TTLCache[[]models.Hobby]
	Resolver                 hobby.Resolver
	Redis                    *redis.Client
	MatchCacheTTL            time.Duration
	TownServiceURL           string
	UserPreferenceServiceURL string
	HTTPClient               *http.Client
}

type MatchService struct {
	catalog                  HobbyCatalog
	catalogCache             *hobby.TTLCache[[]models.Hobby]
	resolver                 hobby.Resolver
	scorer                   *hobby.Scorer
	rdb                      *redis.Client
	matchCacheTTL            time.Duration
	townServiceURL           string
	userPreferenceServiceURL string
	httpClient               *http.Client
	now                      func() time.Time
}

func NewMatchService(d Deps) *MatchService {
	if d.MatchCacheTTL == 0 {
		d.MatchCacheTTL = defaultMatchCacheTTL
	}
	if d.HTTPClient == nil {
		d.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if d.CatalogCache == nil {
		d.CatalogCache = hobby.NewTTLCache[[]models.Hobby](time.Hour)
	}
	if d.Resolver == nil {
		d.Resolver = hobby.NewTaxonomyResolver(hobby.DefaultTaxonomy())
	}
	return &MatchService{
		catalog:                  d.Catalog,
		catalogCache:             d.CatalogCache,
		resolver:                 d.Resolver,
		scorer:                   hobby.NewScorer(d.Resolver),
		rdb:                      d.Redis,
		matchCacheTTL:            d.MatchCacheTTL,
		townServiceURL:           strings.TrimRight(d.TownServiceURL, "/"),
		userPreferenceServiceURL: strings.TrimRight(d.UserPreferenceServiceURL, "/"),
		httpClient:               d.HTTPClient,
		now:                      time.Now,
	}
}

// RankTowns scores every town with a photo against the user's hobbies and
// returns the best limit towns. Upstream failures are returned as
// *DataFetchError and never replaced with default data.
func (s *MatchService) RankTowns(ctx context.Context, userID, limit int) (*models.TownMatchResponse, error) {
	// Resolved before any upstream read; see matchCacheKey.
	cacheKey, cacheable := s.matchCacheKey(ctx, userID, limit)
	if cacheable {
		if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
			var resp models.TownMatchResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				slog.Debug("town matches cache hit", "user_id", userID)
				return &resp, nil
			}
		}
	}

	profile, err := s.fetchHobbyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchTowns(ctx)
	if err != nil {
		return nil, err
	}

	towns := make([]hobby.Town, 0, len(records))
	for _, r := range records {
		towns = append(towns, r.Profile())
	}

	ranked := s.scorer.Rank(profile, towns, limit)

	matches := make([]models.TownMatch, 0, len(ranked))
	for _, r := range ranked {
		rec := records[r.Index]
		matches = append(matches, models.TownMatch{
			ID:       rec.ID,
			Name:     rec.Name,
			Country:  rec.Country,
			ImageURL: rec.ImageURL,
			Score:    r.Result.Score,
			Matched:  r.Result.Matched,
			Missing:  r.Result.Missing,
			Factors:  r.Result.Factors,
		})
	}

	resp := &models.TownMatchResponse{
		UserID:      userID,
		Towns:       matches,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
	}

	if data, err := json.Marshal(resp); cacheable && err == nil {
		s.setCache(ctx, cacheKey, string(data), s.matchCacheTTL)
	}

	slog.Info("ranked towns", "user_id", userID, "towns", len(records), "returned", len(matches))
	return resp, nil
}

// ScoreTown scores a single town against an ad-hoc profile.
func (s *MatchService) ScoreTown(req models.HobbyScoreRequest) hobby.Result {
	return s.scorer.Score(hobby.Profile{Activities: req.Activities, Interests: req.Interests}, req.Town)
}

// ListHobbies returns the hobby catalog, served from the TTL cache while it
// is fresh.
func (s *MatchService) ListHobbies(ctx context.Context) ([]models.Hobby, error) {
	if cached, ok := s.catalogCache.Get(); ok {
		return cached, nil
	}

	hobbies, err := s.catalog.ListHobbies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hobbies: %w", err)
	}
	s.catalogCache.Set(hobbies)
	slog.Debug("hobby catalog refreshed", "count", len(hobbies), "expires_at", s.catalogCache.ExpiresAt())
	return hobbies, nil
}

// TownHobbies lists the catalog hobbies available in a town, grouped by
// category, with a few described highlights.
func (s *MatchService) TownHobbies(ctx context.Context, townID int) (*models.TownHobbies, error) {
	town, err := s.fetchTown(ctx, townID)
	if err != nil {
		return nil, err
	}

	hobbies, err := s.ListHobbies(ctx)
	if err != nil {
		return nil, err
	}

	profile := town.Profile()
	result := &models.TownHobbies{
		TownID: townID,
		Grouped: map[string][]models.Hobby{
			models.CategoryActivity: {},
			models.CategoryInterest: {},
			models.CategoryCustom:   {},
		},
		Highlights: []string{},
	}
	for _, h := range hobbies {
		if !h.IsUniversal && !s.resolver.Resolve(h.Name, profile) {
			continue
		}
		result.Total++
		result.Grouped[h.Category] = append(result.Grouped[h.Category], h)
		if h.Description != "" && len(result.Highlights) < maxHighlights {
			result.Highlights = append(result.Highlights, h.Name+": "+h.Description)
		}
	}
	return result, nil
}
