package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"town-discovery/matching-service/internal/hobby"
	"town-discovery/matching-service/internal/models"
)

const (
	sourcePreferences = "user preferences"
	sourceTowns       = "towns"

	townPageSize = 100
	maxTownPages = 50
)

// fetchHobbyProfile loads a user's hobby profile. A missing user is an
// empty profile, not an error.
func (s *MatchService) fetchHobbyProfile(ctx context.Context, userID int) (hobby.Profile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%d/preferences", s.userPreferenceServiceURL, userID)

	var pref models.HobbyPreference
	status, err := s.getJSON(ctx, endpoint, &pref)
	if err != nil {
		return hobby.Profile{}, fetchError(sourcePreferences, err)
	}
	if status == http.StatusNotFound {
		return hobby.Profile{}, nil
	}
	return hobby.Profile{Activities: pref.Activities, Interests: pref.Interests}, nil
}

// fetchTowns pages through every town that has a photo. A listing longer
// than maxTownPages is an error rather than a silently truncated ranking.
func (s *MatchService) fetchTowns(ctx context.Context) ([]models.TownRecord, error) {
	towns := make([]models.TownRecord, 0)

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("page_size", fmt.Sprint(townPageSize))
		q.Set("sort_by", "name")
		q.Set("order", "asc")
		q.Set("with_photo", "true")
		endpoint := s.townServiceURL + "/api/v1/towns?" + q.Encode()

		var list models.TownListResponse
		status, err := s.getJSON(ctx, endpoint, &list)
		if err != nil {
			return nil, fetchError(sourceTowns, err)
		}
		if status == http.StatusNotFound {
			return nil, fetchError(sourceTowns, fmt.Errorf("town listing not found"))
		}

		towns = append(towns, list.Data...)
		if page >= list.TotalPages {
			return towns, nil
		}
		if page >= maxTownPages {
			return nil, fetchError(sourceTowns,
				fmt.Errorf("town listing has %d pages, limit is %d", list.TotalPages, maxTownPages))
		}
	}
}

// fetchTown loads a single town record.
func (s *MatchService) fetchTown(ctx context.Context, townID int) (*models.TownRecord, error) {
	endpoint := fmt.Sprintf("%s/api/v1/towns/%d", s.townServiceURL, townID)

	var town models.TownRecord
	status, err := s.getJSON(ctx, endpoint, &town)
	if err != nil {
		return nil, fetchError(sourceTowns, err)
	}
	if status == http.StatusNotFound {
		return nil, ErrTownNotFound
	}
	return &town, nil
}

// getJSON decodes a 200 response into out. A 404 is reported through the
// returned status with a nil error; any other status is an error.
func (s *MatchService) getJSON(ctx context.Context, endpoint string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return resp.StatusCode, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return resp.StatusCode, nil
}
