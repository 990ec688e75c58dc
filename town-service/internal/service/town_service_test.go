package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-discovery/town-service/internal/feed"
	"town-discovery/town-service/internal/models"
)

type memStore struct {
	towns   []models.Town
	updates map[int][]string
	listErr error
}

func (m *memStore) UpsertTown(t *models.Town) (int, error) {
	for i := range m.towns {
		if m.towns[i].Name == t.Name && m.towns[i].Country == t.Country {
			t.ID = m.towns[i].ID
			m.towns[i] = *t
			return t.ID, nil
		}
	}
	t.ID = len(m.towns) + 1
	m.towns = append(m.towns, *t)
	return t.ID, nil
}

func (m *memStore) ListTowns(params models.TownListParams) (*models.TownListResponse, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return &models.TownListResponse{Page: params.Page, PageSize: params.PageSize, Data: m.towns}, nil
}

func (m *memStore) GetTownByID(id int) (*models.Town, error) {
	for _, t := range m.towns {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetAllTowns() ([]models.Town, error) {
	return m.towns, nil
}

func (m *memStore) UpdateCapabilities(id int, capabilities []string) error {
	if m.updates == nil {
		m.updates = map[int][]string{}
	}
	m.updates[id] = capabilities
	return nil
}

type pagedFeed struct {
	pages map[int]*feed.Page
	fail  map[int]bool
	calls []int
}

func (f *pagedFeed) FetchPage(ctx context.Context, page int) (*feed.Page, error) {
	f.calls = append(f.calls, page)
	if f.fail[page] {
		return nil, errors.New("feed unavailable")
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &feed.Page{Page: page}, nil
}

func TestSyncTowns(t *testing.T) {
	store := &memStore{}
	f := &pagedFeed{pages: map[int]*feed.Page{
		1: {Page: 1, TotalPages: 2, Towns: []feed.FeedTown{
			{ID: "a", Name: "Lagos", Country: "Portugal", GeographicFeatures: []string{"coast"}},
			{ID: "b", Name: "", Country: "Spain"},
		}},
		2: {Page: 2, TotalPages: 2, Towns: []feed.FeedTown{
			{ID: "c", Name: "Annecy", Country: "France"},
		}},
	}}

	svc := NewTownService(store, f, nil)
	n, err := svc.SyncTowns(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, f.calls, "stops at the feed's last page")
	require.Len(t, store.towns, 2)
	assert.Equal(t, "Lagos", store.towns[0].Name)
}

func TestSyncTownsFirstPageFailure(t *testing.T) {
	f := &pagedFeed{fail: map[int]bool{1: true}}
	svc := NewTownService(&memStore{}, f, nil)

	_, err := svc.SyncTowns(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch town feed")
}

func TestSyncTownsSkipsLaterPageFailure(t *testing.T) {
	store := &memStore{}
	f := &pagedFeed{
		pages: map[int]*feed.Page{
			1: {Page: 1, TotalPages: 3, Towns: []feed.FeedTown{{Name: "Lagos", Country: "Portugal"}}},
			3: {Page: 3, TotalPages: 3, Towns: []feed.FeedTown{{Name: "Annecy", Country: "France"}}},
		},
		fail: map[int]bool{2: true},
	}

	n, err := NewTownService(store, f, nil).SyncTowns(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeriveCapabilities(t *testing.T) {
	store := &memStore{towns: []models.Town{
		{ID: 1, Name: "Lagos", GeographicFeatures: []string{"coast"}},
		{ID: 2, Name: "Annecy", ActivitiesAvailable: []string{"golf"}, HobbyCapabilities: []string{"golf"}},
		{ID: 3, Name: "Nowhere"},
	}}

	run, err := NewTownService(store, nil, nil).DeriveCapabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, run.Scanned)
	assert.Equal(t, 1, run.Updated, "unchanged and empty capability sets are not rewritten")
	assert.Equal(t, []string{"fishing", "swimming", "water_sports"}, store.updates[1])
}

func TestGetTown(t *testing.T) {
	store := &memStore{towns: []models.Town{{ID: 7, Name: "Lagos"}}}
	svc := NewTownService(store, nil, nil)

	town, err := svc.GetTown(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Lagos", town.Name)

	_, err = svc.GetTown(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTownNotFound)
}

func TestListTownsValidatesParams(t *testing.T) {
	store := &memStore{}
	svc := NewTownService(store, nil, nil)

	res, err := svc.ListTowns(context.Background(), models.TownListParams{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.PageSize)

	store.listErr = errors.New("boom")
	_, err = svc.ListTowns(context.Background(), models.TownListParams{})
	assert.Error(t, err)
}
