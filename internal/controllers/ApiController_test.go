package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/services"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
	"github.com/Collins-II/loudear-music-sub000/internal/testutil"
)

type mockInteractions struct {
	applyResult *services.InteractionResult
	applyErr    error
	registered  *models.MediaItem
	registerErr error
	lastKind    string
}

func (m *mockInteractions) Apply(_, _, kind, _ string) (*services.InteractionResult, error) {
	m.lastKind = kind
	return m.applyResult, m.applyErr
}

func (m *mockInteractions) Register(_ string, item *models.MediaItem) (*models.MediaItem, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registered = item
	return item, nil
}

type mockTrending struct {
	ranked []services.RankedItem
	err    error
	calls  int
}

func (m *mockTrending) Rank(_ string, _, _ int) ([]services.RankedItem, error) {
	m.calls++
	return m.ranked, m.err
}

type mockCharts struct {
	snapshot *models.ChartSnapshot
	history  []services.HistoryEntry
	err      error
}

func (m *mockCharts) GetOrCreate(category, week string) (*models.ChartSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockCharts) History(_, _ string, _ int) ([]services.HistoryEntry, error) {
	return m.history, m.err
}

func (m *mockCharts) RefreshCurrent(_ string) (*models.ChartSnapshot, []services.PositionChange, error) {
	return m.snapshot, nil, m.err
}

type mockComposer struct {
	view *services.ComposedView
	err  error
}

func (m *mockComposer) Compose(_, _ string) (*services.ComposedView, error) {
	return m.view, m.err
}

type mockCache struct {
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value []byte) {
	m.sets++
	m.data[key] = value
}

type apiFixture struct {
	controller   *ApiController
	interactions *mockInteractions
	trending     *mockTrending
	charts       *mockCharts
	composer     *mockComposer
	cache        *mockCache
}

func newApiFixture() *apiFixture {
	conf := &structures.Config{
		Charts: structures.ChartsConfig{TrendingWindowDays: 14, HistoryWeeks: 12},
	}
	interactions := &mockInteractions{}
	trending := &mockTrending{}
	charts := &mockCharts{}
	composer := &mockComposer{}
	cache := newMockCache()

	return &apiFixture{
		controller:   NewApiController(conf, &testutil.MockLogger{}, interactions, trending, charts, composer, cache),
		interactions: interactions,
		trending:     trending,
		charts:       charts,
		composer:     composer,
		cache:        cache,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestReceiveInteraction_Success(t *testing.T) {
	f := newApiFixture()
	f.interactions.applyResult = &services.InteractionResult{
		Success: true,
		Action:  "like",
		Counts:  models.CountSet{Views: 10, Likes: 3},
	}

	rr := postJSON(t, f.controller.ReceiveInteraction, "/interactions", interactionRequest{
		ID:       models.NewID(),
		Category: models.CategorySongs,
		Kind:     "like",
		User:     "user1",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var result services.InteractionResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Counts.Likes)
	assert.Equal(t, "like", f.interactions.lastKind)
}

func TestReceiveInteraction_MalformedBody(t *testing.T) {
	f := newApiFixture()

	req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader([]byte("{broken")))
	rr := httptest.NewRecorder()
	f.controller.ReceiveInteraction(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReceiveInteraction_NotFound(t *testing.T) {
	f := newApiFixture()
	f.interactions.applyErr = models.ErrNotFound

	rr := postJSON(t, f.controller.ReceiveInteraction, "/interactions", interactionRequest{
		ID:       models.NewID(),
		Category: models.CategorySongs,
		Kind:     "view",
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReceiveInteraction_UnsupportedKind(t *testing.T) {
	f := newApiFixture()
	f.interactions.applyErr = fmt.Errorf("%w: %q", models.ErrUnsupportedInteractionKind, "boost")

	rr := postJSON(t, f.controller.ReceiveInteraction, "/interactions", interactionRequest{
		ID:       models.NewID(),
		Category: models.CategorySongs,
		Kind:     "boost",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "boost")
}

func TestRegisterItem_Created(t *testing.T) {
	f := newApiFixture()

	rr := postJSON(t, f.controller.RegisterItem, "/items?category=songs", &models.MediaItem{
		Title:  "new song",
		Artist: "artist",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, f.interactions.registered)
	assert.Equal(t, "new song", f.interactions.registered.Title)
}

func TestRegisterItem_UnsupportedCategory(t *testing.T) {
	f := newApiFixture()
	f.interactions.registerErr = models.ErrUnsupportedCategory

	rr := postJSON(t, f.controller.RegisterItem, "/items?category=podcasts", &models.MediaItem{Title: "x"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTrending_ComputesAndCaches(t *testing.T) {
	f := newApiFixture()
	f.trending.ranked = []services.RankedItem{{ItemID: "a", Score: 120}}

	req := httptest.NewRequest(http.MethodGet, "/trending?category=songs&limit=20", nil)
	rr := httptest.NewRecorder()
	f.controller.GetTrending(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.cache.sets)

	var ranked []services.RankedItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "a", ranked[0].ItemID)
}

func TestGetTrending_ServedFromCache(t *testing.T) {
	f := newApiFixture()
	f.cache.data["trending:songs:14:0"] = []byte(`[{"itemId":"cached","score":1}]`)

	req := httptest.NewRequest(http.MethodGet, "/trending?category=songs", nil)
	rr := httptest.NewRecorder()
	f.controller.GetTrending(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cached")
	assert.Equal(t, 0, f.trending.calls, "cache hit never touches the service")
}

func TestGetTrending_UnsupportedCategory(t *testing.T) {
	f := newApiFixture()
	f.trending.err = models.ErrUnsupportedCategory

	req := httptest.NewRequest(http.MethodGet, "/trending?category=podcasts", nil)
	rr := httptest.NewRecorder()
	f.controller.GetTrending(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, f.cache.sets, "errors are never cached")
}

func TestGetCharts_ReturnsSnapshot(t *testing.T) {
	f := newApiFixture()
	f.charts.snapshot = &models.ChartSnapshot{
		Week:     "2025-W37",
		Category: models.CategorySongs,
		Items: []models.ChartEntry{
			{ItemID: "a", Position: 1, Peak: 1, WeeksOn: 2},
			{ItemID: "b", Position: 2, Peak: 1, WeeksOn: 5},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/charts?category=songs", nil)
	rr := httptest.NewRecorder()
	f.controller.GetCharts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var snap models.ChartSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "2025-W37", snap.Week)
	assert.Len(t, snap.Items, 2)
}

func TestGetCharts_LimitTruncates(t *testing.T) {
	f := newApiFixture()
	f.charts.snapshot = &models.ChartSnapshot{
		Week:     "2025-W37",
		Category: models.CategorySongs,
		Items: []models.ChartEntry{
			{ItemID: "a", Position: 1},
			{ItemID: "b", Position: 2},
			{ItemID: "c", Position: 3},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/charts?category=songs&limit=2", nil)
	rr := httptest.NewRecorder()
	f.controller.GetCharts(rr, req)

	var snap models.ChartSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Len(t, snap.Items, 2)
}

func TestGetChartHistory_ReturnsEntries(t *testing.T) {
	f := newApiFixture()
	f.charts.history = []services.HistoryEntry{
		{Week: "2025-W37", Position: 1, Peak: 1, WeeksOn: 2},
		{Week: "2025-W36", Position: 3, Peak: 1, WeeksOn: 1},
	}

	req := httptest.NewRequest(http.MethodGet, "/charts/history?category=songs&id=a", nil)
	rr := httptest.NewRecorder()
	f.controller.GetChartHistory(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var history []services.HistoryEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "2025-W37", history[0].Week)
}

func TestGetItem_NotFound(t *testing.T) {
	f := newApiFixture()
	f.composer.err = models.ErrNotFound

	req := httptest.NewRequest(http.MethodGet, "/items?category=songs&id=ghost", nil)
	rr := httptest.NewRecorder()
	f.controller.GetItem(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetItem_ComposedView(t *testing.T) {
	f := newApiFixture()
	pos := 1
	score := 120.0
	f.composer.view = &services.ComposedView{
		Item:             services.ItemView{ID: "a", Title: "song"},
		Counts:           models.CountSet{Views: 100, Likes: 10},
		TrendingPosition: &pos,
		TrendingScore:    &score,
	}

	req := httptest.NewRequest(http.MethodGet, "/items?category=songs&id=a", nil)
	rr := httptest.NewRecorder()
	f.controller.GetItem(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var view services.ComposedView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "a", view.Item.ID)
	require.NotNil(t, view.TrendingScore)
	assert.Equal(t, 120.0, *view.TrendingScore)
}

func TestStatusForError_Mapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForError(models.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, statusForError(models.ErrInvalidIdentifier))
	assert.Equal(t, http.StatusBadRequest, statusForError(models.ErrUnsupportedCategory))
	assert.Equal(t, http.StatusBadRequest, statusForError(models.ErrUnsupportedInteractionKind))
	assert.Equal(t, http.StatusBadRequest, statusForError(models.ErrMissingUserID))
	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
