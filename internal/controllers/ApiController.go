package controllers

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/services"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	conf         *structures.Config
	logger       providers.Logger
	interactions services.InteractionServiceInterface
	trending     services.TrendingServiceInterface
	charts       services.ChartServiceInterface
	composer     services.ComposeServiceInterface
	cache        providers.CacheProviderInterface
}

func NewApiController(
	conf *structures.Config,
	logger providers.Logger,
	interactions services.InteractionServiceInterface,
	trending services.TrendingServiceInterface,
	charts services.ChartServiceInterface,
	composer services.ComposeServiceInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		conf:         conf,
		logger:       logger,
		interactions: interactions,
		trending:     trending,
		charts:       charts,
		composer:     composer,
		cache:        cache,
	}
}

type interactionRequest struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	User     string `json:"user,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
// Validation failures reject before any mutation; anything unmapped is
// a store-level failure the caller may retry.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidIdentifier),
		errors.Is(err, models.ErrUnsupportedCategory),
		errors.Is(err, models.ErrUnsupportedInteractionKind),
		errors.Is(err, models.ErrMissingUserID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ac.logger.Errorf(providers.TypeGet, "Query failed for %s: %s", cacheKey, err)
			http.Error(w, "Internal Server Error", status)
			return
		}
		writeError(w, status, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// ReceiveInteraction applies one interaction and returns the resulting
// counters. Counter writes are never cached.
func (ac *ApiController) ReceiveInteraction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := ac.interactions.Apply(payload.ID, payload.Category, payload.Kind, payload.User)
	if err != nil {
		ac.logger.Debugf(providers.TypePost, "Interaction rejected: %s", err)
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// RegisterItem ingests a media document on behalf of the upload
// subsystem.
func (ac *ApiController) RegisterItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	category := r.URL.Query().Get("category")

	var item models.MediaItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	registered, err := ac.interactions.Register(category, &item)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, registered)
}

func (ac *ApiController) GetTrending(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	sinceDays := cast.ToInt(r.URL.Query().Get("sinceDays"))
	if sinceDays <= 0 {
		sinceDays = ac.conf.Charts.TrendingWindowDays
	}

	cacheKey := fmt.Sprintf("trending:%s:%d:%d", category, sinceDays, limit)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return ac.trending.Rank(category, sinceDays, limit)
	})
}

func (ac *ApiController) GetCharts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	week := r.URL.Query().Get("week")
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	cacheKey := fmt.Sprintf("charts:%s:%s:%d", category, week, limit)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		snap, err := ac.charts.GetOrCreate(category, week)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(snap.Items) > limit {
			snap.Items = snap.Items[:limit]
		}
		return snap, nil
	})
}

func (ac *ApiController) GetChartHistory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	itemID := r.URL.Query().Get("id")
	limit := cast.ToInt(r.URL.Query().Get("limit"))

	cacheKey := fmt.Sprintf("history:%s:%s:%d", category, itemID, limit)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return ac.charts.History(itemID, category, limit)
	})
}

func (ac *ApiController) GetItem(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	itemID := r.URL.Query().Get("id")

	cacheKey := fmt.Sprintf("item:%s:%s", category, itemID)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return ac.composer.Compose(category, itemID)
	})
}
