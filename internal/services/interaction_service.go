package services

import (
	"fmt"
	"time"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
)

const (
	KindView     = "view"
	KindLike     = "like"
	KindUnlike   = "unlike"
	KindDownload = "download"
	KindShare    = "share"
)

// InteractionResult is the caller-facing outcome of one interaction.
// Action distinguishes a real state change from a set no-op (liking an
// already-liked item).
type InteractionResult struct {
	Success bool            `json:"success"`
	Action  string          `json:"action"`
	Counts  models.CountSet `json:"counts"`
}

type InteractionServiceInterface interface {
	Apply(itemID, category, kind, userID string) (*InteractionResult, error)
	Register(category string, item *models.MediaItem) (*models.MediaItem, error)
}

type InteractionService struct {
	registry  *models.Registry
	publisher realtime.BroadcasterInterface
	dirty     *DirtyFlags
	logger    providers.Logger
}

func NewInteractionService(registry *models.Registry, publisher realtime.BroadcasterInterface, dirty *DirtyFlags, logger providers.Logger) InteractionServiceInterface {
	return &InteractionService{
		registry:  registry,
		publisher: publisher,
		dirty:     dirty,
		logger:    logger,
	}
}

// Apply validates, mutates the counter, and fires the realtime update.
// Validation happens before any store mutation; a failed call changes
// no state and publishes nothing.
func (is *InteractionService) Apply(itemID, category, kind, userID string) (*InteractionResult, error) {
	switch kind {
	case KindView, KindLike, KindUnlike, KindDownload, KindShare:
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedInteractionKind, kind)
	}

	catalog, ok := is.registry.Catalog(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}

	if !models.ValidID(itemID) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, itemID)
	}

	// The like set is keyed by user, so the set-based kinds need one.
	if (kind == KindLike || kind == KindUnlike) && userID == "" {
		return nil, fmt.Errorf("%w for %q", models.ErrMissingUserID, kind)
	}

	var (
		counts  models.CountSet
		changed = true
		found   bool
	)

	switch kind {
	case KindView:
		counts, found = catalog.IncView(itemID)
	case KindDownload:
		counts, found = catalog.IncDownload(itemID)
	case KindShare:
		counts, found = catalog.IncShare(itemID)
	case KindLike:
		counts, changed, found = catalog.Like(itemID, userID)
	case KindUnlike:
		counts, changed, found = catalog.Unlike(itemID, userID)
	}

	if !found {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrNotFound, category, itemID)
	}

	action := kind
	if !changed {
		action = "noop"
	}

	is.dirty.Mark(category)
	is.publisher.Publish(realtime.ItemRoom(category, itemID), realtime.Event{
		Name: realtime.EventInteractionUpdate,
		Data: realtime.InteractionUpdate{
			ItemID: itemID,
			Model:  models.ModelName(category),
			Type:   kind,
			Counts: counts,
		},
	})

	return &InteractionResult{Success: true, Action: action, Counts: counts}, nil
}

// Register is the ingest hook for the upload pipeline: it writes a
// media document into the category catalog. An empty ID gets a
// generated one.
func (is *InteractionService) Register(category string, item *models.MediaItem) (*models.MediaItem, error) {
	catalog, ok := is.registry.Catalog(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.ID == "" {
		item.ID = models.NewID()
	} else if !models.ValidID(item.ID) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, item.ID)
	}
	catalog.Put(item)
	is.dirty.Mark(category)
	is.logger.Infof(providers.TypePost, "Registered %s %s", models.ModelName(category), item.ID)
	return item, nil
}
