package models

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	CategorySongs  = "songs"
	CategoryAlbums = "albums"
	CategoryVideos = "videos"
)

var (
	ErrInvalidIdentifier          = errors.New("invalid item identifier")
	ErrUnsupportedCategory        = errors.New("unsupported category")
	ErrUnsupportedInteractionKind = errors.New("unsupported interaction kind")
	ErrMissingUserID              = errors.New("missing user identifier")
	ErrNotFound                   = errors.New("item not found")
)

// CountSet is the denormalized counter projection attached to responses
// and realtime payloads.
type CountSet struct {
	Likes     int `json:"likes"`
	Views     int `json:"views"`
	Downloads int `json:"downloads"`
	Shares    int `json:"shares"`
}

// MediaItem is a catalog document. The variant (song, album, video) is
// implied by the catalog it lives in; variant-specific fields stay empty
// for the other kinds. Likes is a user-id set so repeated likes from the
// same user cannot double-count.
type MediaItem struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Artist      string              `json:"artist"`
	Genre       string              `json:"genre,omitempty"`
	DurationSec int                 `json:"duration_sec,omitempty"`
	AlbumID     string              `json:"album_id,omitempty"`
	TrackIDs    []string            `json:"track_ids,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Views       int                 `json:"views"`
	Downloads   int                 `json:"downloads"`
	Shares      int                 `json:"shares"`
	Likes       map[string]struct{} `json:"likes"`
}

func (m *MediaItem) Counts() CountSet {
	return CountSet{
		Likes:     len(m.Likes),
		Views:     m.Views,
		Downloads: m.Downloads,
		Shares:    m.Shares,
	}
}

// Clone returns a deep copy safe to hand out across the store boundary.
func (m *MediaItem) Clone() *MediaItem {
	cp := *m
	if m.TrackIDs != nil {
		cp.TrackIDs = append([]string(nil), m.TrackIDs...)
	}
	cp.Likes = make(map[string]struct{}, len(m.Likes))
	for u := range m.Likes {
		cp.Likes[u] = struct{}{}
	}
	return &cp
}

// ItemStats is the slim projection the trending scorer works on.
type ItemStats struct {
	ID        string
	CreatedAt time.Time
	Counts    CountSet
}

// ValidID reports whether id is a well-formed item identifier (ULID).
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// NewID generates a fresh item identifier.
func NewID() string {
	return ulid.Make().String()
}

var modelNames = map[string]string{
	CategorySongs:  "song",
	CategoryAlbums: "album",
	CategoryVideos: "video",
}

// ModelName maps a plural category to its singular document model name,
// used in realtime payloads.
func ModelName(category string) string {
	return modelNames[category]
}
