package models

// StorageVersion is the current persistence envelope version.
const StorageVersion = 1

// Storage is the on-disk envelope: every catalog's documents plus all
// chart snapshots, versioned for forward migration.
type Storage struct {
	Version  int                                  `json:"version"`
	Catalogs map[string]map[string]*MediaItem     `json:"catalogs"`
	Charts   map[string]map[string]*ChartSnapshot `json:"charts"`
}
