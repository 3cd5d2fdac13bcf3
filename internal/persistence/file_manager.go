package persistence

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/persistence/interfaces"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
)

// FileManager persists the catalogs and chart history as one versioned,
// zstd-compressed JSON envelope. Writes go through a temp file and an
// atomic rename so a crash mid-save never corrupts the previous state.
type FileManager struct {
	registry   *models.Registry
	charts     *models.ChartStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(registry *models.Registry, charts *models.ChartStore, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		registry:   registry,
		charts:     charts,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) snapshot() *models.Storage {
	storage := &models.Storage{
		Version:  models.StorageVersion,
		Catalogs: make(map[string]map[string]*models.MediaItem),
		Charts:   f.charts.GetData(),
	}
	for _, category := range f.registry.Categories() {
		catalog, ok := f.registry.Catalog(category)
		if !ok {
			continue
		}
		storage.Catalogs[category] = catalog.GetData()
	}
	return storage
}

func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(f.snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err = json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", storage.Version, models.StorageVersion)
	}

	for category, items := range storage.Catalogs {
		catalog, ok := f.registry.Catalog(category)
		if !ok {
			f.logger.Warnf(providers.TypeApp, "Skipping unknown category %q in storage file", category)
			continue
		}
		catalog.PutData(items)
	}
	f.charts.PutData(storage.Charts)

	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
