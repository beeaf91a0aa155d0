package store

import (
	"os"

	json "github.com/goccy/go-json"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/store/interfaces"
)

const snapshotVersion = 1

type FileManager struct {
	store      StoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store StoreInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := models.Snapshot{
		Version: snapshotVersion,
		Entries: f.store.Snapshot(),
	}

	jsonData, err := json.Marshal(snapshot)
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

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}

	f.store.MarkClean()
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
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
		// Early builds wrote the snapshot uncompressed.
		f.logger.Warnf(providers.TypeApp, "Snapshot is not zstd, trying plain JSON")
		decompressedData = data
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err == nil && snapshot.Entries != nil {
		f.store.Replace(snapshot.Entries)
		f.store.MarkClean()
		return nil
	}

	// Legacy format: flat key-value map without the version envelope.
	f.logger.Warnf(providers.TypeApp, "Inconsistent snapshot found, try to migrate from old data format")
	var flat map[string]string
	if err := json.Unmarshal(decompressedData, &flat); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	f.logger.Warnf(providers.TypeApp, "Migration from legacy format successful")
	f.store.Replace(flat)
	f.store.MarkClean()
	return nil
}
