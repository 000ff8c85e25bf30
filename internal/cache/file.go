package cache

import (
	"context"
	"os"
	"path/filepath"

	"fjacquet/finance-peres/internal/fileutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
)

// FileCache stores the snapshot as <dir>/<key>.json.
type FileCache struct {
	path   string
	logger logging.Logger
}

// NewFileCache creates a file-backed cache. The directory is created on first write.
func NewFileCache(dir, key string, logger logging.Logger) *FileCache {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &FileCache{
		path:   filepath.Join(dir, key+".json"),
		logger: logger.WithField(logging.FieldComponent, "file-cache"),
	}
}

// Path returns the snapshot file location.
func (c *FileCache) Path() string {
	return c.path
}

// ReadSnapshot returns the stored snapshot, or an empty one when the file is
// missing or unreadable.
func (c *FileCache) ReadSnapshot(_ context.Context) []models.Transaction {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.WithError(err).Warn("Failed to read snapshot, starting empty",
				logging.F(logging.FieldPath, c.path))
		}
		return []models.Transaction{}
	}

	records, ok := decodeSnapshot(data)
	if !ok {
		c.logger.Warn("Malformed snapshot, starting empty", logging.F(logging.FieldPath, c.path))
		return records
	}

	c.logger.Debug("Read snapshot",
		logging.F(logging.FieldPath, c.path),
		logging.F(logging.FieldCount, len(records)))
	return records
}

// WriteSnapshot replaces the stored snapshot. Failures are logged, not returned.
func (c *FileCache) WriteSnapshot(_ context.Context, records []models.Transaction) {
	data, err := encodeSnapshot(records)
	if err != nil {
		c.logger.WithError(err).Error("Failed to encode snapshot")
		return
	}
	if err := fileutils.WriteFileAtomic(c.path, data, models.PermissionSnapshotFile); err != nil {
		c.logger.WithError(err).Error("Failed to write snapshot", logging.F(logging.FieldPath, c.path))
		return
	}
	c.logger.Debug("Wrote snapshot",
		logging.F(logging.FieldPath, c.path),
		logging.F(logging.FieldCount, len(records)))
}
