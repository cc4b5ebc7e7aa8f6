package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// FileStore keeps objects as files below a base directory
type FileStore struct {
	baseDir string
	logger  *zap.Logger
}

// FileStoreOption configures a FileStore
type FileStoreOption func(*FileStore)

// WithFileLogger sets the logger used for store operations
func WithFileLogger(logger *zap.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore creates baseDir if needed
func NewFileStore(baseDir string, opts ...FileStoreOption) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New("archive: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create archive directory %s", baseDir)
	}

	s := &FileStore{baseDir: baseDir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put writes data to key, replacing any existing object
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", key)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "commit %s", key)
	}

	s.logger.Debug("archived document",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))
	return nil
}

// Get reads the object stored under key
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "get %s", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", key)
	}
	return data, nil
}

func (s *FileStore) path(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}
