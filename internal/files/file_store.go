package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps support documents and hands back opaque references. Requests
// persist only the reference; retrieval and existence checks go through here.
//
//go:generate mockgen -source=file_store.go -destination=mock/file_store_mock.go -package=mock
type Store interface {
	Save(name string, r io.Reader) (string, error)
	Open(ref string) (io.ReadCloser, error)
	Exists(ref string) bool
}

type diskStore struct {
	dir    string
	logger *zap.Logger
}

func NewDiskStore(dir string, logger ...*zap.Logger) (Store, error) {
	l := zap.L().Named("files.disk")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("files.disk")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskStore{dir: dir, logger: l}, nil
}

func (s *diskStore) Save(name string, r io.Reader) (string, error) {
	ext := filepath.Ext(name)
	ref := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	s.logger.Debug("support file stored", zap.String("ref", ref))
	return ref, nil
}

func (s *diskStore) Open(ref string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, s.clean(ref)))
}

func (s *diskStore) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, s.clean(ref)))
	return err == nil
}

// clean strips path elements so a stored reference can never escape the
// upload directory.
func (s *diskStore) clean(ref string) string {
	return filepath.Base(strings.TrimSpace(ref))
}
