package store

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/highlighter/internal/filex"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

// FileStore keeps the document in one JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return initialize(ctx, f)
	}
	if err != nil {
		return nil, persistenceError("read "+f.path, err)
	}
	return Decode(data)
}

func (f *FileStore) Save(_ context.Context, s *models.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(f.path, data, 0o600); err != nil {
		return persistenceError("write "+f.path, err)
	}
	return nil
}
