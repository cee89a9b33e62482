package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/utils"
)

// FileStore keeps the session in a single JSON document so that it survives
// restarts of the CLI. Writes go through a temp file and a rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Save(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return ErrIncompleteSession
	}
	if !s.Authenticated() {
		_, err := f.Clear(ctx)
		return err
	}

	data, err := utils.StructToBytes(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read session: %w", err)
	}

	var s models.Session
	if err := utils.BytesToStruct(data, &s); err != nil {
		return models.Session{}, fmt.Errorf("decode session %s: %w", f.path, err)
	}
	if !s.Valid() {
		return models.Session{}, ErrIncompleteSession
	}
	return s, nil
}

func (f *FileStore) Clear(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove session: %w", err)
	}
	return true, nil
}
