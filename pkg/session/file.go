package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
)

// FileStore is a file-based workspace store for CLI applications.
// Workspaces are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based workspace store.
// If baseDir is empty, defaults to ~/.config/taskplan/workspaces/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "taskplan", "workspaces")
	}
	if info, err := os.Stat(baseDir); err == nil && !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidPath, "workspace dir %s is not a directory", baseDir)
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "create workspace dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) workspacePath(id string) (string, error) {
	if err := apperrors.ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Workspace, error) {
	path, err := s.workspacePath(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "read workspace file")
	}

	var w Workspace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "parse workspace %q", id)
	}
	return &w, nil
}

func (s *FileStore) Put(ctx context.Context, w *Workspace) error {
	path, err := s.workspacePath(w.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "marshal workspace")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write workspace file")
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.workspacePath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "remove workspace file")
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "read workspace dir")
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for workspace files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
