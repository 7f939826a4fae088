package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jask/jaskcontacts/internal/domain"
)

const snapshotFile = "people.json"

// Store keeps a JSON snapshot of all people under a config directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a Store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// DefaultStore uses the user config dir on the OS filesystem.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(afero.NewOsFs(), filepath.Join(dir, "jaskcontacts")), nil
}

func (s *Store) path() string { return filepath.Join(s.dir, snapshotFile) }

// SavePeople atomically replaces the snapshot.
func (s *Store) SavePeople(people []domain.Person) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if people == nil {
		people = []domain.Person{}
	}
	data, err := json.MarshalIndent(people, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.fs, s.path(), data)
}

// LoadPeople returns the snapshot, or nil when none was saved.
func (s *Store) LoadPeople() ([]domain.Person, error) {
	data, err := afero.ReadFile(s.fs, s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var people []domain.Person
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snapshotFile, err)
	}
	return people, nil
}

// WriteFileAtomic writes data through a temp file and rename.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = fs.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
