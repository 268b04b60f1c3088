package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/maboroshi-cli/maboroshi/where"
)

type document struct {
	Items []track.Track `json:"items"`
}

// FileStore keeps favorites as {"items": [...]} at a single path.
type FileStore struct {
	path string

	// Now stamps the backup of a corrupt file.
	Now func() time.Time
}

// NewFileStore stores favorites at path, or at the default location when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = where.Favorites()
	}

	return &FileStore{path: path, Now: time.Now}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the favorites file. A missing file is an empty queue. A file that
// cannot be decoded is moved aside and an empty queue is returned with an error.
func (s *FileStore) Load() ([]track.Track, error) {
	data, err := filesystem.API().ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		backup, moveErr := filesystem.MoveAside(s.path, "corrupt", s.Now())
		if moveErr != nil {
			return nil, fmt.Errorf("%w: decode %s: %v (backup failed: %v)", ErrPersistence, s.path, err, moveErr)
		}

		log.Warnf("favorites file %s is unreadable, moved to %s: %v", s.path, backup, err)
		return nil, fmt.Errorf("%w: %s was unreadable and moved to %s", ErrPersistence, s.path, backup)
	}

	return doc.Items, nil
}

// Save writes the whole queue through a temporary file and a rename.
func (s *FileStore) Save(tracks []track.Track) error {
	if tracks == nil {
		tracks = []track.Track{}
	}

	data, err := json.MarshalIndent(document{Items: tracks}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	fs := filesystem.API()
	if err := fs.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, s.path, err)
	}

	return nil
}
