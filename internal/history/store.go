package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
)

const (
	lockSuffix      = ".lock"
	tempSuffix      = ".tmp"
	filePermissions = 0644
)

// Store is the JSON-backed job history
type Store struct {
	path     string
	mediaDir string
	lock     *flock.Flock
	mutex    sync.Mutex
	logger   hclog.Logger
}

// NewStore creates a store persisting to path. Filenames in records are
// resolved against mediaDir when files are deleted.
func NewStore(path, mediaDir string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		path:     path,
		mediaDir: mediaDir,
		lock:     flock.New(path + lockSuffix),
		logger:   logger,
	}
}

// Path returns the history file location
func (s *Store) Path() string {
	return s.path
}

// List returns every record in insertion order. A missing file is an empty history.
func (s *Store) List() ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := s.withLock(func() error {
		var err error
		records, err = s.load()
		return err
	})
	return records, err
}

// Append adds rec to the end of the history
func (s *Store) Append(rec model.HistoryRecord) error {
	return s.withLock(func() error {
		records, err := s.load()
		if err != nil {
			return err
		}
		return s.save(append(records, rec))
	})
}

// Delete removes the media file called filename and every record that
// references it
func (s *Store) Delete(filename string) error {
	if filename == "" {
		return apperr.Invalid("Filename is required")
	}
	if err := platform.ValidateFilename(filename); err != nil {
		return apperr.Invalid("Invalid filename")
	}

	return s.withLock(func() error {
		if err := platform.RemoveIfExists(filepath.Join(s.mediaDir, filename)); err != nil {
			return apperr.FileSystem("failed to delete media file", err)
		}
		s.logger.Info("deleted file", "filename", filename)

		records, err := s.load()
		if err != nil {
			return err
		}
		kept := records[:0]
		for _, rec := range records {
			if rec.Filename != filename {
				kept = append(kept, rec)
			}
		}
		return s.save(kept)
	})
}

// Clear deletes every referenced media file that still exists, empties the
// history and returns how many files were deleted
func (s *Store) Clear() (int, error) {
	deleted := 0
	err := s.withLock(func() error {
		records, err := s.load()
		if err != nil {
			return err
		}

		for _, rec := range records {
			if platform.ValidateFilename(rec.Filename) != nil {
				continue
			}
			path := filepath.Join(s.mediaDir, rec.Filename)
			if !platform.FileExists(path) {
				continue
			}
			if err := os.Remove(path); err != nil {
				return apperr.FileSystem("failed to delete media file", err)
			}
			deleted++
		}

		return s.save([]model.HistoryRecord{})
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("cleared history", "files_deleted", deleted)
	return deleted, nil
}

func (s *Store) withLock(fn func() error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return apperr.FileSystem("failed to create history directory", err)
		}
	}
	if err := s.lock.Lock(); err != nil {
		return apperr.FileSystem("failed to lock history file", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to unlock history file", "error", err)
		}
	}()

	return fn()
}

func (s *Store) load() ([]model.HistoryRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.HistoryRecord{}, nil
	}
	if err != nil {
		return nil, apperr.FileSystem("failed to read history", err)
	}
	if len(data) == 0 {
		return []model.HistoryRecord{}, nil
	}

	var records []model.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperr.FileSystem("failed to parse history", fmt.Errorf("%s: %w", s.path, err))
	}
	return records, nil
}

// save writes records through a temp file so readers never see a partial list
func (s *Store) save(records []model.HistoryRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperr.FileSystem("failed to encode history", err)
	}

	tmp := s.path + tempSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return apperr.FileSystem("failed to write history", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return apperr.FileSystem("failed to replace history", err)
	}
	return nil
}
