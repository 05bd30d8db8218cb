package db

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/balkashynov/taskgraph/internal/models"
)

// JSONStore persists a project as a single indented JSON document.
type JSONStore struct {
	path  string
	fresh func() *models.Project
	log   *log.Logger
}

// NewJSONStore creates a store for the document at path. fresh builds the
// project used on first run.
func NewJSONStore(path string, fresh func() *models.Project, logger *log.Logger) *JSONStore {
	return &JSONStore{path: path, fresh: fresh, log: discardIfNil(logger)}
}

// Path returns the document location.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the document. A missing or unreadable document is treated as a
// first run: a fresh project is saved and returned.
func (s *JSONStore) Load() (*models.Project, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		var p models.Project
		if err = json.Unmarshal(data, &p); err == nil {
			p.Normalize()
			s.log.Printf("loaded %d tasks from %s", len(p.Tasks), s.path)
			return &p, nil
		}
	}

	s.log.Printf("no usable task document at %s (%v), starting a new project", s.path, err)
	p := s.fresh()
	p.Normalize()
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the whole project. The document is written to a temporary file
// and renamed into place while holding an advisory lock, so readers never see
// a partial document.
func (s *JSONStore) Save(p *models.Project) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	s.log.Printf("saved %d tasks to %s", len(p.Tasks), s.path)
	return nil
}
