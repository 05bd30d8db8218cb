package db

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/balkashynov/taskgraph/internal/models"
)

// Store loads and saves a whole project. Every mutating operation loads the
// document, changes it in memory and saves it back; there are no partial
// updates.
type Store interface {
	Load() (*models.Project, error)
	Save(p *models.Project) error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Options selects and configures a store backend.
type Options struct {
	Backend     string
	JSONPath    string
	SQLitePath  string
	ProjectName string // name for a new project; defaults to the working directory's base name
	Today       func() time.Time
	Logger      *log.Logger
	Verbose     bool
}

// Open creates the configured store. The returned close function releases
// backend resources and is always safe to call.
func Open(opts Options) (Store, func() error, error) {
	fresh := freshProject(opts.ProjectName, opts.Today)
	noop := func() error { return nil }

	switch opts.Backend {
	case "", BackendJSON:
		return NewJSONStore(opts.JSONPath, fresh, opts.Logger), noop, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(opts.SQLitePath, fresh, opts.Logger, opts.Verbose)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// freshProject returns the constructor for the empty project created on
// first run.
func freshProject(name string, today func() time.Time) func() *models.Project {
	if today == nil {
		today = time.Now
	}
	return func() *models.Project {
		projectName := name
		if projectName == "" {
			projectName = workingDirName()
		}
		return &models.Project{
			Name:      projectName,
			CreatedAt: models.DateOf(today()),
			Tasks:     []models.Task{},
		}
	}
}

func workingDirName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "project"
	}
	return filepath.Base(wd)
}

func discardIfNil(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
