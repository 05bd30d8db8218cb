package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/taskgraph/internal/models"
)

// projectRow is the single project record of a database.
type projectRow struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null"`
	CreatedOn string `gorm:"not null"`
}

func (projectRow) TableName() string { return "projects" }

type taskRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Position    int    `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:pendente"`
	Priority    string `gorm:"not null;default:media"`
	CreatedOn   string
	CompletedOn *string
}

func (taskRow) TableName() string { return "tasks" }

// dependencyRow is one edge: TaskID depends on DependsOnID.
type dependencyRow struct {
	TaskID      int `gorm:"primaryKey;autoIncrement:false"`
	DependsOnID int `gorm:"primaryKey;autoIncrement:false"`
	Position    int `gorm:"not null"`
}

func (dependencyRow) TableName() string { return "task_dependencies" }

// SQLiteStore persists a project in an SQLite database through GORM.
type SQLiteStore struct {
	db    *gorm.DB
	fresh func() *models.Project
	log   *log.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and runs
// migrations.
func NewSQLiteStore(path string, fresh func() *models.Project, l *log.Logger, verbose bool) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create task directory: %w", err)
	}

	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{db: gdb, fresh: fresh, log: discardIfNil(l)}
	if err := s.runMigrations(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) runMigrations() error {
	return s.db.AutoMigrate(
		&projectRow{},
		&taskRow{},
		&dependencyRow{},
	)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load reads the project. An empty database is treated as a first run.
func (s *SQLiteStore) Load() (*models.Project, error) {
	var proj projectRow
	err := s.db.First(&proj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Printf("empty task database, starting a new project")
		p := s.fresh()
		if err := s.Save(p); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var rows []taskRow
	if err := s.db.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	var edges []dependencyRow
	if err := s.db.Order("task_id, position").Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("load dependencies: %w", err)
	}

	deps := make(map[int][]int)
	for _, e := range edges {
		deps[e.TaskID] = append(deps[e.TaskID], e.DependsOnID)
	}

	p := &models.Project{
		Name:      proj.Name,
		CreatedAt: models.Date(proj.CreatedOn),
		Tasks:     make([]models.Task, 0, len(rows)),
	}
	for _, r := range rows {
		t := models.Task{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Status:       models.Status(r.Status),
			Priority:     models.Priority(r.Priority),
			Dependencies: deps[r.ID],
			CreatedAt:    models.Date(r.CreatedOn),
		}
		if r.CompletedOn != nil {
			d := models.Date(*r.CompletedOn)
			t.CompletedAt = &d
		}
		p.Tasks = append(p.Tasks, t)
	}
	p.Normalize()
	s.log.Printf("loaded %d tasks from sqlite", len(p.Tasks))
	return p, nil
}

// Save replaces the stored project in a single transaction.
func (s *SQLiteStore) Save(p *models.Project) error {
	rows := make([]taskRow, 0, len(p.Tasks))
	var edges []dependencyRow
	for i, t := range p.Tasks {
		r := taskRow{
			ID:          t.ID,
			Position:    i,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			CreatedOn:   string(t.CreatedAt),
		}
		if t.CompletedAt != nil {
			done := string(*t.CompletedAt)
			r.CompletedOn = &done
		}
		rows = append(rows, r)
		for j, dep := range t.Dependencies {
			edges = append(edges, dependencyRow{TaskID: t.ID, DependsOnID: dep, Position: j})
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&dependencyRow{}, &taskRow{}, &projectRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&projectRow{ID: 1, Name: p.Name, CreatedOn: string(p.CreatedAt)}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if len(edges) > 0 {
			if err := tx.Create(&edges).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace project rows: %w", err)
	}
	s.log.Printf("saved %d tasks to sqlite", len(p.Tasks))
	return nil
}
