// Package store persists task items and applies partial updates to them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"task-board-api/models"
)

var (
	// ErrNotFound is returned when no task item has the requested id.
	ErrNotFound = errors.New("task item not found")

	// ErrInvalidArgument is returned for a nil record passed to Create or a
	// malformed page window.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store is the contract for task item persistence.
type Store interface {
	// GetOne returns the task with the given id or ErrNotFound.
	GetOne(ctx context.Context, id int) (*models.Task, error)
	// GetAll returns every task in insertion order. Never nil.
	GetAll(ctx context.Context) ([]models.Task, error)
	// GetPage returns up to limit tasks starting at offset, plus the total count.
	// A negative offset or a non-positive limit is ErrInvalidArgument.
	GetPage(ctx context.Context, offset, limit int) ([]models.Task, int, error)
	// Create inserts t, assigning an id when t.ID is zero.
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	// Save overwrites every field of an existing task.
	Save(ctx context.Context, t *models.Task) error
	// Delete removes the task or returns ErrNotFound.
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
	Close() error
}

// Seeder inserts generated sample tasks in bulk.
type Seeder interface {
	Seed(ctx context.Context, count int) error
}

// Open creates the store selected by driver.
func Open(ctx context.Context, driver, dsn string, logger *log.Logger) (Store, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(ctx, dsn, logger)
	case "postgres":
		return OpenPostgres(ctx, dsn, logger)
	case "memory":
		return NewMemoryStore(logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func checkWindow(offset, limit int) error {
	if offset < 0 || limit <= 0 {
		return fmt.Errorf("page window offset=%d limit=%d: %w", offset, limit, ErrInvalidArgument)
	}
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("task item %d: %w", id, ErrNotFound)
}

func sampleTask(n int) models.Task {
	return models.Task{
		Title:       fmt.Sprintf("Task %d", n),
		Description: fmt.Sprintf("Description for task %d", n),
		Status:      models.Statuses()[n%3],
		Images:      []string{},
	}
}
