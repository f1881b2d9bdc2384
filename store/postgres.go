package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"task-board-api/logging"
	"task-board-api/models"
)

const pgColumns = `id, title, description, due_date, status, images, created_at, updated_at`

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// OpenPostgres connects to dsn and ensures the task_items table exists.
func OpenPostgres(ctx context.Context, dsn string, logger *log.Logger) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewPgStore(pool, logger)
	if err := s.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure task_items table: %w", err)
	}
	return s, nil
}

// NewPgStore creates a PgStore on an existing pool.
func NewPgStore(pool *pgxpool.Pool, logger *log.Logger) *PgStore {
	return &PgStore{pool: pool, logger: logging.OrDiscard(logger)}
}

// EnsureTable creates the task_items table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS task_items (
			id          INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date    DATE,
			status      TEXT NOT NULL DEFAULT 'Pending',
			images      TEXT[] NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_task_items_status ON task_items(status)`)
	return err
}

func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Create inserts a new task.
func (s *PgStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("create task item: %w", ErrInvalidArgument)
	}
	out := t.Clone()
	now := time.Now().Truncate(time.Microsecond)
	out.CreatedAt = now
	out.UpdatedAt = now

	var row pgx.Row
	if out.ID == 0 {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO task_items (title, description, due_date, status, images, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			out.Title, out.Description, pgDate(out.DueDate), out.Status.String(), out.Images, out.CreatedAt, out.UpdatedAt)
	} else {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO task_items (id, title, description, due_date, status, images, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			out.ID, out.Title, out.Description, pgDate(out.DueDate), out.Status.String(), out.Images, out.CreatedAt, out.UpdatedAt)
	}
	if err := row.Scan(&out.ID); err != nil {
		return nil, fmt.Errorf("create task item: %w", err)
	}

	s.logger.Debug("task item created", "id", out.ID)
	return out, nil
}

// GetOne retrieves a single task by id.
func (s *PgStore) GetOne(ctx context.Context, id int) (*models.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM task_items WHERE id = $1`, id)
	t, err := scanPgTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get task item %d: %w", id, err)
	}
	return t, nil
}

// GetAll returns all tasks in insertion order.
func (s *PgStore) GetAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM task_items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list task items: %w", err)
	}
	defer rows.Close()
	return scanPgRows(rows)
}

// GetPage returns a window of tasks and the total count.
func (s *PgStore) GetPage(ctx context.Context, offset, limit int) ([]models.Task, int, error) {
	if err := checkWindow(offset, limit); err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM task_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count task items: %w", err)
	}
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM task_items ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list task items: %w", err)
	}
	defer rows.Close()
	tasks, err := scanPgRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Save overwrites every writable column of an existing task.
func (s *PgStore) Save(ctx context.Context, t *models.Task) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE task_items
		SET title = $1, description = $2, due_date = $3, status = $4, images = $5, updated_at = $6
		WHERE id = $7`,
		t.Title, t.Description, pgDate(t.DueDate), t.Status.String(), nonNilImages(t.Images), t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("save task item %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(t.ID)
	}
	return nil
}

// Delete removes a task after checking that it exists.
func (s *PgStore) Delete(ctx context.Context, id int) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM task_items WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return notFound(id)
		}
		_, err := tx.Exec(ctx, `DELETE FROM task_items WHERE id = $1`, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete task item %d: %w", id, err)
	}
	s.logger.Debug("task item deleted", "id", id)
	return nil
}

// Seed bulk-loads count generated tasks with COPY.
func (s *PgStore) Seed(ctx context.Context, count int) error {
	s.logger.Info("generating sample task items", "count", count)
	now := time.Now().Truncate(time.Microsecond)
	rows := make([][]any, 0, count)
	for i := 1; i <= count; i++ {
		t := sampleTask(i)
		rows = append(rows, []any{t.Title, t.Description, t.Status.String(), t.Images, now, now})
	}
	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"task_items"},
		[]string{"title", "description", "status", "images", "created_at", "updated_at"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	s.logger.Info("sample task items generated", "count", n)
	return nil
}

func scanPgTask(row pgx.Row) (*models.Task, error) {
	var (
		t       models.Task
		dueDate *time.Time
		status  string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &dueDate, &status, &t.Images, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("task item %d: stored status %q: %w", t.ID, status, err)
	}
	t.Status = parsed
	if dueDate != nil {
		d := models.DateOf(*dueDate)
		t.DueDate = &d
	}
	if t.Images == nil {
		t.Images = []string{}
	}
	return &t, nil
}

func scanPgRows(rows pgx.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

func pgDate(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
