package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"task-board-api/logging"
	"task-board-api/models"
)

const sqliteColumns = `id, title, description, due_date, status, images, created_at, updated_at`

// SQLiteStore is a sqlite-backed task store.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens (or creates) the sqlite database at path.
func OpenSQLite(ctx context.Context, path string, logger *log.Logger) (*SQLiteStore, error) {
	db, err := openSQLiteDB(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logging.OrDiscard(logger)}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts a new task into the database.
func (s *SQLiteStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("create task item: %w", ErrInvalidArgument)
	}
	out := t.Clone()
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	images, err := marshalImages(out.Images)
	if err != nil {
		return nil, err
	}

	var result sql.Result
	if out.ID == 0 {
		result, err = s.db.ExecContext(ctx, `
		INSERT INTO task_items (title, description, due_date, status, images, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
			out.Title, out.Description, dueDateArg(out.DueDate), out.Status.String(), images, out.CreatedAt, out.UpdatedAt)
	} else {
		result, err = s.db.ExecContext(ctx, `
		INSERT INTO task_items (id, title, description, due_date, status, images, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			out.ID, out.Title, out.Description, dueDateArg(out.DueDate), out.Status.String(), images, out.CreatedAt, out.UpdatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("create task item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create task item: %w", err)
	}
	out.ID = int(id)

	s.logger.Debug("task item created", "id", out.ID)
	return out, nil
}

// GetOne retrieves a single task by id.
func (s *SQLiteStore) GetOne(ctx context.Context, id int) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM task_items WHERE id = ?`, id)
	t, err := scanSQLiteTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get task item %d: %w", id, err)
	}
	return t, nil
}

// GetAll retrieves all tasks in insertion order.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM task_items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list task items: %w", err)
	}
	defer rows.Close()
	return scanSQLiteRows(rows)
}

// GetPage retrieves a subset of tasks and the total count.
func (s *SQLiteStore) GetPage(ctx context.Context, offset, limit int) ([]models.Task, int, error) {
	if err := checkWindow(offset, limit); err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count task items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT `+sqliteColumns+`
	FROM task_items
	ORDER BY id ASC
	LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list task items: %w", err)
	}
	defer rows.Close()

	tasks, err := scanSQLiteRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Save overwrites an existing task.
func (s *SQLiteStore) Save(ctx context.Context, t *models.Task) error {
	images, err := marshalImages(t.Images)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
	UPDATE task_items
	SET title = ?, description = ?, due_date = ?, status = ?, images = ?, updated_at = ?
	WHERE id = ?`,
		t.Title, t.Description, dueDateArg(t.DueDate), t.Status.String(), images, t.UpdatedAt.UTC(), t.ID)
	if err != nil {
		return fmt.Errorf("save task item %d: %w", t.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save task item %d: %w", t.ID, err)
	}
	if n == 0 {
		return notFound(t.ID)
	}
	return nil
}

// Delete deletes a task by id after checking that it exists.
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete task item %d: %w", id, err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_items WHERE id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("delete task item %d: %w", id, err)
	}
	if count == 0 {
		return notFound(id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete task item %d: %w", id, err)
	}

	s.logger.Debug("task item deleted", "id", id)
	return nil
}

// Seed inserts count generated tasks in a single transaction.
func (s *SQLiteStore) Seed(ctx context.Context, count int) error {
	s.logger.Info("generating sample task items", "count", count)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO task_items (title, description, status, images, created_at, updated_at)
	VALUES (?, ?, ?, '[]', ?, ?)`)
	if err != nil {
		return fmt.Errorf("seed: prepare: %w", err)
	}
	defer stmt.Close()

	for i := 1; i <= count; i++ {
		t := sampleTask(i)
		now := time.Now().UTC()
		if _, err := stmt.ExecContext(ctx, t.Title, t.Description, t.Status.String(), now, now); err != nil {
			return fmt.Errorf("seed: insert %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	s.logger.Info("sample task items generated", "count", count)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (*models.Task, error) {
	var (
		t       models.Task
		dueDate sql.NullString
		status  string
		images  string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &dueDate, &status, &images, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("task item %d: stored status %q: %w", t.ID, status, err)
	}
	t.Status = parsed

	if dueDate.Valid && dueDate.String != "" {
		d, err := models.ParseDate(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("task item %d: stored due date %q: %w", t.ID, dueDate.String, err)
		}
		t.DueDate = &d
	}

	if err := json.Unmarshal([]byte(images), &t.Images); err != nil {
		return nil, fmt.Errorf("task item %d: stored images: %w", t.ID, err)
	}
	if t.Images == nil {
		t.Images = []string{}
	}
	return &t, nil
}

func scanSQLiteRows(rows *sql.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
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

func marshalImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("marshal images: %w", err)
	}
	return string(data), nil
}

func dueDateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
