package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"task-board-api/logging"
	"task-board-api/models"
)

// MemoryStore keeps task items in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int]*models.Task
	order  []int
	nextID int
	logger *log.Logger
}

func NewMemoryStore(logger *log.Logger) *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int]*models.Task),
		nextID: 1,
		logger: logging.OrDiscard(logger),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("create task item: %w", ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := t.Clone()
	if out.ID == 0 {
		out.ID = s.nextID
	} else if _, exists := s.tasks[out.ID]; exists {
		return nil, fmt.Errorf("create task item: id %d already exists", out.ID)
	}
	if out.ID >= s.nextID {
		s.nextID = out.ID + 1
	}
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	s.tasks[out.ID] = out
	s.order = append(s.order, out.ID)
	s.logger.Debug("task item created", "id", out.ID)
	return out.Clone(), nil
}

func (s *MemoryStore) GetOne(_ context.Context, id int) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, notFound(id)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) GetAll(context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tasks[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetPage(_ context.Context, offset, limit int) ([]models.Task, int, error) {
	if err := checkWindow(offset, limit); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.order)
	out := []models.Task{}
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, *s.tasks[s.order[i]].Clone())
	}
	return out, total, nil
}

func (s *MemoryStore) Save(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[t.ID]
	if !ok {
		return notFound(t.ID)
	}
	saved := t.Clone()
	saved.CreatedAt = existing.CreatedAt
	s.tasks[t.ID] = saved
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return notFound(id)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debug("task item deleted", "id", id)
	return nil
}

func (s *MemoryStore) Seed(ctx context.Context, count int) error {
	for i := 1; i <= count; i++ {
		t := sampleTask(i)
		if _, err := s.Create(ctx, &t); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
