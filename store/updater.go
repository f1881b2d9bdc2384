package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"task-board-api/logging"
	"task-board-api/models"
)

// Updater applies partial updates to stored task items. Updates to one id
// are serialised; different ids proceed in parallel.
type Updater struct {
	store  Store
	locks  *KeyedMutex
	logger *log.Logger
	now    func() time.Time
}

func NewUpdater(s Store, logger *log.Logger) *Updater {
	return &Updater{
		store:  s,
		locks:  NewKeyedMutex(),
		logger: logging.OrDiscard(logger),
		now:    time.Now,
	}
}

// Update looks up the task with id, applies every change and persists the
// result. Either all changes are saved or none are.
//
// Errors: *models.ValidationError for an empty update or a bad value,
// *models.InvalidFieldError for a field outside the writable set, ErrNotFound
// when id does not exist. Anything else comes from the store.
func (u *Updater) Update(ctx context.Context, id int, changes models.Changes) (*models.Task, error) {
	if len(changes) == 0 {
		return nil, &models.ValidationError{Message: "No fields to update were provided."}
	}

	unlock := u.locks.Lock(id)
	defer unlock()

	current, err := u.store.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := changes.Apply(current)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = u.now().UTC()

	if err := u.store.Save(ctx, updated); err != nil {
		return nil, err
	}

	u.logger.Debug("task item updated", "id", id, "fields", changes.Fields())
	return updated, nil
}
