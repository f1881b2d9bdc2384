package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-board-api/logging"
	"task-board-api/models"
	"task-board-api/response"
	"task-board-api/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TaskItemHandler serves the task item CRUD endpoints.
type TaskItemHandler struct {
	store    store.Store
	updater  *store.Updater
	logger   *log.Logger
	basePath string
}

func NewTaskItemHandler(s store.Store, u *store.Updater, logger *log.Logger, basePath string) *TaskItemHandler {
	logger = logging.OrDiscard(logger)
	if u == nil {
		u = store.NewUpdater(s, logger)
	}
	return &TaskItemHandler{store: s, updater: u, logger: logger, basePath: basePath}
}

// Register mounts the task item routes on rg.
func (h *TaskItemHandler) Register(rg gin.IRouter) {
	g := rg.Group("/task-items")
	g.GET("", h.Index)
	g.GET("/:id", h.Show)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Destroy)
}

// Index lists task items. With page or limit in the query it returns one page
// and sets X-Total-Count.
func (h *TaskItemHandler) Index(c *gin.Context) {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")

	if !hasPage && !hasLimit {
		tasks, err := h.store.GetAll(c.Request.Context())
		if err != nil {
			h.fail(c, err, 0)
			return
		}
		h.logger.Info("retrieved all task items", "count", len(tasks))
		response.Write(c, response.Success(models.FromEntities(tasks)))
		return
	}

	page, limit := 1, defaultPageLimit
	var err error
	if hasPage {
		if page, err = strconv.Atoi(pageStr); err != nil || page <= 0 {
			response.Write(c, response.Error[any](http.StatusBadRequest, "Invalid page value."))
			return
		}
	}
	if hasLimit {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit <= 0 || limit > maxPageLimit {
			response.Write(c, response.Error[any](http.StatusBadRequest, fmt.Sprintf("Invalid limit value, expected 1 to %d.", maxPageLimit)))
			return
		}
	}

	if page-1 > math.MaxInt/limit {
		response.Write(c, response.Error[any](http.StatusBadRequest, "Invalid page value."))
		return
	}

	tasks, total, err := h.store.GetPage(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(total))
	response.Write(c, response.Success(models.FromEntities(tasks)))
}

// Show returns one task item.
func (h *TaskItemHandler) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.store.GetOne(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	h.logger.Info("retrieved task item", "id", id)
	response.Write(c, response.Success(models.FromEntity(task)))
}

// Create inserts a task item and points Location at it.
func (h *TaskItemHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Write(c, response.Error[any](http.StatusBadRequest, "Invalid request body."))
		return
	}
	if err := checkBody(createSchema, body); err != nil {
		h.fail(c, err, 0)
		return
	}

	var input models.TaskItemCreateDTO
	if err := bindBody(body, &input); err != nil {
		h.fail(c, err, 0)
		return
	}
	task, err := input.Task()
	if err != nil {
		h.fail(c, err, 0)
		return
	}

	created, err := h.store.Create(c.Request.Context(), task)
	if err != nil {
		h.fail(c, err, 0)
		return
	}

	h.logger.Info("created task item", "id", created.ID)
	c.Header("Location", fmt.Sprintf("%s/task-items/%d", h.basePath, created.ID))
	response.Write(c, response.Success(models.FromEntity(created)).WithStatus(http.StatusCreated))
}

// Update applies the supplied fields to an existing task item.
func (h *TaskItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		response.Write(c, response.Error[any](http.StatusBadRequest, "Invalid request body."))
		return
	}
	if err := checkBody(updateSchema, body); err != nil {
		h.fail(c, err, id)
		return
	}

	var input models.TaskItemUpdateDTO
	if err := bindBody(body, &input); err != nil {
		h.fail(c, err, id)
		return
	}

	changes := input.Changes()
	if len(changes) == 0 {
		h.logger.Warn("no valid fields provided for update", "id", id)
		response.Write(c, response.Error[any](http.StatusBadRequest, "No fields to update were provided."))
		return
	}

	updated, err := h.updater.Update(c.Request.Context(), id, changes)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	h.logger.Info("updated task item", "id", id)
	response.Write(c, response.Success(models.FromEntity(updated)))
}

// Destroy deletes a task item and answers 204 with no body.
func (h *TaskItemHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, id)
		return
	}
	h.logger.Info("deleted task item", "id", id)
	c.Status(http.StatusNoContent)
}

// fail maps err onto an error envelope.
func (h *TaskItemHandler) fail(c *gin.Context, err error, id int) {
	var (
		fieldErr *models.InvalidFieldError
		valErr   *models.ValidationError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg := fmt.Sprintf("TaskItem with ID %d not found.", id)
		h.logger.Warn(msg)
		response.Write(c, response.NotFound[any](msg))
	case errors.As(err, &fieldErr):
		h.logger.Warn("rejected update field", "id", id, "field", fieldErr.Field, "reason", fieldErr.Reason)
		response.Write(c, response.Error[any](http.StatusBadRequest, fieldErr.Message()))
	case errors.As(err, &valErr):
		h.logger.Warn("invalid task item input", "id", id, "err", valErr.Message)
		response.Write(c, response.Error[any](http.StatusBadRequest, valErr.Message))
	default:
		h.logger.Error("task item request failed", "id", id, "err", err)
		response.Write(c, response.Error[any](http.StatusInternalServerError, "Internal server error.").
			WithStatus(http.StatusInternalServerError))
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Write(c, response.Error[any](http.StatusBadRequest, "Invalid task item ID."))
		return 0, false
	}
	return id, true
}
