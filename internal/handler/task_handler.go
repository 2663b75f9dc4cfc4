package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todo/internal/model"
	"todo/internal/repository"
)

const dateTimeFormatMessage = "Datetime has wrong format. Use one of these formats instead: " +
	"YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z], YYYY-MM-DD."

var errMalformedBody = errors.New("malformed JSON body")

type TaskHandler struct {
	store repository.TaskStore
	log   zerolog.Logger
}

func NewTaskHandler(store repository.TaskStore, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{store: store, log: log}
}

// TaskRequest is the body accepted by create and update. Omitted keys are
// left untouched on update; "id" is ignored.
type TaskRequest = model.TaskFields

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          string  `json:"id" example:"6f1c8a52-0d6e-4a43-9a57-2b0f5bb1d3c4"`
	Title       string  `json:"title" example:"Buy milk"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
	DueDate     *string `json:"due_date" example:"2025-01-31T18:00:00Z"`
	Category    string  `json:"category" enums:"personal,work,study,other"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		Category:    task.Category.String(),
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.UTC().Format(time.RFC3339Nano)
		response.DueDate = &dueDate
	}
	return response
}

// List godoc
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Success  200 {array}  TaskResponse
// @Failure  500 {object} ErrorResponse
// @Router   / [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task body     TaskRequest true "Task fields"
// @Success  201  {object} TaskResponse
// @Failure  400  {object} ErrorResponse
// @Router   / [post]
func (h *TaskHandler) Create(c *gin.Context) {
	fields, ok := h.bind(c)
	if !ok {
		return
	}

	task, err := h.store.Create(c.Request.Context(), fields)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Param    id  path     string true "Task ID" format(uuid)
// @Success  200 {object} TaskResponse
// @Failure  404 {object} ErrorResponse
// @Router   /{id}/ [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update godoc
// @Summary  Update a task
// @Description Only the supplied fields are changed, for both PUT and PATCH.
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id   path     string      true "Task ID" format(uuid)
// @Param    task body     TaskRequest true "Fields to change"
// @Success  200  {object} TaskResponse
// @Failure  400  {object} ErrorResponse
// @Failure  404  {object} ErrorResponse
// @Router   /{id}/ [put]
// @Router   /{id}/ [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	fields, ok := h.bind(c)
	if !ok {
		return
	}

	task, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Param    id  path string true "Task ID" format(uuid)
// @Success  204
// @Failure  404 {object} ErrorResponse
// @Router   /{id}/ [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// taskID parses the id path parameter. An unparsable id cannot name a task,
// so it is reported as not found.
func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, repository.ErrTaskNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes the request body. An empty body means no fields; anything
// after the JSON value is rejected.
func (h *TaskHandler) bind(c *gin.Context) (model.TaskFields, bool) {
	var fields model.TaskFields
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return fields, true
	}
	body, err := c.GetRawData()
	if err == nil {
		if len(bytes.TrimSpace(body)) == 0 {
			return fields, true
		}
		if !json.Valid(body) {
			err = errMalformedBody
		} else {
			err = binding.JSON.BindBody(body, &fields)
		}
	}
	if err == nil {
		return fields, true
	}

	response := ErrorResponse{Error: "Invalid request body"}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, model.ErrInvalidDateTime):
		response.Fields = map[string]string{"due_date": dateTimeFormatMessage}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		response.Fields = map[string]string{typeErr.Field: "Incorrect type. Expected " + typeErr.Type.Kind().String() + "."}
	}
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, response)
	return fields, false
}

func (h *TaskHandler) fail(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Task not found"})
	default:
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("task request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
