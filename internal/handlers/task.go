package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/dto"
	apierrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/middleware"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"github.com/escritorio-dados/nanowip-sub000/internal/services"
	"github.com/escritorio-dados/nanowip-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns the organization's tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	filter := repository.TaskFilter{
		OrganizationID: orgID,
		Page:           params.Page,
		PageSize:       params.Limit,
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	filter.OnlyAvailable = c.Query("available") == "true"
	filter.OnlyFinished = c.Query("finished") == "true"

	tasks, total, err := h.taskService.ListTasks(filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// CreateTask creates a new task in the organization
func (h *TaskHandler) CreateTask(c *gin.Context) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name            string     `json:"name" binding:"required"`
		Description     string     `json:"description"`
		DeadlineDate    *time.Time `json:"deadline_date"`
		PreviousTaskIDs []uint64   `json:"previous_task_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:            req.Name,
		Description:     req.Description,
		OrganizationID:  orgID,
		DeadlineDate:    req.DeadlineDate,
		PreviousTaskIDs: req.PreviousTaskIDs,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its relations
func (h *TaskHandler) GetTask(c *gin.Context) {
	orgID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, orgID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates a task's descriptive fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	orgID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Name          *string    `json:"name"`
		Description   *string    `json:"description"`
		DeadlineDate  *time.Time `json:"deadline_date"`
		ClearDeadline bool       `json:"clear_deadline"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, orgID, services.UpdateTaskInput{
		Name:          req.Name,
		Description:   req.Description,
		DeadlineDate:  req.DeadlineDate,
		ClearDeadline: req.ClearDeadline,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task without assignments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	orgID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, orgID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// CloseTask marks a task as finished and closes every assignment under it
func (h *TaskHandler) CloseTask(c *gin.Context) {
	orgID, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	type CloseTaskRequest struct {
		EndDate *time.Time `json:"end_date"`
	}

	// body is optional; a missing end_date defaults to now
	var req CloseTaskRequest
	_ = c.ShouldBindJSON(&req)

	task, err := h.taskService.CloseTask(services.CloseTaskInput{
		TaskID:         taskID,
		OrganizationID: orgID,
		EndDate:        req.EndDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// taskScope extracts the organization and task IDs for task-scoped routes
func taskScope(c *gin.Context) (orgID, taskID uint64, ok bool) {
	orgID, exists := middleware.GetOrganizationID(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return orgID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.Respond(c, err)
	}
}
