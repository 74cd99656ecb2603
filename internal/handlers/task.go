package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brandonopened/aitaskanalysis/internal/dto"
	apierrors "github.com/brandonopened/aitaskanalysis/internal/errors"
	"github.com/brandonopened/aitaskanalysis/internal/middleware"
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/brandonopened/aitaskanalysis/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks ordered by priority then age.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task. Creation is blocked on a successful time
// estimate from the annotation service.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Description string          `json:"description"`
		Priority    models.Priority `json:"priority"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:      userID,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdatePriority changes a task's priority.
func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	type UpdatePriorityRequest struct {
		Priority models.Priority `json:"priority" binding:"required"`
	}

	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdatePriority(userID, taskID, req.Priority)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SetCompleted marks a task completed or not.
func (h *TaskHandler) SetCompleted(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	type SetCompletedRequest struct {
		Completed *bool `json:"completed" binding:"required"`
	}

	var req SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetCompleted(userID, taskID, *req.Completed)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAIDetails returns free-text implementation guidance for a task.
func (h *TaskHandler) GetAIDetails(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	details, err := h.taskService.ExplainTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": details})
}

// AnalyzeTasks annotates every pending task owned by the current user and
// returns the refreshed list. Per-task annotation failures leave those tasks
// pending without failing the request.
func (h *TaskHandler) AnalyzeTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, _, err := h.taskService.AnalyzePending(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetStats returns completed-task statistics for the current user.
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.taskService.Stats(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsDTO{
		TotalTimeSaved:      stats.TotalTimeSaved,
		TotalTasksCompleted: stats.TotalTasksCompleted,
	})
}

// taskRequestIDs resolves the acting user and the task id path parameter.
// A non-numeric id behaves like an absent task.
func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return 0, 0, false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAnnotationUnavailable):
		// Upstream detail stays in the logs.
		apierrors.InternalError(c, "AI analysis is currently unavailable")
	default:
		apierrors.InternalError(c, "")
	}
}
