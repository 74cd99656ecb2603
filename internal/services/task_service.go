package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brandonopened/aitaskanalysis/internal/models"
	"github.com/brandonopened/aitaskanalysis/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidPriority     = errors.New("invalid priority")
)

// analyzeConcurrency bounds in-flight annotation round trips during AnalyzePending.
const analyzeConcurrency = 4

// TaskService handles task business logic. Every operation is scoped to the
// acting user: a task that exists but is owned by someone else behaves exactly
// like an absent one.
type TaskService struct {
	taskRepo  repository.TaskRepository
	annotator Annotator
	logger    *zap.Logger
}

// NewTaskService creates a new TaskService. The annotator may be nil when the
// external service is not configured; annotation-dependent operations then fail
// with ErrAnnotationUnavailable.
func NewTaskService(taskRepo repository.TaskRepository, annotator Annotator, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		annotator: annotator,
		logger:    logger,
	}
}

// ListTasks returns the user's tasks ordered by priority rank (high, medium,
// low), then creation time within a priority.
func (s *TaskService) ListTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Description string
	Priority    models.Priority
}

// CreateTask validates input, obtains a time estimate, and inserts the task.
// Creation is blocked on a successful estimate: an annotation failure surfaces
// as an error and nothing is inserted.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if s.annotator == nil {
		return nil, fmt.Errorf("%w: not configured", ErrAnnotationUnavailable)
	}

	estimate, err := s.annotator.EstimateTime(ctx, input.Description)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:                 input.UserID,
		Description:            input.Description,
		Priority:               input.Priority,
		AIPotential:            models.AIPotentialPending,
		EstimatedMinutes:       &estimate.ManualMinutes,
		EstimatedMinutesWithAI: estimate.AIMinutes,
		Completed:              false,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdatePriority changes a task's priority under the ownership guard.
func (s *TaskService) UpdatePriority(userID, taskID uint64, priority models.Priority) (*models.Task, error) {
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Priority = priority
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update priority: %w", err)
	}

	return task, nil
}

// SetCompleted marks a task completed or not under the ownership guard.
func (s *TaskService) SetCompleted(userID, taskID uint64, completed bool) (*models.Task, error) {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Completed = completed
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task under the ownership guard. Deleting an absent id
// is ErrTaskNotFound, consistent with every other mutating operation.
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ExplainTask returns free-text implementation guidance for an owned task.
func (s *TaskService) ExplainTask(ctx context.Context, userID, taskID uint64) (string, error) {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return "", err
	}

	if s.annotator == nil {
		return "", fmt.Errorf("%w: not configured", ErrAnnotationUnavailable)
	}

	return s.annotator.ExplainImplementation(ctx, task.Description)
}

// AnalyzePending annotates every owned task still pending. Tasks are analyzed
// concurrently; a failed annotation leaves that task pending and is logged,
// never affecting its siblings. Returns the refreshed task list and the number
// of tasks that failed.
func (s *TaskService) AnalyzePending(ctx context.Context, userID uint64) ([]models.Task, int, error) {
	pending, err := s.taskRepo.ListPendingByOwner(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	var failed int
	if len(pending) > 0 && s.annotator != nil {
		failed = s.annotateAll(ctx, pending)
	} else if s.annotator == nil {
		failed = len(pending)
	}

	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, failed, nil
}

func (s *TaskService) annotateAll(ctx context.Context, pending []models.Task) int {
	results := make([]bool, len(pending))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)

	for i, task := range pending {
		g.Go(func() error {
			results[i] = s.annotateOne(ctx, task)
			return nil
		})
	}

	// Goroutines never return errors; failures are isolated per task.
	_ = g.Wait()

	failed := 0
	for _, ok := range results {
		if !ok {
			failed++
		}
	}
	return failed
}

// annotateOne runs both annotation calls for a single task and applies the
// result in one update. Any failure leaves the task pending.
func (s *TaskService) annotateOne(ctx context.Context, task models.Task) bool {
	analysis, err := s.annotator.AnalyzePotential(ctx, task.Description)
	if err != nil {
		s.logger.Warn("potential analysis failed",
			zap.Uint64("task_id", task.ID),
			zap.Error(err),
		)
		return false
	}

	estimate, err := s.annotator.EstimateTime(ctx, task.Description)
	if err != nil {
		s.logger.Warn("time estimate failed",
			zap.Uint64("task_id", task.ID),
			zap.Error(err),
		)
		return false
	}

	update := repository.AnnotationUpdate{
		Potential:              analysis.Potential,
		CoachingTips:           analysis.CoachingTips,
		MotivationalScore:      analysis.MotivationalScore,
		EstimatedMinutes:       estimate.ManualMinutes,
		EstimatedMinutesWithAI: estimate.AIMinutes,
	}
	if err := s.taskRepo.ApplyAnnotation(task.ID, update); err != nil {
		s.logger.Error("failed to store annotation",
			zap.Uint64("task_id", task.ID),
			zap.Error(err),
		)
		return false
	}

	return true
}

// Stats returns completed-task statistics for the user. Time saved only counts
// completed tasks where both estimate fields are present.
func (s *TaskService) Stats(userID uint64) (repository.OwnerStats, error) {
	stats, err := s.taskRepo.StatsByOwner(userID)
	if err != nil {
		return repository.OwnerStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

func (s *TaskService) findOwned(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
