package repository

import (
	"github.com/brandonopened/aitaskanalysis/internal/models"
	"gorm.io/gorm"
)

// priorityRankOrder sorts high before medium before low; creation time breaks ties.
const priorityRankOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindOwned finds a task by ID scoped to its owner. A task owned by another
// user yields gorm.ErrRecordNotFound, same as an absent one.
func (r *GormTaskRepository) FindOwned(id, userID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner returns a user's tasks ordered by priority rank, then creation time
func (r *GormTaskRepository) ListByOwner(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ?", userID).
		Order(priorityRankOrder).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPendingByOwner returns a user's tasks still awaiting analysis
func (r *GormTaskRepository) ListPendingByOwner(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ? AND ai_potential = ?", userID, models.AIPotentialPending).
		Order(priorityRankOrder).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// ApplyAnnotation writes one task's annotation result in a single update, so
// the transition away from pending is atomic per task.
func (r *GormTaskRepository) ApplyAnnotation(taskID uint64, update AnnotationUpdate) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"ai_potential":              update.Potential,
			"coaching_tips":             update.CoachingTips,
			"motivational_score":        update.MotivationalScore,
			"estimated_minutes":         update.EstimatedMinutes,
			"estimated_minutes_with_ai": update.EstimatedMinutesWithAI,
		}).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// StatsByOwner computes completed-task statistics for one user. Time saved
// only counts tasks where both estimate fields are present.
func (r *GormTaskRepository) StatsByOwner(userID uint64) (OwnerStats, error) {
	var stats OwnerStats

	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&stats.TotalTasksCompleted).Error
	if err != nil {
		return OwnerStats{}, err
	}

	err = r.db.Model(&models.Task{}).
		Select("COALESCE(SUM(estimated_minutes - estimated_minutes_with_ai), 0)").
		Where("user_id = ? AND completed = ?", userID, true).
		Where("estimated_minutes IS NOT NULL AND estimated_minutes_with_ai IS NOT NULL").
		Scan(&stats.TotalTimeSaved).Error
	if err != nil {
		return OwnerStats{}, err
	}

	return stats, nil
}
