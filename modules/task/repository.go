package task

import (
	"errors"
	"fmt"

	domain "github.com/kelrob/hello-niyo/domain/task"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no non-deleted task matches both the id
	// and the owner. Ownership mismatches are indistinguishable from missing
	// rows by design.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateTitle is returned when the (owner_id, title) partial unique
	// index rejects a write.
	ErrDuplicateTitle = errors.New("task title already in use")
)

// Repository provides access to task storage via GORM. Soft-deleted rows are
// excluded from every query by the gorm.DeletedAt field on the entity, so no
// per-query deleted_at predicate is needed here.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task. A duplicate (owner_id, title) pair among
// non-deleted rows is reported as ErrDuplicateTitle, including the case
// where a concurrent create won the race after the caller's pre-check.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByIDAndOwner retrieves a non-deleted task scoped by both id and owner.
func (r *Repository) FindByIDAndOwner(id, ownerID string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwner retrieves all non-deleted tasks for an owner in creation order.
func (r *Repository) FindByOwner(ownerID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// TitleExists reports whether the owner already has a non-deleted task with
// the given title.
func (r *Repository) TitleExists(ownerID, title string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Task{}).
		Where("owner_id = ? AND title = ?", ownerID, title).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return count > 0, nil
}

// Save persists all fields of an existing task.
func (r *Repository) Save(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete soft-deletes a task scoped by both id and owner and returns the
// number of rows affected. Zero rows after a successful existence check
// signals a concurrent delete; the caller decides how to surface that.
func (r *Repository) Delete(id, ownerID string) (int64, error) {
	result := r.db.Delete(&domain.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected, nil
}
