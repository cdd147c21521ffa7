package task

import (
	"time"

	"gorm.io/gorm"
)

// Task is the core domain entity: a unit of work owned by a single user.
//
// The (owner_id, title) pair is unique among non-deleted rows; the partial
// unique index is the store-level guard that closes the create/create race
// the service-level existence check cannot close on its own.
type Task struct {
	ID          string         `gorm:"primarykey;size:36" json:"id"`
	OwnerID     string         `gorm:"column:owner_id;size:36;not null;uniqueIndex:idx_tasks_owner_title,where:deleted_at IS NULL" json:"ownerId"`
	Title       string         `gorm:"size:200;not null;uniqueIndex:idx_tasks_owner_title,where:deleted_at IS NULL" json:"title"`
	Description string         `gorm:"size:1000" json:"description"`
	Status      Status         `gorm:"size:20;not null" json:"status"`
	StartedAt   *time.Time     `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
