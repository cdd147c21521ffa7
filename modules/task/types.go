package task

import (
	"context"
	"time"
)

// CreateTaskRequest is the request for creating a task. OwnerID is always
// filled in from the caller's verified identity, never from client input.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// GetTaskRequest is the request for getting a single task.
type GetTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// ListTasksRequest is the request for listing an owner's tasks.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// UpdateTaskRequest is the request for patching a task's title and/or
// description. Nil fields are left untouched; an all-nil patch is rejected
// before the store is consulted.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ChangeTaskStatusRequest is the request for a status transition.
// StartedAt and CompletedAt are accepted for wire compatibility but the
// engine derives both timestamps itself; supplied values are ignored.
type ChangeTaskStatusRequest struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DeleteTaskRequest is the request for soft-deleting a task.
type DeleteTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// TaskResponse is the externally visible projection of a task. It is an
// explicit allow-list: deleted_at and any future internal fields stay out.
// StartedAt/CompletedAt serialize as null until derived.
type TaskResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskEnvelope wraps a single task in the {message, data} response shape.
type TaskEnvelope struct {
	Message string       `json:"message"`
	Data    TaskResponse `json:"data"`
}

// TaskListEnvelope wraps a task list in the {message, data} response shape.
type TaskListEnvelope struct {
	Message string         `json:"message"`
	Data    []TaskResponse `json:"data"`
}

// DeletedTask is the confirmation record returned by a delete.
type DeletedTask struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
}

// DeleteTaskEnvelope wraps a delete confirmation in the response shape.
type DeleteTaskEnvelope struct {
	Message string      `json:"message"`
	Data    DeletedTask `json:"data"`
}

// TaskPort defines the interface driving adapters use to reach the task
// lifecycle engine.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskEnvelope, error)
	GetTask(ctx context.Context, id, ownerID string) (*TaskEnvelope, error)
	ListTasks(ctx context.Context, ownerID string) (*TaskListEnvelope, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskEnvelope, error)
	ChangeTaskStatus(ctx context.Context, req *ChangeTaskStatusRequest) (*TaskEnvelope, error)
	DeleteTask(ctx context.Context, id, ownerID string) (*DeleteTaskEnvelope, error)
}
