package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	domain "github.com/kelrob/hello-niyo/domain/task"
	"github.com/kelrob/hello-niyo/events"
)

// createTask handles the task.create-task service request. The pre-check on
// the title is an early exit for the common case; the partial unique index on
// (owner_id, title) is what actually closes the concurrent-create race.
func (m *TaskModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskEnvelope, error) {
	if req.OwnerID == "" {
		return TaskEnvelope{}, fmt.Errorf("owner id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return TaskEnvelope{}, fmt.Errorf("title is required")
	}

	status := domain.Status(req.Status)
	if req.Status == "" {
		status = domain.StatusNotStarted
	}
	if !domain.ValidStatus(status) {
		return TaskEnvelope{}, fmt.Errorf("invalid task status %s", req.Status)
	}

	exists, err := m.repo.TitleExists(req.OwnerID, req.Title)
	if err != nil {
		return TaskEnvelope{}, err
	}
	if exists {
		return TaskEnvelope{}, fmt.Errorf("you already have a task with title %s", req.Title)
	}

	newTask := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	}

	if err := m.repo.Create(newTask); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return TaskEnvelope{}, fmt.Errorf("you already have a task with title %s", req.Title)
		}
		return TaskEnvelope{}, fmt.Errorf("failed to save task: %w", err)
	}

	m.publishTaskCreated(newTask)

	return TaskEnvelope{
		Message: "Task created Successfully",
		Data:    toTaskResponse(newTask),
	}, nil
}

// getTask handles the task.get-task service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskEnvelope, error) {
	if req.ID == "" {
		return TaskEnvelope{}, fmt.Errorf("id is required")
	}

	found, err := m.repo.FindByIDAndOwner(req.ID, req.OwnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskEnvelope{}, fmt.Errorf("task with ID %s not found for user", req.ID)
		}
		return TaskEnvelope{}, err
	}

	return TaskEnvelope{
		Message: "Task retrieved successfully",
		Data:    toTaskResponse(found),
	}, nil
}

// listTasks handles the task.list-tasks service request. An owner with no
// tasks gets an empty list, not an error.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (TaskListEnvelope, error) {
	if req.OwnerID == "" {
		return TaskListEnvelope{}, fmt.Errorf("owner id is required")
	}

	tasks, err := m.repo.FindByOwner(req.OwnerID)
	if err != nil {
		return TaskListEnvelope{}, err
	}

	response := TaskListEnvelope{
		Message: "User Tasks retrieved",
		Data:    make([]TaskResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		response.Data = append(response.Data, toTaskResponse(t))
	}

	return response, nil
}

// updateTask handles the task.update-task service request. Only title and
// description are patchable here; status moves through change-task-status.
func (m *TaskModule) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskEnvelope, error) {
	if req.ID == "" {
		return TaskEnvelope{}, fmt.Errorf("id is required")
	}
	if req.Title == nil && req.Description == nil {
		return TaskEnvelope{}, fmt.Errorf("update body can not be empty")
	}

	found, err := m.repo.FindByIDAndOwner(req.ID, req.OwnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskEnvelope{}, fmt.Errorf("task with ID %s not found for user", req.ID)
		}
		return TaskEnvelope{}, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return TaskEnvelope{}, fmt.Errorf("title is required")
		}
		found.Title = *req.Title
	}
	if req.Description != nil {
		found.Description = *req.Description
	}

	if err := m.repo.Save(found); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return TaskEnvelope{}, fmt.Errorf("you already have a task with title %s", found.Title)
		}
		return TaskEnvelope{}, fmt.Errorf("failed to update task: %w", err)
	}

	return TaskEnvelope{
		Message: "Task Updated successfully",
		Data:    toTaskResponse(found),
	}, nil
}

// changeTaskStatus handles the task.change-task-status service request.
// Timestamps are derived from the transition; values supplied by the caller
// are ignored.
func (m *TaskModule) changeTaskStatus(_ context.Context, req ChangeTaskStatusRequest, _ *mono.Msg) (TaskEnvelope, error) {
	if req.ID == "" {
		return TaskEnvelope{}, fmt.Errorf("id is required")
	}

	found, err := m.repo.FindByIDAndOwner(req.ID, req.OwnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskEnvelope{}, fmt.Errorf("task with ID %s not found for user", req.ID)
		}
		return TaskEnvelope{}, err
	}

	target := domain.Status(req.Status)
	result, err := domain.Transition(found.Status, target, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownStatus):
			return TaskEnvelope{}, fmt.Errorf("invalid task status %s", req.Status)
		case errors.Is(err, domain.ErrSameStatus):
			return TaskEnvelope{}, fmt.Errorf("task is already in the status %s", req.Status)
		default:
			return TaskEnvelope{}, err
		}
	}

	found.Status = target
	if result.StartedAt != nil {
		found.StartedAt = result.StartedAt
	}
	if result.CompletedAt != nil {
		found.CompletedAt = result.CompletedAt
	}

	if err := m.repo.Save(found); err != nil {
		return TaskEnvelope{}, fmt.Errorf("failed to update task: %w", err)
	}

	return TaskEnvelope{
		Message: "Task Updated successfully",
		Data:    toTaskResponse(found),
	}, nil
}

// deleteTask handles the task.delete-task service request. The delete is
// soft; the row stays behind with deleted_at set and its title becomes
// reusable immediately.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskEnvelope, error) {
	if req.ID == "" {
		return DeleteTaskEnvelope{}, fmt.Errorf("id is required")
	}

	if _, err := m.repo.FindByIDAndOwner(req.ID, req.OwnerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteTaskEnvelope{}, fmt.Errorf("task with ID %s not found for user", req.ID)
		}
		return DeleteTaskEnvelope{}, err
	}

	rows, err := m.repo.Delete(req.ID, req.OwnerID)
	if err != nil {
		return DeleteTaskEnvelope{}, fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return DeleteTaskEnvelope{}, fmt.Errorf("unable to delete task, please try again later")
	}

	return DeleteTaskEnvelope{
		Message: "Task Deleted Successfully",
		Data:    DeletedTask{ID: req.ID, OwnerID: req.OwnerID},
	}, nil
}

// publishTaskCreated announces a freshly persisted task on the event bus.
// Publish failures are logged and swallowed: the task is already durable and
// the create must still succeed.
func (m *TaskModule) publishTaskCreated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}

	event := events.TaskCreatedEvent{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Failed to publish TaskCreated event for %s: %v", t.ID, err)
	}
}

// toTaskResponse maps a stored task to its external projection.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
