package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	domain "github.com/kelrob/hello-niyo/domain/user"
	"github.com/kelrob/hello-niyo/modules/task"
)

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	createFunc       func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskEnvelope, error)
	getFunc          func(ctx context.Context, id, ownerID string) (*task.TaskEnvelope, error)
	listFunc         func(ctx context.Context, ownerID string) (*task.TaskListEnvelope, error)
	updateFunc       func(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskEnvelope, error)
	changeStatusFunc func(ctx context.Context, req *task.ChangeTaskStatusRequest) (*task.TaskEnvelope, error)
	deleteFunc       func(ctx context.Context, id, ownerID string) (*task.DeleteTaskEnvelope, error)
}

func (m *mockTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskEnvelope, error) {
	return m.createFunc(ctx, req)
}

func (m *mockTaskPort) GetTask(ctx context.Context, id, ownerID string) (*task.TaskEnvelope, error) {
	return m.getFunc(ctx, id, ownerID)
}

func (m *mockTaskPort) ListTasks(ctx context.Context, ownerID string) (*task.TaskListEnvelope, error) {
	return m.listFunc(ctx, ownerID)
}

func (m *mockTaskPort) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskEnvelope, error) {
	return m.updateFunc(ctx, req)
}

func (m *mockTaskPort) ChangeTaskStatus(ctx context.Context, req *task.ChangeTaskStatusRequest) (*task.TaskEnvelope, error) {
	return m.changeStatusFunc(ctx, req)
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, id, ownerID string) (*task.DeleteTaskEnvelope, error) {
	return m.deleteFunc(ctx, id, ownerID)
}

// newTestApp builds a fiber app with the task routes wired to the given mock
// port, with the auth middleware accepting every token as user-1.
func newTestApp(port task.TaskPort) *fiber.App {
	authPort := &mockAuthPort{
		validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
			return &domain.Claims{UserID: "user-1", Email: "u@example.com"}, nil
		},
	}
	handlers := &Handlers{authAdapter: authPort, taskPort: port}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	taskRoutes := app.Group("/api/v1/task")
	taskRoutes.Use(AuthMiddleware(authPort))
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Patch("/:id", handlers.UpdateTask)
	taskRoutes.Patch("/:id/status/update", handlers.ChangeTaskStatus)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp, string(raw)
}

func TestCreateTaskHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			createFunc: func(_ context.Context, req *task.CreateTaskRequest) (*task.TaskEnvelope, error) {
				if req.OwnerID != "user-1" {
					t.Errorf("expected owner from token, got %q", req.OwnerID)
				}
				return &task.TaskEnvelope{
					Message: "Task created Successfully",
					Data:    task.TaskResponse{ID: "t1", OwnerID: req.OwnerID, Title: req.Title},
				}, nil
			},
		})

		resp, body := doRequest(t, app, "POST", "/api/v1/task/", `{"title":"Write report"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusCreated)
		}
		if !strings.Contains(body, "Task created Successfully") {
			t.Errorf("body = %v, want creation envelope", body)
		}
	})

	t.Run("duplicate title maps to conflict", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			createFunc: func(_ context.Context, _ *task.CreateTaskRequest) (*task.TaskEnvelope, error) {
				return nil, errors.New("you already have a task with title Write report")
			},
		})

		resp, _ := doRequest(t, app, "POST", "/api/v1/task/", `{"title":"Write report"}`)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusConflict)
		}
	})
}

func TestGetTaskHandler_NotFound(t *testing.T) {
	app := newTestApp(&mockTaskPort{
		getFunc: func(_ context.Context, id, _ string) (*task.TaskEnvelope, error) {
			return nil, errors.New("task with ID " + id + " not found for user")
		},
	})

	resp, _ := doRequest(t, app, "GET", "/api/v1/task/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusNotFound)
	}
}

func TestUpdateTaskHandler_EmptyBody(t *testing.T) {
	app := newTestApp(&mockTaskPort{
		updateFunc: func(_ context.Context, _ *task.UpdateTaskRequest) (*task.TaskEnvelope, error) {
			return nil, errors.New("update body can not be empty")
		},
	})

	resp, _ := doRequest(t, app, "PATCH", "/api/v1/task/t1", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestChangeStatusHandler(t *testing.T) {
	t.Run("missing status rejected before service call", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			changeStatusFunc: func(_ context.Context, _ *task.ChangeTaskStatusRequest) (*task.TaskEnvelope, error) {
				t.Error("service must not be called without a status")
				return nil, nil
			},
		})

		resp, _ := doRequest(t, app, "PATCH", "/api/v1/task/t1/status/update", `{}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("same status maps to conflict", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			changeStatusFunc: func(_ context.Context, _ *task.ChangeTaskStatusRequest) (*task.TaskEnvelope, error) {
				return nil, errors.New("task is already in the status IN_PROGRESS")
			},
		})

		resp, _ := doRequest(t, app, "PATCH", "/api/v1/task/t1/status/update", `{"status":"IN_PROGRESS"}`)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusConflict)
		}
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			deleteFunc: func(_ context.Context, id, ownerID string) (*task.DeleteTaskEnvelope, error) {
				return &task.DeleteTaskEnvelope{
					Message: "Task Deleted Successfully",
					Data:    task.DeletedTask{ID: id, OwnerID: ownerID},
				}, nil
			},
		})

		resp, body := doRequest(t, app, "DELETE", "/api/v1/task/t1", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
		}
		if !strings.Contains(body, "Task Deleted Successfully") {
			t.Errorf("body = %v, want delete envelope", body)
		}
	})

	t.Run("unconfirmed delete maps to unavailable", func(t *testing.T) {
		app := newTestApp(&mockTaskPort{
			deleteFunc: func(_ context.Context, _, _ string) (*task.DeleteTaskEnvelope, error) {
				return nil, errors.New("unable to delete task, please try again later")
			},
		})

		resp, _ := doRequest(t, app, "DELETE", "/api/v1/task/t1", "")
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusServiceUnavailable)
		}
	})
}

func TestTaskRoutes_RequireAuth(t *testing.T) {
	handlers := &Handlers{}
	authPort := &mockAuthPort{
		validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
			return nil, errors.New("invalid token")
		},
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	taskRoutes := app.Group("/api/v1/task")
	taskRoutes.Use(AuthMiddleware(authPort))
	taskRoutes.Get("/", handlers.ListTasks)

	req := httptest.NewRequest("GET", "/api/v1/task/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}
}
