package api

import "time"

// SignupRequest represents an account registration request.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskBody is the client body for creating a task. The owner is never
// taken from the body; it always comes from the verified token.
type CreateTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskBody is the client body for patching a task. Absent fields stay
// untouched.
type UpdateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ChangeStatusBody is the client body for a status transition. Timestamps are
// accepted but the engine derives its own.
type ChangeStatusBody struct {
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
