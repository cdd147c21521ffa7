package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/kelrob/hello-niyo/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService wires an AuthService to an in-memory database.
func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(),
		NewJWTManager(JWTConfig{
			SecretKey:     "test-secret",
			TokenDuration: time.Hour,
			Issuer:        "test",
		}),
	)
}

func TestAuthService_Signup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{
		Email:     "robert@example.com",
		Password:  "strong-password",
		FirstName: "Robert",
		LastName:  "Ebafua",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.PasswordHash == "strong-password" {
		t.Error("password must be stored hashed")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupRequest{
			Email:    "robert@example.com",
			Password: "another-password",
		})
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     SignupRequest
		wantErr error
	}{
		{"invalid email", SignupRequest{Email: "not-an-email", Password: "strong-password"}, ErrInvalidEmail},
		{"short password", SignupRequest{Email: "a@b.com", Password: "short"}, ErrWeakPassword},
		{"overlong password", SignupRequest{Email: "a@b.com", Password: string(make([]byte, 80))}, ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupRequest{
		Email:    "robert@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "robert@example.com", "strong-password")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.ID != created.ID {
			t.Errorf("expected user %q, got %q", created.ID, user.ID)
		}
		if token == "" {
			t.Fatal("expected access token")
		}

		claims, err := svc.ValidateToken(ctx, token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != created.ID {
			t.Errorf("expected claims for %q, got %q", created.ID, claims.UserID)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "strong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "robert@example.com", "wrong-password")
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("expected ErrWrongPassword, got %v", err)
		}
	})
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateToken(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
