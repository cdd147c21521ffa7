package user

import (
	"time"
)

// User represents an account that can own tasks.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	FirstName    string `gorm:"type:text"`
	LastName     string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims is the verified identity extracted from an access token.
// The UserID is the only identity the task engine ever trusts.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
