package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the authorization role carried by a user and its tokens
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// IsValidRole checks if a role value is valid
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// CanListAll reports whether the role may see every user and every collection
func (r Role) CanListAll() bool {
	return r == RoleAdmin || r == RoleModerator
}

const bcryptCost = 12

// User represents a registered account
type User struct {
	ID             string    `json:"id" bson:"_id"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	PasswordHash   string    `json:"-" bson:"password"` // Never exposed
	Role           Role      `json:"role" bson:"role"`
	ProfilePicture *string   `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewUser creates a user with the default role and a hashed password
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        NewID(),
		Username:  strings.TrimSpace(username),
		Email:     NormalizeEmail(email),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and sets the user's password using bcrypt
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks if the provided password matches the hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Touch bumps UpdatedAt
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}
