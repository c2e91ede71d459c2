package models

import "time"

// Envelope wraps every API response
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  string      `json:"errors,omitempty"`
	Data    interface{} `json:"data"`
}

// HealthResponse is returned by health check
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// UnreadCountResponse carries the unread notification count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications were marked read
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// WorkListResponse is returned by GET /works
type WorkListResponse struct {
	Works []*Work `json:"works"`
	Count int     `json:"count"`
}

// AvatarResponse is returned after an avatar upload
type AvatarResponse struct {
	ProfilePicture string `json:"profilePicture"`
	User           *User  `json:"user"`
}
