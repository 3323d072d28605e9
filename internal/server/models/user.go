package models

import "time"

// User is a registered principal. APIKey is empty until the user resets it.
type User struct {
	UserID    string
	Name      string
	Email     string
	APIKey    string
	CreatedAt time.Time
}
