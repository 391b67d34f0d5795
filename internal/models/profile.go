// internal/models/profile.go
package models

import "github.com/google/uuid"

// Profile is the public identity of a user as shown in a room roster.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
