// internal/database/profile.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrProfileNotFound indicates no profile row exists for the user.
var ErrProfileNotFound = errors.New("profile not found")

// GetProfile fetches a user's public profile by ID.
func GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	q := `SELECT id, username FROM profiles WHERE id = $1`
	err := DB.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", userID, err)
	}
	return &p, nil
}

// UpsertProfile inserts a profile row, keeping any existing username. Used
// when minting ephemeral guest identities.
func UpsertProfile(ctx context.Context, userID uuid.UUID, username string) error {
	q := `
	INSERT INTO profiles (id, username)
	VALUES ($1, $2)
	ON CONFLICT (id) DO NOTHING
	`
	if _, err := DB.Exec(ctx, q, userID, username); err != nil {
		return fmt.Errorf("upsert profile %s: %w", userID, err)
	}
	return nil
}

// ProfileStore adapts the package-level profile queries to the interfaces
// the coordinator and handlers accept.
type ProfileStore struct{}

// DisplayName implements room.ProfileResolver.
func (ProfileStore) DisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Username, nil
}

// UpsertProfile implements the handlers' profile directory.
func (ProfileStore) UpsertProfile(ctx context.Context, userID uuid.UUID, username string) error {
	return UpsertProfile(ctx, userID, username)
}
