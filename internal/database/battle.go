// internal/database/battle.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/jackc/pgx/v5"
)

// ArchiveBattle writes the durable record of a concluded battle: one battles
// row plus a battle_players row per final membership. Both inserts happen in
// one transaction so a battle never appears without its players.
func ArchiveBattle(ctx context.Context, room models.Room, members []models.Membership) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
		INSERT INTO battles (code, host_id, theme, category, max_players, status, created_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.Exec(ctx, q,
			room.Code,
			room.HostID,
			room.Theme,
			room.Category,
			room.MaxPlayers,
			string(room.Status),
			room.CreatedAt,
			time.Now(),
		)
		if err != nil {
			return err
		}
		for _, m := range members {
			pq := `
			INSERT INTO battle_players (battle_code, user_id, display_name, is_host, joined_at)
			VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.Exec(ctx, pq, room.Code, m.UserID, m.DisplayName, m.IsHost, m.JoinedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive battle %s: %w", room.Code, err)
	}
	return nil
}

// BattleStore adapts ArchiveBattle to room.Archiver.
type BattleStore struct{}

// ArchiveBattle implements room.Archiver.
func (BattleStore) ArchiveBattle(ctx context.Context, room models.Room, members []models.Membership) error {
	return ArchiveBattle(ctx, room, members)
}
