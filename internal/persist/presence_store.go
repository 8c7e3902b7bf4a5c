package persist

import (
	"context"
	"fmt"
	"time"
)

// PGPresenceStore хранит присутствие в Postgres. Запись — upsert по
// пользователю; офлайн-игроки вычищаются выборкой по last_seen, а не
// явным удалением: клиент, умерший без player-leave, пропадет сам.
type PGPresenceStore struct {
	db *DB
}

func NewPGPresenceStore(db *DB) *PGPresenceStore {
	return &PGPresenceStore{db: db}
}

func (s *PGPresenceStore) Heartbeat(ctx context.Context, row PresenceRow) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO online_players
		   (user_id, name, race, class, level, world_x, world_y, x, y,
		    in_dungeon, dungeon_floor, hp, max_hp, last_seen)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = $2, race = $3, class = $4, level = $5,
		   world_x = $6, world_y = $7, x = $8, y = $9,
		   in_dungeon = $10, dungeon_floor = $11,
		   hp = $12, max_hp = $13, last_seen = now()`,
		row.UserID, row.Name, row.Race, row.Class, row.Level,
		row.WorldX, row.WorldY, row.X, row.Y,
		row.InDungeon, row.DungeonFloor, row.HP, row.MaxHP,
	)
	if err != nil {
		return fmt.Errorf("presence heartbeat: %w", err)
	}
	return nil
}

func (s *PGPresenceStore) ListOnline(ctx context.Context, cutoff time.Duration) ([]PresenceRow, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT user_id, name, race, class, level, world_x, world_y, x, y,
		        in_dungeon, dungeon_floor, hp, max_hp, last_seen
		 FROM online_players
		 WHERE last_seen > now() - $1::interval`,
		cutoff.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list online: %w", err)
	}
	defer rows.Close()

	var out []PresenceRow
	for rows.Next() {
		var r PresenceRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.Race, &r.Class, &r.Level,
			&r.WorldX, &r.WorldY, &r.X, &r.Y,
			&r.InDungeon, &r.DungeonFloor, &r.HP, &r.MaxHP, &r.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGPresenceStore) Remove(ctx context.Context, userID string) error {
	_, err := s.db.Pool.Exec(ctx,
		`DELETE FROM online_players WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("presence remove: %w", err)
	}
	return nil
}
