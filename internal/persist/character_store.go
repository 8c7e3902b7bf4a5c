package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// PGCharacterStore хранит персонажей в Postgres. Весь персонаж лежит
// одним JSONB-документом: схема сохранения меняется вместе с кодом,
// без миграций на каждое новое поле.
type PGCharacterStore struct {
	db *DB
}

func NewPGCharacterStore(db *DB) *PGCharacterStore {
	return &PGCharacterStore{db: db}
}

func (s *PGCharacterStore) Load(ctx context.Context, userID string, slot int) (*domain.Character, error) {
	var data []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT data FROM characters WHERE user_id = $1 AND slot = $2`,
		userID, slot,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load character: %w", err)
	}

	var c domain.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode character: %w", err)
	}
	return &c, nil
}

func (s *PGCharacterStore) Save(ctx context.Context, userID string, slot int, c *domain.Character) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO characters (user_id, slot, name, data, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, slot)
		 DO UPDATE SET name = $3, data = $4, updated_at = now()`,
		userID, slot, c.Name, data,
	)
	if err != nil {
		return fmt.Errorf("save character: %w", err)
	}
	return nil
}

func (s *PGCharacterStore) Delete(ctx context.Context, userID string, slot int) error {
	tag, err := s.db.Pool.Exec(ctx,
		`DELETE FROM characters WHERE user_id = $1 AND slot = $2`,
		userID, slot,
	)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGCharacterStore) List(ctx context.Context, userID string) ([]SlotInfo, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT slot, name, (data->>'level')::int, updated_at
		 FROM characters WHERE user_id = $1 ORDER BY slot`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.Name, &info.Level, &info.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
