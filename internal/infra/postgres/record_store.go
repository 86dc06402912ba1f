// Package postgres archives game records as JSONB rows, for deployments
// where the filesystem store is not durable enough.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hqtrivia-bot/internal/domain"
)

// RecordStore implements app.RecordStore on top of a games table.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) Get(ctx context.Context, roundID string) (*domain.GameRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM games WHERE id=$1`, roundID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game record: %w", err)
	}
	var record domain.GameRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode game record %s: %w", roundID, err)
	}
	return &record, nil
}

func (s *RecordStore) Put(ctx context.Context, record *domain.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode game record %s: %w", record.ID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO games (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		record.ID, string(data))
	if err != nil {
		return fmt.Errorf("store game record %s: %w", record.ID, err)
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game record id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}
	return ids, nil
}
