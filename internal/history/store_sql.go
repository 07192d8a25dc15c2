package history

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/klexam/portal/internal/quiz"
)

// SQLStore persists ledgers one row per entry, ordered by a newest-first
// position column. Works against both the sqlite and pgx stdlib drivers.
type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) loadRows(ctx context.Context, table, userID string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM `+table+` WHERE user_id=$1 ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

// saveRows replaces the identity's ledger atomically.
func (s *SQLStore) saveRows(ctx context.Context, table, userID string, ids []int64, payloads [][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for i := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (user_id,id,position,data) VALUES ($1,$2,$3,$4)`,
			userID, ids[i], i, string(payloads[i])); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadSets(ctx context.Context, userID string) ([]SetEntry, error) {
	rows, err := s.loadRows(ctx, "set_history", userID)
	if err != nil {
		return nil, err
	}
	entries := make([]SetEntry, 0, len(rows))
	for _, data := range rows {
		var e SetEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

func (s *SQLStore) SaveSets(ctx context.Context, userID string, entries []SetEntry) error {
	ids := make([]int64, len(entries))
	payloads := make([][]byte, len(entries))
	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		ids[i], payloads[i] = e.ID, data
	}
	return s.saveRows(ctx, "set_history", userID, ids, payloads)
}

func (s *SQLStore) LoadResults(ctx context.Context, userID string) ([]quiz.Result, error) {
	rows, err := s.loadRows(ctx, "quiz_history", userID)
	if err != nil {
		return nil, err
	}
	entries := make([]quiz.Result, 0, len(rows))
	for _, data := range rows {
		var r quiz.Result
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		entries = append(entries, r)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

func (s *SQLStore) SaveResults(ctx context.Context, userID string, entries []quiz.Result) error {
	ids := make([]int64, len(entries))
	payloads := make([][]byte, len(entries))
	for i, r := range entries {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		ids[i], payloads[i] = r.ID, data
	}
	return s.saveRows(ctx, "quiz_history", userID, ids, payloads)
}
