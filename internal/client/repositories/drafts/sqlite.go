package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Save(ctx context.Context, snap attendance.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (user_id, day, snapshot, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at
	`, snap.UserID, snap.Day.String(), data, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft[%d/%s]: %w", snap.UserID, snap.Day, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID int64, day timex.Date) (*attendance.Snapshot, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT snapshot FROM drafts WHERE user_id = ? AND day = ?`,
		userID, day.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft[%d/%s]: %w", userID, day, err)
	}

	var snap attendance.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode draft[%d/%s]: %w", userID, day, err)
	}
	return &snap, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID int64, day timex.Date) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE user_id = ? AND day = ?`, userID, day.String())
	if err != nil {
		return fmt.Errorf("failed to delete draft[%d/%s]: %w", userID, day, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Info, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, day, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var result []Info
	for rows.Next() {
		var (
			info Info
			day  string
		)
		if err := rows.Scan(&info.UserID, &day, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		if info.Day, err = timex.ParseDate(day); err != nil {
			return nil, fmt.Errorf("failed to parse draft day %q: %w", day, err)
		}
		result = append(result, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}

	return result, nil
}
