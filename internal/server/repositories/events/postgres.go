package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]attendance.Event, error) {
	query := `
		SELECT id, type, ts FROM time_entries
		WHERE user_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanEvents(rows)
}

func (r *PostgresRepository) Latest(ctx context.Context, userID int64, limit int) ([]attendance.Event, error) {
	query := `
		SELECT id, type, ts FROM time_entries
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanEvents(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, e attendance.Event) (attendance.Event, error) {
	query := `
		INSERT INTO time_entries (user_id, type, ts)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	ts := e.Timestamp.Truncate(time.Second)
	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, string(e.Type), ts).Scan(&id); err != nil {
		return attendance.Event{}, fmt.Errorf("db error: %w", err)
	}
	return attendance.Event{ID: id, Type: e.Type, Timestamp: ts}, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID int64, e attendance.Event) error {
	query := `
		UPDATE time_entries SET type = $1, ts = $2
		WHERE id = $3 AND user_id = $4
	`
	res, err := r.db.ExecContext(ctx, query, string(e.Type), e.Timestamp.Truncate(time.Second), e.ID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64, id int64) error {
	query := `
		DELETE FROM time_entries
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func scanEvents(rows *sql.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	var result []attendance.Event
	for rows.Next() {
		var (
			e attendance.Event
			t string
		)
		if err := rows.Scan(&e.ID, &t, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		e.Type = attendance.EventType(t)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
