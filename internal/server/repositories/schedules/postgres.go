package schedules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID int64) (*attendance.SchedulePlan, error) {
	query := `
		SELECT p.id, p.name FROM schedule_plans p
		JOIN users u ON u.schedule_plan_id = p.id
		WHERE u.id = $1
	`
	plan := &attendance.SchedulePlan{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&plan.ID, &plan.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadDays(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*attendance.SchedulePlan, error) {
	query := `
		SELECT id, name FROM schedule_plans
		WHERE name = $1
	`
	plan := &attendance.SchedulePlan{}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&plan.ID, &plan.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadDays(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *PostgresRepository) loadDays(ctx context.Context, plan *attendance.SchedulePlan) error {
	query := `
		SELECT day_of_week, expected_hours FROM schedule_days
		WHERE plan_id = $1
		ORDER BY day_of_week
	`
	rows, err := r.db.QueryContext(ctx, query, plan.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d attendance.ScheduleDay
		if err := rows.Scan(&d.DayOfWeek, &d.ExpectedHours); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		plan.Days = append(plan.Days, d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

// Upsert replaces all days of the plan. Callers run it inside a transaction.
func (r *PostgresRepository) Upsert(ctx context.Context, plan *attendance.SchedulePlan) (int64, error) {
	if err := plan.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO schedule_plans (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, plan.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_days WHERE plan_id = $1`, id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	for _, d := range plan.Days {
		query := `
			INSERT INTO schedule_days (plan_id, day_of_week, expected_hours)
			VALUES ($1, $2, $3)
		`
		if _, err := r.db.ExecContext(ctx, query, id, d.DayOfWeek, d.ExpectedHours); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	plan.ID = id
	return id, nil
}
