package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"progress-dashboard/internal/domain"
)

// Loader reads assignment and activity JSONB snapshots from Postgres.
type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

// LoadAssignments returns assignments in their published order.
func (l *Loader) LoadAssignments(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM assignments ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()

	list := []domain.Assignment{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		var a domain.Assignment
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal assignment: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	return list, nil
}

func (l *Loader) LoadActivity(ctx context.Context, studentID string) (domain.StudentActivity, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM student_activity WHERE student_id=$1`, studentID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StudentActivity{}, domain.ErrStudentNotFound
	}
	if err != nil {
		return domain.StudentActivity{}, fmt.Errorf("load activity: %w", err)
	}
	var act domain.StudentActivity
	if err := json.Unmarshal(raw, &act); err != nil {
		return domain.StudentActivity{}, fmt.Errorf("unmarshal activity: %w", err)
	}
	act.StudentID = studentID
	return act, nil
}
