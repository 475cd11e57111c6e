package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/infra/postgres/migrations"
)

type classRow struct {
	bun.BaseModel `bun:"table:classes"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name"`
	TeacherID string    `bun:"teacher_id"`
	UpdatedAt time.Time `bun:"updated_at"`
}

type assignmentRow struct {
	bun.BaseModel `bun:"table:assignments"`

	ID        string    `bun:"id,pk"`
	Position  int       `bun:"position"`
	ClassID   string    `bun:"class_id"`
	Data      string    `bun:"data,type:jsonb"`
	UpdatedAt time.Time `bun:"updated_at"`
}

type activityRow struct {
	bun.BaseModel `bun:"table:student_activity"`

	StudentID string    `bun:"student_id,pk"`
	Data      string    `bun:"data,type:jsonb"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, err
	}
	return migrator.Migrate(ctx)
}

// Importer upserts snapshot documents so the loaders can serve them.
type Importer struct {
	db  *bun.DB
	now func() time.Time
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// ImportResult counts the rows written by one import.
type ImportResult struct {
	Classes     int `json:"classes"`
	Assignments int `json:"assignments"`
	Activity    int `json:"activity"`
}

// Import writes the whole snapshot in one transaction. Assignment order in the
// snapshot becomes the listing order.
func (i *Importer) Import(ctx context.Context, snapshot domain.Snapshot) (ImportResult, error) {
	now := i.now()
	classes := make([]classRow, 0, len(snapshot.Classes))
	for _, c := range snapshot.Classes {
		classes = append(classes, classRow{ID: c.ID, Name: c.Name, TeacherID: c.TeacherID, UpdatedAt: now})
	}

	assignments := make([]assignmentRow, 0, len(snapshot.Assignments))
	for pos, a := range snapshot.Assignments {
		data, err := json.Marshal(a)
		if err != nil {
			return ImportResult{}, fmt.Errorf("marshal assignment %s: %w", a.ID, err)
		}
		assignments = append(assignments, assignmentRow{
			ID:        a.ID,
			Position:  pos,
			ClassID:   a.Class.ID,
			Data:      string(data),
			UpdatedAt: now,
		})
	}

	activity := make([]activityRow, 0, len(snapshot.Activity))
	for _, act := range snapshot.Activity {
		data, err := json.Marshal(act)
		if err != nil {
			return ImportResult{}, fmt.Errorf("marshal activity %s: %w", act.StudentID, err)
		}
		activity = append(activity, activityRow{StudentID: act.StudentID, Data: string(data), UpdatedAt: now})
	}

	err := i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(classes) > 0 {
			if _, err := tx.NewInsert().Model(&classes).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("teacher_id = EXCLUDED.teacher_id").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert classes: %w", err)
			}
		}
		if len(assignments) > 0 {
			if _, err := tx.NewInsert().Model(&assignments).
				On("CONFLICT (id) DO UPDATE").
				Set("position = EXCLUDED.position").
				Set("class_id = EXCLUDED.class_id").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert assignments: %w", err)
			}
		}
		if len(activity) > 0 {
			if _, err := tx.NewInsert().Model(&activity).
				On("CONFLICT (student_id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Classes: len(classes), Assignments: len(assignments), Activity: len(activity)}, nil
}
