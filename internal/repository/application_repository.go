package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

const applicationSchema = `CREATE TABLE IF NOT EXISTS applications (
    seq              BIGSERIAL,
    id               TEXT PRIMARY KEY,
    student_id       TEXT NOT NULL,
    student_name     TEXT NOT NULL,
    student_email    TEXT NOT NULL,
    department       TEXT NOT NULL DEFAULT '',
    type             TEXT NOT NULL,
    submitted_date   TIMESTAMPTZ NOT NULL,
    current_stage    TEXT NOT NULL,
    status           TEXT NOT NULL,
    stages           JSONB NOT NULL,
    rejection_reason TEXT,
    details          JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS applications_student_id_idx ON applications (student_id);`

const uniqueViolation = "23505"

// ApplicationRepository persists applications in PostgreSQL. Stages and type
// details are stored as JSONB; seq keeps insertion order.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// EnsureSchema creates the applications table when it does not exist.
func (r *ApplicationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, applicationSchema); err != nil {
		return fmt.Errorf("ensure applications schema: %w", err)
	}
	return nil
}

const applicationColumns = `id, student_id, student_name, student_email, department, type, submitted_date,
       current_stage, status, stages, rejection_reason, details`

// Create inserts a new application row.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.SubmittedDate.IsZero() {
		app.SubmittedDate = time.Now().UTC()
	}
	const query = `INSERT INTO applications
	(id, student_id, student_name, student_email, department, type, submitted_date, current_stage, status, stages, rejection_reason, details)
	VALUES (:id, :student_id, :student_name, :student_email, :department, :type, :submitted_date, :current_stage, :status, :stages, :rejection_reason, :details)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("create application %s: %w", app.ID, ErrDuplicateApplication)
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetByID fetches an application by identifier.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// All returns every application in insertion order.
func (r *ApplicationRepository) All(ctx context.Context) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY seq ASC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Replace writes the routing fields of app in a single statement. Only rows
// still pending are updated; sql.ErrNoRows signals a missing or decided row.
func (r *ApplicationRepository) Replace(ctx context.Context, app models.Application) error {
	query := fmt.Sprintf(`UPDATE applications
	SET current_stage = :current_stage, status = :status, stages = :stages, rejection_reason = :rejection_reason
	WHERE id = :id AND status = '%s'`, models.StatusPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":               app.ID,
		"current_stage":    app.CurrentStage,
		"status":           app.Status,
		"stages":           app.Stages,
		"rejection_reason": app.RejectionReason,
	})
	if err != nil {
		return fmt.Errorf("replace application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
