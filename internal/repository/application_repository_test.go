package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

var applicationRowColumns = []string{"id", "student_id", "student_name", "student_email", "department", "type", "submitted_date",
	"current_stage", "status", "stages", "rejection_reason", "details"}

func newApplicationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestApplicationRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	app := &models.Application{
		StudentID:    "2021-CS-023",
		StudentName:  "Sarah Johnson",
		StudentEmail: "sarah.johnson@university.edu",
		Type:         models.AppealCrossDepartment,
		Status:       models.StatusPending,
		CurrentStage: models.StageCourseCoordinator,
		Stages:       models.Stages{{Name: models.StageCourseCoordinator, Status: models.StatusPending}},
	}
	require.NoError(t, repo.Create(context.Background(), app))
	require.NotEmpty(t, app.ID)
	require.False(t, app.SubmittedDate.IsZero())

	rows := sqlmock.NewRows(applicationRowColumns).
		AddRow(app.ID, "2021-CS-023", "Sarah Johnson", "sarah.johnson@university.edu", "", "Cross-Department Registration", time.Now(),
			"Course Coordinator", "pending", `[{"name":"Course Coordinator","status":"pending","decidedOn":null,"decidedBy":null}]`, nil, `{"courseCode":"CS-401"}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, student_name")).
		WithArgs(app.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, app.ID, found.ID)
	require.Len(t, found.Stages, 1)
	require.Equal(t, models.StageCourseCoordinator, found.Stages[0].Name)
	require.Equal(t, "CS-401", found.Details.CourseCode)
	require.Nil(t, found.RejectionReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnError(&pq.Error{Code: uniqueViolation, Message: "duplicate key value violates unique constraint"})
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.Application{ID: "APP-2025-001"})
	require.ErrorIs(t, err, ErrDuplicateApplication)

	err = repo.Create(context.Background(), &models.Application{ID: "APP-2025-002"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateApplication)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoApplicationsSkipsExisting(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	demo := DemoApplications()
	for range demo {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
			WillReturnError(&pq.Error{Code: uniqueViolation})
	}

	require.NoError(t, SeedDemoApplications(context.Background(), repo))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryAllOrdersBySeq(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	rows := sqlmock.NewRows(applicationRowColumns).
		AddRow("APP-2025-001", "2021-CS-001", "John Doe", "john.doe@university.edu", "", "Academic Appeal", time.Now(),
			"Director", "pending", `[{"name":"Course Coordinator","status":"approved"},{"name":"Director","status":"pending"}]`, nil, `{}`).
		AddRow("APP-2025-002", "2021-EE-045", "Jane Smith", "jane.smith@university.edu", "", "Leave Management", time.Now(),
			"Course Coordinator", "rejected", `[{"name":"Course Coordinator","status":"rejected"}]`, "missing certificate", `{}`)
	mock.ExpectQuery(`SELECT .* FROM applications ORDER BY seq ASC`).WillReturnRows(rows)

	apps, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	require.Equal(t, "APP-2025-001", apps[0].ID)
	require.Len(t, apps[0].Stages, 2)
	require.NotNil(t, apps[1].RejectionReason)
	require.Equal(t, "missing certificate", *apps[1].RejectionReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	app := models.Application{
		ID:           "APP-2025-004",
		Status:       models.StatusPending,
		CurrentStage: models.StageDirector,
		Stages: models.Stages{
			{Name: models.StageCourseCoordinator, Status: models.StatusApproved},
			{Name: models.StageDirector, Status: models.StatusPending},
		},
	}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Replace(context.Background(), app))
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Replace(context.Background(), app)
	require.Error(t, err)
}

func TestApplicationRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newApplicationRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS applications")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewApplicationRepository(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
