package repository

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

type applicationCreator interface {
	Create(ctx context.Context, app *models.Application) error
}

// SeedDemoApplications loads the portal's sample applications into store.
// Records already present are left as they are, so seeding can run on every start.
func SeedDemoApplications(ctx context.Context, store applicationCreator) error {
	for _, app := range DemoApplications() {
		app := app
		if err := store.Create(ctx, &app); err != nil && !errors.Is(err, ErrDuplicateApplication) {
			return err
		}
	}
	return nil
}

// DemoApplications returns the sample records shown on the admin dashboard.
func DemoApplications() []models.Application {
	reason := "Overlapping course timings cannot be resolved automatically. Please contact the academic office."
	return []models.Application{
		{
			ID: "APP-2025-001", StudentID: "2021-CS-001", StudentName: "John Doe", StudentEmail: "john.doe@university.edu",
			Type: models.AppealCrossDepartment, SubmittedDate: day("2025-10-05"),
			Status: models.StatusApproved, CurrentStage: models.StageDepartmentHead,
			Details: models.AppealDetails{CourseName: "Data Structures", CourseCode: "CS-201"},
			Stages: models.Stages{
				decided(models.StageCourseCoordinator, models.StatusApproved, "2025-10-06", "Dr. Smith"),
				decided(models.StageDirector, models.StatusApproved, "2025-10-08", "Prof. Johnson"),
				decided(models.StageDepartmentHead, models.StatusApproved, "2025-10-10", "Dr. Williams"),
			},
		},
		{
			ID: "APP-2025-002", StudentID: "2021-EE-045", StudentName: "Jane Smith", StudentEmail: "jane.smith@university.edu",
			Type: models.AppealLeave, SubmittedDate: day("2025-10-08"),
			Status: models.StatusPending, CurrentStage: models.StageDirector,
			Details: models.AppealDetails{LeaveType: "Medical Leave", LeaveDuration: "5 days"},
			Stages: models.Stages{
				decided(models.StageCourseCoordinator, models.StatusApproved, "2025-10-09", "Dr. Brown"),
				{Name: models.StageDirector, Status: models.StatusPending},
				{Name: models.StageDepartmentHead, Status: models.StatusPending},
			},
		},
		{
			ID: "APP-2025-003", StudentID: "2021-ME-089", StudentName: "Mike Wilson", StudentEmail: "mike.wilson@university.edu",
			Type: models.AppealTimetableClash, SubmittedDate: day("2025-10-07"),
			Status: models.StatusRejected, CurrentStage: models.StageCourseCoordinator,
			Details:         models.AppealDetails{CourseName: "Thermodynamics", CourseCode: "ME-301"},
			RejectionReason: &reason,
			Stages: models.Stages{
				decided(models.StageCourseCoordinator, models.StatusRejected, "2025-10-08", "Dr. Davis"),
			},
		},
		{
			ID: "APP-2025-004", StudentID: "2021-CS-023", StudentName: "Sarah Johnson", StudentEmail: "sarah.johnson@university.edu",
			Type: models.AppealCrossDepartment, SubmittedDate: day("2025-10-12"),
			Status: models.StatusPending, CurrentStage: models.StageCourseCoordinator,
			Details: models.AppealDetails{CourseName: "Machine Learning", CourseCode: "CS-401"},
			Stages: models.Stages{
				{Name: models.StageCourseCoordinator, Status: models.StatusPending},
				{Name: models.StageDirector, Status: models.StatusPending},
				{Name: models.StageDepartmentHead, Status: models.StatusPending},
			},
		},
		{
			ID: "APP-2025-005", StudentID: "2021-CS-067", StudentName: "David Brown", StudentEmail: "david.brown@university.edu",
			Type: models.AppealAcademic, SubmittedDate: day("2025-10-15"),
			Status: models.StatusPending, CurrentStage: models.StageViceChancellor,
			Details: models.AppealDetails{AppealCategory: "Grade Review"},
			Stages: models.Stages{
				decided(models.StageCourseCoordinator, models.StatusApproved, "2025-10-16", "Dr. Smith"),
				decided(models.StageDirector, models.StatusApproved, "2025-10-18", "Prof. Johnson"),
				decided(models.StageDepartmentHead, models.StatusApproved, "2025-10-20", "Dr. Williams"),
				{Name: models.StageViceChancellor, Status: models.StatusPending},
			},
		},
	}
}

func day(raw string) time.Time {
	ts, _ := time.Parse("2006-01-02", raw)
	return ts
}

func decided(name models.StageName, status models.Status, on, by string) models.Stage {
	ts := day(on)
	return models.Stage{Name: name, Status: status, DecidedOn: &ts, DecidedBy: &by}
}
