package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/appeal-routing-api/internal/models"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
)

// Decision is an approver's request to move an application.
type Decision struct {
	Role   models.Role
	Action models.Action
	Notes  string
	Actor  string
	At     time.Time
}

// Apply validates the decision against app and returns the resulting
// application. app is never modified; on error no partial result exists.
func Apply(app models.Application, d Decision) (models.Application, error) {
	if !d.Action.Valid() {
		return models.Application{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported action %q", d.Action))
	}
	if app.Status != models.StatusPending {
		return models.Application{}, appErrors.Clone(appErrors.ErrAlreadyDecided, fmt.Sprintf("application %s is already %s", app.ID, app.Status))
	}
	governed, ok := StageFor(d.Role)
	if !ok || governed != app.CurrentStage {
		return models.Application{}, appErrors.Clone(appErrors.ErrStageMismatch,
			fmt.Sprintf("role %q cannot act on stage %q", d.Role, app.CurrentStage))
	}
	notes := strings.TrimSpace(d.Notes)
	if d.Action == models.ActionReject && notes == "" {
		return models.Application{}, appErrors.ErrMissingReason
	}

	idx := app.Stages.Index(governed)
	if idx < 0 {
		return models.Application{}, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("stage %q missing from application %s", governed, app.ID))
	}
	if app.Stages[idx].Status.Decided() {
		return models.Application{}, appErrors.Clone(appErrors.ErrAlreadyDecided, fmt.Sprintf("stage %q already %s", governed, app.Stages[idx].Status))
	}

	at := d.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	actor := strings.TrimSpace(d.Actor)
	if actor == "" {
		actor = "Admin"
	}

	next := app.Clone()
	final := FinalStage(app.Type)
	decide := func(status models.Status) {
		stage := &next.Stages[idx]
		stage.Status = status
		stage.DecidedOn = &at
		stage.DecidedBy = &actor
		stage.Notes = notes
	}

	switch d.Action {
	case models.ActionHold:
		decide(models.StatusPending)
		next.CurrentStage = governed
		return next, nil
	case models.ActionReject:
		decide(models.StatusRejected)
		next.RejectionReason = &notes
	case models.ActionForward:
		decide(models.StatusApproved)
		if stage, ok := advance(&next, d.Role, final); ok {
			next.CurrentStage = stage
			next.Status = models.StatusPending
			return next, nil
		}
	case models.ActionApprove:
		decide(models.StatusApproved)
		if !undecidedAfter(next.Stages, idx) {
			advance(&next, d.Role, final)
		}
	}

	agg := Aggregate(next.Stages, final)
	next.Status = agg.Status
	next.CurrentStage = agg.CurrentStage
	return next, nil
}

// advance opens the first stage after role, up to final, that has not been
// approved yet. Approved stages are skipped; a rejected one stops the walk.
func advance(app *models.Application, role models.Role, final models.StageName) (models.StageName, bool) {
	for {
		target, ok := nextInChain(role, final)
		if !ok {
			return "", false
		}
		stage, _ := StageFor(target)
		if i := app.Stages.Index(stage); i >= 0 && app.Stages[i].Status == models.StatusApproved {
			role = target
			continue
		}
		return stage, openStage(app, stage)
	}
}

func undecidedAfter(stages models.Stages, idx int) bool {
	for _, s := range stages[idx+1:] {
		if !s.Status.Decided() {
			return true
		}
	}
	return false
}

// openStage marks the named stage pending, appending it when absent. Decided
// stages are left untouched and reported as not opened.
func openStage(app *models.Application, name models.StageName) bool {
	if i := app.Stages.Index(name); i >= 0 {
		if app.Stages[i].Status.Decided() {
			return false
		}
		app.Stages[i].Status = models.StatusPending
		return true
	}
	app.Stages = append(app.Stages, models.Stage{Name: name, Status: models.StatusPending})
	return true
}

// NewApplicationStages returns the initial stage list for a submission.
func NewApplicationStages() models.Stages {
	return models.Stages{{Name: FirstStage(), Status: models.StatusPending}}
}
