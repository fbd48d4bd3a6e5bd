package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

func stages(pairs ...interface{}) models.Stages {
	out := make(models.Stages, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Stage{Name: pairs[i].(models.StageName), Status: pairs[i+1].(models.Status)})
	}
	return out
}

func TestAggregate(t *testing.T) {
	cases := []struct {
		name    string
		stages  models.Stages
		final   models.StageName
		status  models.Status
		current models.StageName
	}{
		{
			name:    "empty",
			stages:  models.Stages{},
			final:   TerminalStage,
			status:  models.StatusPending,
			current: "",
		},
		{
			name:    "rejected wins",
			stages:  stages(models.StageCourseCoordinator, models.StatusApproved, models.StageDirector, models.StatusRejected),
			final:   TerminalStage,
			status:  models.StatusRejected,
			current: models.StageDirector,
		},
		{
			name: "fully approved to terminal",
			stages: stages(
				models.StageCourseCoordinator, models.StatusApproved,
				models.StageDirector, models.StatusApproved,
				models.StageDepartmentHead, models.StatusApproved,
				models.StageViceChancellor, models.StatusApproved,
			),
			final:   TerminalStage,
			status:  models.StatusApproved,
			current: models.StageViceChancellor,
		},
		{
			name:    "approved prefix short of terminal stays pending",
			stages:  stages(models.StageCourseCoordinator, models.StatusApproved, models.StageDirector, models.StatusApproved),
			final:   TerminalStage,
			status:  models.StatusPending,
			current: models.StageDirector,
		},
		{
			name: "approved through type final stage",
			stages: stages(
				models.StageCourseCoordinator, models.StatusApproved,
				models.StageDirector, models.StatusApproved,
				models.StageDepartmentHead, models.StatusApproved,
			),
			final:   models.StageDepartmentHead,
			status:  models.StatusApproved,
			current: models.StageDepartmentHead,
		},
		{
			name:    "first pending is current",
			stages:  stages(models.StageCourseCoordinator, models.StatusApproved, models.StageDirector, models.StatusPending, models.StageDepartmentHead, models.StatusPending),
			final:   models.StageDepartmentHead,
			status:  models.StatusPending,
			current: models.StageDirector,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(tc.stages, tc.final)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.current, got.CurrentStage)
			assert.Equal(t, got, Aggregate(tc.stages, tc.final))
		})
	}
}
