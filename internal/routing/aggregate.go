package routing

import "github.com/noah-isme/appeal-routing-api/internal/models"

// Aggregation is the overall outcome derived from an application's stages.
type Aggregation struct {
	Status       models.Status
	CurrentStage models.StageName
}

// Aggregate derives the application status from its stages. final is the
// last stage the appeal type requires; a fully approved chain that stops short
// of it stays pending.
func Aggregate(stages models.Stages, final models.StageName) Aggregation {
	out := Aggregation{Status: models.StatusPending, CurrentStage: currentStage(stages)}
	if len(stages) == 0 {
		return out
	}
	allApproved := true
	for _, stage := range stages {
		switch stage.Status {
		case models.StatusRejected:
			out.Status = models.StatusRejected
			return out
		case models.StatusApproved:
		default:
			allApproved = false
		}
	}
	if allApproved && chainComplete(stages, final) {
		out.Status = models.StatusApproved
	}
	return out
}

func currentStage(stages models.Stages) models.StageName {
	for _, stage := range stages {
		if stage.Status == models.StatusPending {
			return stage.Name
		}
	}
	if len(stages) == 0 {
		return ""
	}
	return stages[len(stages)-1].Name
}

func chainComplete(stages models.Stages, final models.StageName) bool {
	last := Rank(stages[len(stages)-1].Name)
	if last < 0 {
		return false
	}
	want := Rank(final)
	if want < 0 {
		want = Rank(TerminalStage)
	}
	return last >= want
}
