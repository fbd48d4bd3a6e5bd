package routing

import (
	"strings"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

// UnknownRolePolicy decides what a caller without a hierarchy role may see.
type UnknownRolePolicy int

const (
	// UnknownRoleSeesAll returns every application unfiltered.
	UnknownRoleSeesAll UnknownRolePolicy = iota
	// UnknownRoleSeesNone returns an empty listing.
	UnknownRoleSeesNone
)

// ParseUnknownRolePolicy accepts "all" or "none"; anything else maps to "all".
func ParseUnknownRolePolicy(raw string) UnknownRolePolicy {
	if strings.EqualFold(strings.TrimSpace(raw), "none") {
		return UnknownRoleSeesNone
	}
	return UnknownRoleSeesAll
}

func (p UnknownRolePolicy) String() string {
	if p == UnknownRoleSeesNone {
		return "none"
	}
	return "all"
}

// IsSubmitter reports whether role is the submitting side of the portal.
// Submitters only reach their own records through tracking.
func IsSubmitter(role models.Role) bool {
	r := NormalizeRole(role)
	return r == "" || r == models.RoleStudent
}

// CanSee reports whether the role is entitled to see the application.
func CanSee(role models.Role, app models.Application, policy UnknownRolePolicy) bool {
	if IsTerminal(role) {
		return true
	}
	stage, ok := StageFor(role)
	if !ok {
		return !IsSubmitter(role) && policy == UnknownRoleSeesAll
	}
	if app.CurrentStage == stage {
		return true
	}
	for _, s := range app.Stages {
		if s.Name == stage && !s.Status.Decided() {
			return true
		}
	}
	return false
}

// VisibleTo returns the applications the role may see, preserving order.
func VisibleTo(role models.Role, apps []models.Application, policy UnknownRolePolicy) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if CanSee(role, app, policy) {
			out = append(out, app)
		}
	}
	return out
}

func isAll(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, "all")
}

// Search keeps applications whose id, submitter id or submitter name contains
// text, ignoring case.
func Search(apps []models.Application, text string) []models.Application {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return apps
	}
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.ID), needle) ||
			strings.Contains(strings.ToLower(app.StudentID), needle) ||
			strings.Contains(strings.ToLower(app.StudentName), needle) {
			out = append(out, app)
		}
	}
	return out
}

// FilterStatus keeps applications with the given overall status.
func FilterStatus(apps []models.Application, status string) []models.Application {
	if isAll(status) {
		return apps
	}
	want := models.Status(strings.ToLower(strings.TrimSpace(status)))
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if app.Status == want {
			out = append(out, app)
		}
	}
	return out
}

// FilterType keeps applications of the given appeal type.
func FilterType(apps []models.Application, appealType string) []models.Application {
	if isAll(appealType) {
		return apps
	}
	want := strings.TrimSpace(appealType)
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if strings.EqualFold(string(app.Type), want) {
			out = append(out, app)
		}
	}
	return out
}

// Narrow applies search, status and type filters.
func Narrow(apps []models.Application, filter models.ApplicationFilter) []models.Application {
	return FilterType(FilterStatus(Search(apps, filter.Search), filter.Status), filter.Type)
}

// Summarize counts applications by overall status.
func Summarize(apps []models.Application) models.ApplicationStats {
	stats := models.ApplicationStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}
