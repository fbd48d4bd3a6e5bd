// Package routing holds the approval hierarchy and the pure transition rules
// applied to appeal applications. Nothing here performs I/O.
package routing

import (
	"strings"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

type level struct {
	role  models.Role
	stage models.StageName
}

// chain is the single ordered role -> stage table used by visibility,
// action processing and aggregation.
var chain = []level{
	{role: models.RoleCourseCoordinator, stage: models.StageCourseCoordinator},
	{role: models.RoleDirector, stage: models.StageDirector},
	{role: models.RoleDepartmentHead, stage: models.StageDepartmentHead},
	{role: models.RoleViceChancellor, stage: models.StageViceChancellor},
}

var aliases = map[models.Role]models.Role{
	models.RoleTeacher: models.RoleCourseCoordinator,
}

// TerminalStage is governed by the role with no successor.
const TerminalStage = models.StageViceChancellor

// finalStages lists appeal types whose chain ends before the terminal stage
// or explicitly at it. Types not listed escalate to TerminalStage.
var finalStages = map[models.AppealType]models.StageName{
	models.AppealCrossDepartment: models.StageDepartmentHead,
	models.AppealMultiLevel:      models.StageDepartmentHead,
	models.AppealLeave:           models.StageDepartmentHead,
	models.AppealTimetableClash:  models.StageDepartmentHead,
	models.AppealAcademic:        models.StageViceChancellor,
}

// NormalizeRole lowercases the identifier and resolves aliases.
func NormalizeRole(role models.Role) models.Role {
	r := models.Role(strings.ToLower(strings.TrimSpace(string(role))))
	if canonical, ok := aliases[r]; ok {
		return canonical
	}
	return r
}

func position(role models.Role) int {
	r := NormalizeRole(role)
	for i, l := range chain {
		if l.role == r {
			return i
		}
	}
	return -1
}

// StageFor returns the stage a role is authorised to decide.
func StageFor(role models.Role) (models.StageName, bool) {
	i := position(role)
	if i < 0 {
		return "", false
	}
	return chain[i].stage, true
}

// NextRole returns the successor in the chain. The terminal role and
// unrecognised roles have none.
func NextRole(role models.Role) (models.Role, bool) {
	i := position(role)
	if i < 0 || i+1 >= len(chain) {
		return "", false
	}
	return chain[i+1].role, true
}

// RoleFor is the inverse of StageFor.
func RoleFor(stage models.StageName) (models.Role, bool) {
	for _, l := range chain {
		if l.stage == stage {
			return l.role, true
		}
	}
	return "", false
}

// Rank is the stage's position in the chain, or -1 when unknown.
func Rank(stage models.StageName) int {
	for i, l := range chain {
		if l.stage == stage {
			return i
		}
	}
	return -1
}

// IsApprover reports whether the role sits in the hierarchy.
func IsApprover(role models.Role) bool {
	return position(role) >= 0
}

// IsTerminal reports whether the role has no successor.
func IsTerminal(role models.Role) bool {
	i := position(role)
	return i >= 0 && i == len(chain)-1
}

// ApproverRoles lists the canonical hierarchy roles in order.
func ApproverRoles() []models.Role {
	roles := make([]models.Role, len(chain))
	for i, l := range chain {
		roles[i] = l.role
	}
	return roles
}

// FirstStage is where every submission starts.
func FirstStage() models.StageName {
	return chain[0].stage
}

// FinalStage is the last stage an appeal type must clear before it is approved.
func FinalStage(appealType models.AppealType) models.StageName {
	if stage, ok := finalStages[appealType]; ok {
		return stage
	}
	return TerminalStage
}

// KnownAppealType reports whether the type has a declared chain.
func KnownAppealType(appealType models.AppealType) bool {
	_, ok := finalStages[appealType]
	return ok
}

// nextInChain returns the successor role while the governed stage has not yet
// reached the appeal type's final stage.
func nextInChain(role models.Role, final models.StageName) (models.Role, bool) {
	stage, ok := StageFor(role)
	if !ok || Rank(stage) >= Rank(final) {
		return "", false
	}
	return NextRole(role)
}
