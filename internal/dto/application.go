package dto

import "github.com/noah-isme/appeal-routing-api/internal/models"

// SubmitApplicationRequest is the student-facing submission payload. Submitter
// identity is taken from the access token when the caller omits it.
type SubmitApplicationRequest struct {
	StudentID        string            `json:"studentId" validate:"required,max=64"`
	StudentName      string            `json:"studentName" validate:"required,max=128"`
	StudentEmail     string            `json:"studentEmail" validate:"required,email"`
	Department       string            `json:"department" validate:"max=128"`
	Type             models.AppealType `json:"type" validate:"required,appeal_type"`
	CourseName       string            `json:"courseName" validate:"max=128"`
	CourseCode       string            `json:"courseCode" validate:"max=32"`
	TargetDepartment string            `json:"targetDepartment" validate:"max=128"`
	LeaveType        string            `json:"leaveType" validate:"max=64"`
	LeaveDuration    string            `json:"leaveDuration" validate:"max=64"`
	AppealCategory   string            `json:"appealCategory" validate:"max=64"`
	Program          string            `json:"program" validate:"max=128"`
	Semester         string            `json:"semester" validate:"max=32"`
	Reason           string            `json:"reason" validate:"required,min=10,max=4000"`
	AdditionalInfo   string            `json:"additionalInfo" validate:"max=4000"`
}

// Details projects the type-specific fields onto the stored details document.
func (r SubmitApplicationRequest) Details() models.AppealDetails {
	return models.AppealDetails{
		CourseName:       r.CourseName,
		CourseCode:       r.CourseCode,
		TargetDepartment: r.TargetDepartment,
		LeaveType:        r.LeaveType,
		LeaveDuration:    r.LeaveDuration,
		AppealCategory:   r.AppealCategory,
		Program:          r.Program,
		Semester:         r.Semester,
		Reason:           r.Reason,
		AdditionalInfo:   r.AdditionalInfo,
	}
}

// ActionRequest is an approver's decision on the current stage.
type ActionRequest struct {
	Action models.Action `json:"action" validate:"required,oneof=approve reject hold forward"`
	Notes  string        `json:"notes" validate:"max=2000"`
}

// ApplicationQuery mirrors the listing filters accepted by the dashboard.
type ApplicationQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Type   string `form:"type"`
}

// Filter converts the query into the routing filter.
func (q ApplicationQuery) Filter() models.ApplicationFilter {
	return models.ApplicationFilter{Search: q.Search, Status: q.Status, Type: q.Type}
}

// ActionResult is returned after an action is applied.
type ActionResult struct {
	Application models.Application `json:"application"`
	Action      models.Action      `json:"action"`
	Message     string             `json:"message"`
}
