package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies an actor's position in the approval hierarchy.
type Role string

const (
	RoleCourseCoordinator Role = "course_coordinator"
	RoleTeacher           Role = "teacher"
	RoleDirector          Role = "director"
	RoleDepartmentHead    Role = "department_head"
	RoleViceChancellor    Role = "vice_chancellor"
	RoleStudent           Role = "student"
)

// StageName is the display name of a decision point in the approval chain.
type StageName string

const (
	StageCourseCoordinator StageName = "Course Coordinator"
	StageDirector          StageName = "Director"
	StageDepartmentHead    StageName = "Department Head"
	StageViceChancellor    StageName = "Vice Chancellor"
)

// Status is shared by stages and applications.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decided reports whether the status is final.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// AppealType enumerates the supported application categories.
type AppealType string

const (
	AppealCrossDepartment AppealType = "Cross-Department Registration"
	AppealMultiLevel      AppealType = "Multi-Level Approvals"
	AppealLeave           AppealType = "Leave Management"
	AppealTimetableClash  AppealType = "Timetable Clash Detection"
	AppealAcademic        AppealType = "Academic Appeal"
)

// AppealTypes lists every known appeal type in display order.
var AppealTypes = []AppealType{
	AppealCrossDepartment,
	AppealMultiLevel,
	AppealLeave,
	AppealTimetableClash,
	AppealAcademic,
}

// Action is a transition an approver can request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionHold    Action = "hold"
	ActionForward Action = "forward"
)

// Valid reports whether the action is one of the supported transitions.
func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionHold, ActionForward:
		return true
	}
	return false
}

// Stage is one decision point of an application.
type Stage struct {
	Name      StageName  `json:"name"`
	Status    Status     `json:"status"`
	DecidedOn *time.Time `json:"decidedOn"`
	DecidedBy *string    `json:"decidedBy"`
	Notes     string     `json:"notes,omitempty"`
}

// Stages is persisted as a JSON document.
type Stages []Stage

// Value implements driver.Valuer.
func (s Stages) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Stages) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*s = Stages{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Index returns the position of the named stage or -1.
func (s Stages) Index(name StageName) int {
	for i, stage := range s {
		if stage.Name == name {
			return i
		}
	}
	return -1
}

// AppealDetails carries the type-specific form fields.
type AppealDetails struct {
	CourseName       string `json:"courseName,omitempty"`
	CourseCode       string `json:"courseCode,omitempty"`
	TargetDepartment string `json:"targetDepartment,omitempty"`
	LeaveType        string `json:"leaveType,omitempty"`
	LeaveDuration    string `json:"leaveDuration,omitempty"`
	AppealCategory   string `json:"appealCategory,omitempty"`
	Program          string `json:"program,omitempty"`
	Semester         string `json:"semester,omitempty"`
	Reason           string `json:"reason,omitempty"`
	AdditionalInfo   string `json:"additionalInfo,omitempty"`
}

// Value implements driver.Valuer.
func (d AppealDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AppealDetails) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*d = AppealDetails{}
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Application is a student appeal moving through the approval chain.
type Application struct {
	ID              string        `db:"id" json:"id"`
	StudentID       string        `db:"student_id" json:"studentId"`
	StudentName     string        `db:"student_name" json:"studentName"`
	StudentEmail    string        `db:"student_email" json:"studentEmail"`
	Department      string        `db:"department" json:"department,omitempty"`
	Type            AppealType    `db:"type" json:"type"`
	SubmittedDate   time.Time     `db:"submitted_date" json:"submittedDate"`
	CurrentStage    StageName     `db:"current_stage" json:"currentStage"`
	Status          Status        `db:"status" json:"status"`
	Stages          Stages        `db:"stages" json:"stages"`
	RejectionReason *string       `db:"rejection_reason" json:"rejectionReason"`
	Details         AppealDetails `db:"details" json:"details"`
}

// Clone returns a deep copy so callers can derive new values without aliasing.
func (a Application) Clone() Application {
	out := a
	if a.Stages != nil {
		out.Stages = make(Stages, len(a.Stages))
		for i, stage := range a.Stages {
			out.Stages[i] = stage.clone()
		}
	}
	if a.RejectionReason != nil {
		reason := *a.RejectionReason
		out.RejectionReason = &reason
	}
	return out
}

func (s Stage) clone() Stage {
	out := s
	if s.DecidedOn != nil {
		ts := *s.DecidedOn
		out.DecidedOn = &ts
	}
	if s.DecidedBy != nil {
		by := *s.DecidedBy
		out.DecidedBy = &by
	}
	return out
}

// ApplicationFilter narrows a listing. Empty or "all" values disable a filter.
type ApplicationFilter struct {
	Search string
	Status string
	Type   string
}

// ApplicationStats summarises a listing by overall status.
type ApplicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json source %T", src)
	}
}
