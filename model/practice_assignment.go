package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// AssignmentStatus is the lifecycle state of a placement.
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
)

// DateLayout is the calendar date format for placement ranges, on the wire and in storage
const DateLayout = "2006-01-02"

var ErrUnknownStatus = errors.New("unknown assignment status")

var statusOrder = map[AssignmentStatus]int{
	StatusAssigned:   0,
	StatusInProgress: 1,
	StatusCompleted:  2,
}

// ParseAssignmentStatus validates a status coming from user input.
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	st := AssignmentStatus(s)
	if _, ok := statusOrder[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

func (s AssignmentStatus) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Next returns the immediate successor and false when s is terminal.
func (s AssignmentStatus) Next() (AssignmentStatus, bool) {
	switch s {
	case StatusAssigned:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusCompleted, true
	}
	return "", false
}

// CanTransitionTo accepts the immediate successor only. Re-setting the current
// status is not a transition and is allowed.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	if !target.Valid() {
		return false
	}
	if s == target {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}

// PracticeAssignment places one student of a group at a base under a supervisor
// for a given stage and date range.
type PracticeAssignment struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	StudentID       uint             `gorm:"not null;index" json:"student_id"`
	GroupID         uint             `gorm:"not null;index" json:"group_id"`
	PracticeStageID uint             `gorm:"not null;index" json:"practice_stage_id"`
	SupervisorID    uint             `gorm:"not null;index" json:"supervisor_id"`
	BaseID          uint             `gorm:"not null;index" json:"base_id"`
	StartDate       datatypes.Date   `gorm:"not null" json:"start_date"`
	EndDate         datatypes.Date   `gorm:"not null" json:"end_date"`
	Status          AssignmentStatus `gorm:"type:varchar(20);not null;default:'assigned';index" json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relationships
	Student       *User          `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Group         *Group         `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	PracticeStage *PracticeStage `gorm:"foreignKey:PracticeStageID" json:"practice_stage,omitempty"`
	Supervisor    *User          `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Base          *PracticeBase  `gorm:"foreignKey:BaseID" json:"base,omitempty"`
}

// DateRangeValid reports whether start <= end.
func (a *PracticeAssignment) DateRangeValid() bool {
	return !time.Time(a.EndDate).Before(time.Time(a.StartDate))
}

// PracticeEvaluation is a grade given to a placement by a teacher or staff member.
type PracticeEvaluation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	EvaluatorID  uint      `gorm:"not null;index" json:"evaluator_id"`
	Grade        string    `gorm:"type:varchar(10)" json:"grade"`
	Comments     string    `gorm:"type:text" json:"comments"`
	CreatedAt    time.Time `json:"created_at"`

	Assignment *PracticeAssignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	Evaluator  *User               `gorm:"foreignKey:EvaluatorID" json:"evaluator,omitempty"`
}

// PracticeReport is a student's report on a placement. Paths and links are opaque.
type PracticeReport struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;index" json:"assignment_id"`
	Title        string    `gorm:"type:varchar(100)" json:"title"`
	FilePath     string    `gorm:"type:varchar(255)" json:"file_path"`
	GithubLink   string    `gorm:"type:varchar(255)" json:"github_link"`
	PhotoURL     string    `gorm:"type:varchar(255)" json:"photo_url"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	Assignment *PracticeAssignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}
