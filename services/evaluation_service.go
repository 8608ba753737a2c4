package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EvaluationService records grades and reports against assignments. Both are
// only removed together with their assignment.
type EvaluationService struct {
	db *gorm.DB
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{db: db}
}

// ReportInput describes a submitted report. Paths and links are stored as given.
type ReportInput struct {
	Title      string
	FilePath   string
	GithubLink string
	PhotoURL   string
}

// AddEvaluation grades an assignment on behalf of the acting teacher or staff member
func (s *EvaluationService) AddEvaluation(ctx context.Context, actor *model.User, assignmentID uint, grade, comments string) (*model.PracticeEvaluation, error) {
	if err := requireSupervisor(actor); err != nil {
		return nil, err
	}

	grade = strings.TrimSpace(grade)
	if grade == "" || tooLong(grade, 10) {
		return nil, invalidInput("grade must be 1-10 characters")
	}

	db := s.db.WithContext(ctx)
	if _, err := findAssignment(db, assignmentID); err != nil {
		return nil, err
	}

	evaluation := &model.PracticeEvaluation{
		AssignmentID: assignmentID,
		EvaluatorID:  actor.ID,
		Grade:        grade,
		Comments:     strings.TrimSpace(comments),
	}
	if err := db.Omit(clause.Associations).Create(evaluation).Error; err != nil {
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}
	return evaluation, nil
}

// AddReport attaches a report. The assignment's student, its supervisor and
// staff may submit.
func (s *EvaluationService) AddReport(ctx context.Context, actor *model.User, assignmentID uint, in ReportInput) (*model.PracticeReport, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	db := s.db.WithContext(ctx)
	a, err := findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}
	if actor.ID != a.StudentID && actor.ID != a.SupervisorID && !actor.IsStaff() {
		return nil, ErrUnauthorized
	}

	report := &model.PracticeReport{
		AssignmentID: assignmentID,
		Title:        strings.TrimSpace(in.Title),
		FilePath:     strings.TrimSpace(in.FilePath),
		GithubLink:   strings.TrimSpace(in.GithubLink),
		PhotoURL:     strings.TrimSpace(in.PhotoURL),
	}
	switch {
	case tooLong(report.Title, 100):
		return nil, invalidInput("title must be at most 100 characters")
	case tooLong(report.FilePath, 255) || tooLong(report.GithubLink, 255) || tooLong(report.PhotoURL, 255):
		return nil, invalidInput("paths and links must be at most 255 characters")
	case report.Title == "" && report.FilePath == "" && report.GithubLink == "" && report.PhotoURL == "":
		return nil, invalidInput("report is empty")
	}

	if err := db.Omit(clause.Associations).Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// ListEvaluations returns the evaluations of an assignment oldest first
func (s *EvaluationService) ListEvaluations(ctx context.Context, assignmentID uint) ([]model.PracticeEvaluation, error) {
	db := s.db.WithContext(ctx)
	if _, err := findAssignment(db, assignmentID); err != nil {
		return nil, err
	}

	evaluations := []model.PracticeEvaluation{}
	err := db.Preload("Evaluator").
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC, id ASC").
		Find(&evaluations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evaluations, nil
}

// ListReports returns the reports of an assignment oldest first
func (s *EvaluationService) ListReports(ctx context.Context, assignmentID uint) ([]model.PracticeReport, error) {
	db := s.db.WithContext(ctx)
	if _, err := findAssignment(db, assignmentID); err != nil {
		return nil, err
	}

	reports := []model.PracticeReport{}
	err := db.Where("assignment_id = ?", assignmentID).
		Order("uploaded_at ASC, id ASC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
