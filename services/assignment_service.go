package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentService owns the placement lifecycle
type AssignmentService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(db *gorm.DB, audit *AuditService) *AssignmentService {
	return &AssignmentService{db: db, audit: audit}
}

// Placement maps one student to a base and a supervisor. Nil fields mean the
// value was not supplied.
type Placement struct {
	StudentID    uint
	BaseID       *uint
	SupervisorID *uint
}

// BatchInput places every student of a group for one stage and date range
type BatchInput struct {
	GroupID    uint
	StageID    uint
	StartDate  string
	EndDate    string
	Placements []Placement
}

// AssignmentFilter narrows List. Zero values match everything.
type AssignmentFilter struct {
	GroupID      uint
	StageID      uint
	StudentID    uint
	SupervisorID uint
	Status       model.AssignmentStatus
}

// UpdateAssignmentInput is a partial update. Nil fields are left unchanged.
type UpdateAssignmentInput struct {
	BaseID       *uint
	SupervisorID *uint
	StageID      *uint
	StartDate    *string
	EndDate      *string
	Status       *model.AssignmentStatus
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDateRange, s)
	}
	return datatypes.Date(t), nil
}

func parseDateRange(start, end string) (datatypes.Date, datatypes.Date, error) {
	from, err := ParseDate(start)
	if err != nil {
		return from, from, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return from, to, err
	}
	if time.Time(to).Before(time.Time(from)) {
		return from, to, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange, end, start)
	}
	return from, to, nil
}

// CreateBatch creates one assignment per student of the group, all or nothing.
// Every student must be given both a base and a supervisor; placements for
// users outside the group are ignored.
func (s *AssignmentService) CreateBatch(ctx context.Context, actor *model.User, in BatchInput) ([]model.PracticeAssignment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var created []model.PracticeAssignment
	err := s.createBatch(ctx, in, &created)

	s.audit.Outcome(ctx, fmt.Sprintf("assignment.batch group=%d stage=%d count=%d by=%d",
		in.GroupID, in.StageID, len(created), actor.ID), err)
	if err != nil {
		return nil, err
	}

	log.Infof("Created %d assignments for group %d, stage %d", len(created), in.GroupID, in.StageID)
	return created, nil
}

func (s *AssignmentService) createBatch(ctx context.Context, in BatchInput, out *[]model.PracticeAssignment) error {
	start, end, err := parseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return err
	}

	placements := make(map[uint]Placement, len(in.Placements))
	for _, p := range in.Placements {
		placements[p.StudentID] = p
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, in.GroupID); err != nil {
			return err
		}

		students, err := studentsOf(tx, in.GroupID)
		if err != nil {
			return err
		}
		if len(students) == 0 {
			*out = []model.PracticeAssignment{}
			return nil
		}

		var missing []uint
		for _, st := range students {
			p, ok := placements[st.ID]
			if !ok || p.BaseID == nil || p.SupervisorID == nil || *p.BaseID == 0 || *p.SupervisorID == 0 {
				missing = append(missing, st.ID)
			}
		}
		if len(missing) > 0 {
			sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
			return &IncompleteRosterError{StudentIDs: missing}
		}

		if _, err := findStage(tx, in.StageID); err != nil {
			return err
		}

		rows := make([]model.PracticeAssignment, 0, len(students))
		for _, st := range students {
			p := placements[st.ID]
			if err := checkPlacementRefs(tx, *p.BaseID, *p.SupervisorID); err != nil {
				return err
			}
			rows = append(rows, model.PracticeAssignment{
				StudentID:       st.ID,
				GroupID:         in.GroupID,
				PracticeStageID: in.StageID,
				SupervisorID:    *p.SupervisorID,
				BaseID:          *p.BaseID,
				StartDate:       start,
				EndDate:         end,
				Status:          model.StatusAssigned,
			})
		}

		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create assignments: %w", err)
		}

		*out = rows
		return nil
	})
}

// checkPlacementRefs verifies the base exists and the supervisor exists with a
// supervising role.
func checkPlacementRefs(tx *gorm.DB, baseID, supervisorID uint) error {
	if _, err := findBase(tx, baseID); err != nil {
		return err
	}
	supervisor, err := findUser(tx, supervisorID)
	if err != nil {
		return err
	}
	if !supervisor.Role.CanSupervise() {
		return fmt.Errorf("%w: user %d cannot supervise", ErrRoleMismatch, supervisorID)
	}
	return nil
}

func preloadAssignment(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").
		Preload("Supervisor").
		Preload("Group").
		Preload("PracticeStage").
		Preload("Base")
}

// Get returns one assignment with its related records
func (s *AssignmentService) Get(ctx context.Context, id uint) (*model.PracticeAssignment, error) {
	return findAssignment(preloadAssignment(s.db.WithContext(ctx)), id)
}

func findAssignment(db *gorm.DB, id uint) (*model.PracticeAssignment, error) {
	var a model.PracticeAssignment
	if err := db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("assignment", id)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

// CanView reports whether actor may read an assignment. Students only see
// their own placements.
func CanView(actor *model.User, a *model.PracticeAssignment) bool {
	if actor == nil || a == nil {
		return false
	}
	if actor.IsStudent() {
		return a.StudentID == actor.ID
	}
	return true
}

// List returns assignments matching the filter. Students are restricted to
// their own assignments.
func (s *AssignmentService) List(ctx context.Context, actor *model.User, filter AssignmentFilter) ([]model.PracticeAssignment, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if actor.IsStudent() {
		filter.StudentID = actor.ID
	}

	query := preloadAssignment(s.db.WithContext(ctx))
	if filter.GroupID != 0 {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.StageID != 0 {
		query = query.Where("practice_stage_id = ?", filter.StageID)
	}
	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.SupervisorID != 0 {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	assignments := []model.PracticeAssignment{}
	if err := query.Order("id ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Update applies a partial update. The merged date range must stay ordered and
// status may only advance one step.
func (s *AssignmentService) Update(ctx context.Context, actor *model.User, id uint, in UpdateAssignmentInput) (*model.PracticeAssignment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := findAssignment(tx, id)
		if err != nil {
			return err
		}

		if in.StageID != nil {
			if _, err := findStage(tx, *in.StageID); err != nil {
				return err
			}
			a.PracticeStageID = *in.StageID
		}
		if in.BaseID != nil {
			a.BaseID = *in.BaseID
		}
		if in.SupervisorID != nil {
			a.SupervisorID = *in.SupervisorID
		}
		if in.BaseID != nil || in.SupervisorID != nil {
			if err := checkPlacementRefs(tx, a.BaseID, a.SupervisorID); err != nil {
				return err
			}
		}

		if in.StartDate != nil {
			if a.StartDate, err = ParseDate(*in.StartDate); err != nil {
				return err
			}
		}
		if in.EndDate != nil {
			if a.EndDate, err = ParseDate(*in.EndDate); err != nil {
				return err
			}
		}
		if !a.DateRangeValid() {
			return fmt.Errorf("%w: end is before start", ErrInvalidDateRange)
		}

		if in.Status != nil {
			if !a.Status.CanTransitionTo(*in.Status) {
				return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, *in.Status)
			}
			a.Status = *in.Status
		}

		return tx.Omit(clause.Associations).Save(a).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("assignment.update id=%d by=%d", id, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment with its evaluations and reports
func (s *AssignmentService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAssignment(tx, id); err != nil {
			return err
		}
		return deleteAssignments(tx, "id = ?", id)
	})

	s.audit.Outcome(ctx, fmt.Sprintf("assignment.delete id=%d by=%d", id, actor.ID), err)
	return err
}
