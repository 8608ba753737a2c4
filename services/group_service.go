package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
)

// GroupService manages student groups and their membership
type GroupService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewGroupService creates a new group service
func NewGroupService(db *gorm.DB, audit *AuditService) *GroupService {
	return &GroupService{db: db, audit: audit}
}

// GroupInput carries the editable fields of a group
type GroupInput struct {
	Name string
	Year int
}

func (in GroupInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" || tooLong(name, 50) {
		return invalidInput("group name must be 1-50 characters")
	}
	if in.Year <= 0 {
		return invalidInput("group year must be positive")
	}
	return nil
}

// List returns all groups, newest year first
func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups := []model.Group{}
	if err := s.db.WithContext(ctx).Order("year DESC, name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Get returns one group
func (s *GroupService) Get(ctx context.Context, id uint) (*model.Group, error) {
	return findGroup(s.db.WithContext(ctx), id)
}

func findGroup(db *gorm.DB, id uint) (*model.Group, error) {
	var group model.Group
	if err := db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("group", id)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// Create adds a group
func (s *GroupService) Create(ctx context.Context, actor *model.User, in GroupInput) (*model.Group, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	group := &model.Group{Name: strings.TrimSpace(in.Name), Year: in.Year}
	err := in.validate()
	if err == nil {
		err = s.db.WithContext(ctx).Create(group).Error
		if err != nil {
			err = fmt.Errorf("failed to create group: %w", err)
		}
	}

	s.audit.Outcome(ctx, fmt.Sprintf("group.create name=%q by=%d", group.Name, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Update replaces the editable fields of a group
func (s *GroupService) Update(ctx context.Context, actor *model.User, id uint, in GroupInput) (*model.Group, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var group *model.Group
	err := in.validate()
	if err == nil {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if group, err = findGroup(tx, id); err != nil {
				return err
			}
			group.Name = strings.TrimSpace(in.Name)
			group.Year = in.Year
			return tx.Save(group).Error
		})
	}

	s.audit.Outcome(ctx, fmt.Sprintf("group.update id=%d by=%d", id, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group in one transaction. Members are detached, while
// orders/contracts and assignments (with their evaluations and reports) are
// deleted with it.
func (s *GroupService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, id); err != nil {
			return err
		}

		result := tx.Model(&model.User{}).Where("group_id = ?", id).Update("group_id", nil)
		if result.Error != nil {
			return fmt.Errorf("failed to detach members: %w", result.Error)
		}
		detached = result.RowsAffected

		if err := tx.Where("group_id = ?", id).Delete(&model.OrderOrContract{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}

		if err := deleteAssignments(tx, "group_id = ?", id); err != nil {
			return err
		}

		return tx.Delete(&model.Group{}, id).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("group.delete id=%d by=%d", id, actor.ID), err)
	if err != nil {
		return err
	}

	log.Infof("Deleted group %d, detached %d members", id, detached)
	return nil
}

// deleteAssignments removes the assignments matching the condition together
// with their evaluations and reports.
func deleteAssignments(tx *gorm.DB, cond string, args ...interface{}) error {
	ids := func() *gorm.DB {
		return tx.Model(&model.PracticeAssignment{}).Select("id").Where(cond, args...)
	}

	if err := tx.Where("assignment_id IN (?)", ids()).Delete(&model.PracticeEvaluation{}).Error; err != nil {
		return fmt.Errorf("failed to delete evaluations: %w", err)
	}
	if err := tx.Where("assignment_id IN (?)", ids()).Delete(&model.PracticeReport{}).Error; err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	if err := tx.Where(cond, args...).Delete(&model.PracticeAssignment{}).Error; err != nil {
		return fmt.Errorf("failed to delete assignments: %w", err)
	}
	return nil
}

// AssignStudent puts a student into a group, moving them out of any previous one
func (s *GroupService) AssignStudent(ctx context.Context, actor *model.User, groupID, studentID uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, groupID); err != nil {
			return err
		}

		student, err := findUser(tx, studentID)
		if err != nil {
			return err
		}
		if !student.IsStudent() {
			return ErrRoleMismatch
		}

		return tx.Model(&model.User{}).Where("id = ?", studentID).Update("group_id", groupID).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("group.assign_student group=%d student=%d by=%d", groupID, studentID, actor.ID), err)
	return err
}

// RemoveStudent clears a student's group only if it is groupID
func (s *GroupService) RemoveStudent(ctx context.Context, actor *model.User, groupID, studentID uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND group_id = ?", studentID, groupID).
			Update("group_id", nil)
		if result.Error != nil {
			return fmt.Errorf("failed to remove student: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		if _, err := findUser(tx, studentID); err != nil {
			return err
		}
		return ErrNotInGroup
	})

	s.audit.Outcome(ctx, fmt.Sprintf("group.remove_student group=%d student=%d by=%d", groupID, studentID, actor.ID), err)
	return err
}

// StudentsOf lists the students of a group ordered by full name then id
func (s *GroupService) StudentsOf(ctx context.Context, groupID uint) ([]model.User, error) {
	db := s.db.WithContext(ctx)
	if _, err := findGroup(db, groupID); err != nil {
		return nil, err
	}
	return studentsOf(db, groupID)
}

func studentsOf(db *gorm.DB, groupID uint) ([]model.User, error) {
	students := []model.User{}
	err := db.Where("group_id = ? AND role = ?", groupID, model.RoleStudent).
		Order("full_name ASC, id ASC").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func findUser(db *gorm.DB, id uint) (*model.User, error) {
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
