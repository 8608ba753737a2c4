package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
)

// BaseService manages practice bases
type BaseService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewBaseService creates a new practice base service
func NewBaseService(db *gorm.DB, audit *AuditService) *BaseService {
	return &BaseService{db: db, audit: audit}
}

// BaseInput carries the editable fields of a practice base
type BaseInput struct {
	Name        string
	Address     string
	ContactInfo string
}

func (in *BaseInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactInfo = strings.TrimSpace(in.ContactInfo)

	switch {
	case in.Name == "" || tooLong(in.Name, 100):
		return invalidInput("base name must be 1-100 characters")
	case tooLong(in.Address, 255):
		return invalidInput("address must be at most 255 characters")
	case tooLong(in.ContactInfo, 255):
		return invalidInput("contact info must be at most 255 characters")
	}
	return nil
}

// List returns all bases ordered by name
func (s *BaseService) List(ctx context.Context) ([]model.PracticeBase, error) {
	bases := []model.PracticeBase{}
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&bases).Error; err != nil {
		return nil, fmt.Errorf("failed to list bases: %w", err)
	}
	return bases, nil
}

// Get returns one base
func (s *BaseService) Get(ctx context.Context, id uint) (*model.PracticeBase, error) {
	return findBase(s.db.WithContext(ctx), id)
}

func findBase(db *gorm.DB, id uint) (*model.PracticeBase, error) {
	var base model.PracticeBase
	if err := db.First(&base, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("base", id)
		}
		return nil, fmt.Errorf("failed to get base: %w", err)
	}
	return &base, nil
}

// Create adds a base
func (s *BaseService) Create(ctx context.Context, actor *model.User, in BaseInput) (*model.PracticeBase, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var base *model.PracticeBase
	err := in.normalize()
	if err == nil {
		base = &model.PracticeBase{Name: in.Name, Address: in.Address, ContactInfo: in.ContactInfo}
		if err = s.db.WithContext(ctx).Create(base).Error; err != nil {
			err = fmt.Errorf("failed to create base: %w", err)
		}
	}

	s.audit.Outcome(ctx, fmt.Sprintf("base.create name=%q by=%d", in.Name, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return base, nil
}

// Update replaces the editable fields of a base
func (s *BaseService) Update(ctx context.Context, actor *model.User, id uint, in BaseInput) (*model.PracticeBase, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var base *model.PracticeBase
	err := in.normalize()
	if err == nil {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if base, err = findBase(tx, id); err != nil {
				return err
			}
			base.Name = in.Name
			base.Address = in.Address
			base.ContactInfo = in.ContactInfo
			return tx.Save(base).Error
		})
	}

	s.audit.Outcome(ctx, fmt.Sprintf("base.update id=%d by=%d", id, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return base, nil
}

// Delete removes a base that no assignment references
func (s *BaseService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findBase(tx, id); err != nil {
			return err
		}
		if err := ensureUnreferenced(tx, "base_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&model.PracticeBase{}, id).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("base.delete id=%d by=%d", id, actor.ID), err)
	return err
}

// ensureUnreferenced fails with ErrInUse when an assignment matches cond.
func ensureUnreferenced(tx *gorm.DB, cond string, args ...interface{}) error {
	var refs int64
	if err := tx.Model(&model.PracticeAssignment{}).Where(cond, args...).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to count assignments: %w", err)
	}
	if refs > 0 {
		return ErrInUse
	}
	return nil
}
