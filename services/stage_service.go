package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
)

// StageService manages practice stages
type StageService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewStageService creates a new practice stage service
func NewStageService(db *gorm.DB, audit *AuditService) *StageService {
	return &StageService{db: db, audit: audit}
}

// StageInput carries the editable fields of a practice stage
type StageInput struct {
	Name        string
	Description string
}

func (in *StageInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || tooLong(in.Name, 50) {
		return invalidInput("stage name must be 1-50 characters")
	}
	return nil
}

// List returns all stages in creation order
func (s *StageService) List(ctx context.Context) ([]model.PracticeStage, error) {
	stages := []model.PracticeStage{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&stages).Error; err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

// Get returns one stage
func (s *StageService) Get(ctx context.Context, id uint) (*model.PracticeStage, error) {
	return findStage(s.db.WithContext(ctx), id)
}

func findStage(db *gorm.DB, id uint) (*model.PracticeStage, error) {
	var stage model.PracticeStage
	if err := db.First(&stage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stage", id)
		}
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return &stage, nil
}

// Create adds a stage
func (s *StageService) Create(ctx context.Context, actor *model.User, in StageInput) (*model.PracticeStage, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var stage *model.PracticeStage
	err := in.normalize()
	if err == nil {
		stage = &model.PracticeStage{Name: in.Name, Description: in.Description}
		if err = s.db.WithContext(ctx).Create(stage).Error; err != nil {
			err = fmt.Errorf("failed to create stage: %w", err)
		}
	}

	s.audit.Outcome(ctx, fmt.Sprintf("stage.create name=%q by=%d", in.Name, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// Update replaces the editable fields of a stage
func (s *StageService) Update(ctx context.Context, actor *model.User, id uint, in StageInput) (*model.PracticeStage, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var stage *model.PracticeStage
	err := in.normalize()
	if err == nil {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if stage, err = findStage(tx, id); err != nil {
				return err
			}
			stage.Name = in.Name
			stage.Description = in.Description
			return tx.Save(stage).Error
		})
	}

	s.audit.Outcome(ctx, fmt.Sprintf("stage.update id=%d by=%d", id, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// Delete removes a stage that no assignment references
func (s *StageService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findStage(tx, id); err != nil {
			return err
		}
		if err := ensureUnreferenced(tx, "practice_stage_id = ?", id); err != nil {
			return err
		}
		return tx.Delete(&model.PracticeStage{}, id).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("stage.delete id=%d by=%d", id, actor.ID), err)
	return err
}
