package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceService manages shared templates, instructions and examples
type ResourceService struct {
	db *gorm.DB
}

// NewResourceService creates a new resource service
func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db}
}

// ResourceInput describes a shared document
type ResourceInput struct {
	Title       string
	Description string
	FilePath    string
	Type        model.ResourceType
}

// ResourceFilter narrows List
type ResourceFilter struct {
	Type model.ResourceType
}

// Create shares a resource. Teachers and staff may upload.
func (s *ResourceService) Create(ctx context.Context, actor *model.User, in ResourceInput) (*model.Resource, error) {
	if err := requireSupervisor(actor); err != nil {
		return nil, err
	}

	res := &model.Resource{
		UploadedBy:  actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		FilePath:    strings.TrimSpace(in.FilePath),
		Type:        in.Type,
	}
	switch {
	case !in.Type.Valid():
		return nil, invalidInput("type must be template, instruction or example")
	case res.Title == "" || tooLong(res.Title, 100):
		return nil, invalidInput("title must be 1-100 characters")
	case tooLong(res.FilePath, 255):
		return nil, invalidInput("file path must be at most 255 characters")
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error; err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// List returns resources newest first
func (s *ResourceService) List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error) {
	query := s.db.WithContext(ctx).Preload("Uploader")
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	resources := []model.Resource{}
	if err := query.Order("uploaded_at DESC, id DESC").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// Delete removes a resource. Only its uploader or staff may delete it.
func (s *ResourceService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if actor == nil {
		return ErrUnauthorized
	}

	db := s.db.WithContext(ctx)
	var res model.Resource
	if err := db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("resource", id)
		}
		return fmt.Errorf("failed to get resource: %w", err)
	}
	if res.UploadedBy != actor.ID && !actor.IsStaff() {
		return ErrUnauthorized
	}

	if err := db.Delete(&model.Resource{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}
