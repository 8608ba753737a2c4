package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
)

const maxActionLength = 255

// AuditService appends to and reads the integration log. There is no update
// or delete.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditFilter narrows List
type AuditFilter struct {
	Status model.LogStatus
	Limit  int
	Offset int
}

// Record appends one entry
func (s *AuditService) Record(ctx context.Context, action string, status model.LogStatus) error {
	if status == "" {
		status = model.LogSuccess
	}
	if status != model.LogSuccess && status != model.LogFailed {
		return invalidInput("audit status %q", status)
	}
	action = truncate(action, maxActionLength)

	entry := &model.IntegrationLog{Action: action, Status: status}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Outcome records the result of an authorized operation: success when err is
// nil, failed otherwise. Authorization failures leave no trace and write
// failures are only logged.
func (s *AuditService) Outcome(ctx context.Context, action string, err error) {
	if s == nil || errors.Is(err, ErrUnauthorized) {
		return
	}

	status := model.LogSuccess
	if err != nil {
		status = model.LogFailed
	}

	if recErr := s.Record(ctx, action, status); recErr != nil {
		log.Errorf("audit %q (%s): %v", action, status, recErr)
	}
}

// List returns entries newest first together with the total count
func (s *AuditService) List(ctx context.Context, filter AuditFilter) ([]model.IntegrationLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.IntegrationLog{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entries := []model.IntegrationLog{}
	err := query.Order("timestamp DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, total, nil
}
