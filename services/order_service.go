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

// OrderService manages the orders and contracts generated for groups
type OrderService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB, audit *AuditService) *OrderService {
	return &OrderService{db: db, audit: audit}
}

// Create records a generated document for a group
func (s *OrderService) Create(ctx context.Context, actor *model.User, groupID uint, fileType model.OrderType, filePath string) (*model.OrderOrContract, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	order := &model.OrderOrContract{
		GroupID:  groupID,
		FileType: fileType,
		FilePath: strings.TrimSpace(filePath),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case !fileType.Valid():
			return invalidInput("file type must be contract or order")
		case order.FilePath == "" || tooLong(order.FilePath, 255):
			return invalidInput("file path must be 1-255 characters")
		}
		if _, err := findGroup(tx, groupID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(order).Error
	})

	s.audit.Outcome(ctx, fmt.Sprintf("order.create group=%d type=%s by=%d", groupID, fileType, actor.ID), err)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListByGroup returns a group's documents, newest first
func (s *OrderService) ListByGroup(ctx context.Context, groupID uint) ([]model.OrderOrContract, error) {
	db := s.db.WithContext(ctx)
	if _, err := findGroup(db, groupID); err != nil {
		return nil, err
	}

	orders := []model.OrderOrContract{}
	err := db.Where("group_id = ?", groupID).
		Order("generated_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Delete removes one document
func (s *OrderService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&model.OrderOrContract{}, id)
	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = notFound("order", id)
	}

	s.audit.Outcome(ctx, fmt.Sprintf("order.delete id=%d by=%d", id, actor.ID), err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return err
}
