package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilchouksey/practice-tracker/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageService delivers direct messages between actors
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send stores a message from sender to receiverID
func (s *MessageService) Send(ctx context.Context, sender *model.User, receiverID uint, body string) (*model.Message, error) {
	if sender == nil {
		return nil, ErrUnauthorized
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalidInput("message body is empty")
	}

	db := s.db.WithContext(ctx)
	if _, err := findUser(db, receiverID); err != nil {
		return nil, err
	}

	msg := &model.Message{SenderID: sender.ID, ReceiverID: receiverID, Body: body}
	if err := db.Omit(clause.Associations).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// Inbox lists messages received by actor in the order they were sent
func (s *MessageService) Inbox(ctx context.Context, actor *model.User) ([]model.Message, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	messages := []model.Message{}
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", actor.ID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}
	return messages, nil
}

// Conversation lists messages exchanged between actor and otherID in both
// directions
func (s *MessageService) Conversation(ctx context.Context, actor *model.User, otherID uint) ([]model.Message, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	db := s.db.WithContext(ctx)
	if _, err := findUser(db, otherID); err != nil {
		return nil, err
	}

	messages := []model.Message{}
	err := db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			actor.ID, otherID, otherID, actor.ID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}
