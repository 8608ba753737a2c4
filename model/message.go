package model

import "time"

// Message is a directed note from one actor to another. No threading or read state.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Body       string    `gorm:"column:message;type:text;not null" json:"message"`
	SentAt     time.Time `gorm:"autoCreateTime;index" json:"sent_at"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}
