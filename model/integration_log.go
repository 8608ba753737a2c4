package model

import "time"

// LogStatus is the outcome recorded for an audited action
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogFailed  LogStatus = "failed"
)

// IntegrationLog is an append-only audit entry.
type IntegrationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(255);not null" json:"action"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Status    LogStatus `gorm:"type:varchar(10);not null;default:'success';index" json:"status"`
}

// TableName specifies the table name for IntegrationLog
func (IntegrationLog) TableName() string {
	return "integration_logs"
}
