package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/practice-tracker/model"
)

// logRetention is how long cron job logs are kept
const logRetention = 90 * 24 * time.Hour

// PurgeExpiredTokens removes revoked tokens that have expired on their own
func (m *CronManager) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	id := m.logJobStart(jobPurgeTokens)

	removed, err := m.blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(id, jobPurgeTokens, fmt.Errorf("failed to purge token blacklist: %w", err))
		return
	}

	m.logJobComplete(id, jobPurgeTokens, fmt.Sprintf("Removed %d expired tokens", removed))
}

// CleanupOldLogs removes finished cron job logs past the retention window
func (m *CronManager) CleanupOldLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	id := m.logJobStart(jobCleanupOldLog)

	cutoff := time.Now().Add(-logRetention)
	result := m.db.WithContext(ctx).
		Where("created_at < ? AND status <> ?", cutoff, "running").
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(id, jobCleanupOldLog, fmt.Errorf("failed to clean cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(id, jobCleanupOldLog, fmt.Sprintf("Cleaned %d old cron logs", result.RowsAffected))
}
