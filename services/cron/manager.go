package cron

import (
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"gorm.io/gorm"
)

const (
	jobPurgeTokens   = "purge_expired_tokens"
	jobCleanupOldLog = "cleanup_old_logs"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	blacklist *auth.BlacklistService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		db:        db,
		blacklist: auth.NewBlacklistService(db),
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Hourly: drop blacklist entries whose tokens have expired anyway
	if _, err := m.cron.AddFunc("0 5 * * * *", m.PurgeExpiredTokens); err != nil {
		return err
	}

	// Daily at 2 AM: trim old job logs
	if _, err := m.cron.AddFunc("0 0 2 * * *", m.CleanupOldLogs); err != nil {
		return err
	}

	log.Info("All cron jobs registered successfully")
	return nil
}

// logJobStart records a running job and returns its log id
func (m *CronManager) logJobStart(jobName string) uint {
	log.Infof("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := m.db.Create(&cronLog).Error; err != nil {
		log.Errorf("[CRON] Failed to record start of %s: %v", jobName, err)
		return 0
	}
	return cronLog.ID
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(id uint, jobName string, message string) {
	log.Infof("[CRON] Completed job: %s - %s", jobName, message)
	m.finish(id, map[string]interface{}{
		"status":       "completed",
		"completed_at": time.Now(),
		"message":      message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(id uint, jobName string, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", jobName, err)
	m.finish(id, map[string]interface{}{
		"status":       "failed",
		"completed_at": time.Now(),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) finish(id uint, updates map[string]interface{}) {
	if id == 0 {
		return
	}
	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Errorf("[CRON] Failed to update job log %d: %v", id, err)
	}
}
