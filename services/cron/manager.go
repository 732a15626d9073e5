package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// jobTimeout caps a single run of any job
const jobTimeout = 10 * time.Minute

// jobFunc does the work of a job and returns a summary plus optional metadata
type jobFunc func(ctx context.Context) (string, map[string]interface{}, error)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	log       *utils.Logger
	blacklist *auth.BlacklistService
	analytics *services.AnalyticsService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, log *utils.Logger, analytics *services.AnalyticsService) *CronManager {
	if log == nil {
		log = utils.NewNopLogger()
	}
	if analytics == nil {
		analytics = services.NewAnalyticsService(db, nil)
	}

	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		db:        db,
		log:       log.With("component", "cron"),
		blacklist: auth.NewBlacklistService(db),
		analytics: analytics,
	}
}

// Start registers the jobs and starts the scheduler
func (m *CronManager) Start() error {
	m.log.Info("starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()
	m.log.Info("cron jobs started", "jobs", len(m.cron.Entries()))
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (m *CronManager) Stop() {
	m.log.Info("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	jobs := []struct {
		schedule string
		name     string
		fn       jobFunc
	}{
		// Every hour: drop revoked tokens that have expired anyway
		{"0 0 * * * *", JobCleanupExpiredTokens, m.CleanupExpiredTokens},
		// Daily at 3 AM
		{"0 0 3 * * *", JobCleanupOldCronLogs, m.CleanupOldCronLogs},
		// Daily at 6 AM
		{"0 0 6 * * *", JobPlatformStatsReport, m.ReportPlatformStats},
	}

	for _, j := range jobs {
		name, fn := j.name, j.fn
		if _, err := m.cron.AddFunc(j.schedule, func() { m.runJob(name, fn) }); err != nil {
			return err
		}
	}
	return nil
}

// runJob executes fn and records the run in cron_job_logs
func (m *CronManager) runJob(name string, fn jobFunc) *model.CronJobLog {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	entry := m.logJobStart(name)

	var (
		message  string
		metadata map[string]interface{}
		err      error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = panicError{value: r}
			}
		}()
		message, metadata, err = fn(ctx)
	}()

	if err != nil {
		m.logJobError(entry, err)
	} else {
		m.logJobComplete(entry, message, metadata)
	}
	return entry
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	m.log.Info("cron job started", "job", jobName)

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronJobStarted,
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.log.Warn("failed to record cron job start", "job", jobName, "error", err)
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, message string, metadata map[string]interface{}) {
	m.log.Info("cron job completed", "job", entry.JobName, "message", message)

	now := time.Now()
	entry.Status = model.CronJobCompleted
	entry.CompletedAt = &now
	entry.Duration = now.Sub(entry.StartedAt).Milliseconds()
	entry.Message = message
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = raw
		}
	}
	m.saveEntry(entry)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	m.log.Error("cron job failed", "job", entry.JobName, "error", err)

	now := time.Now()
	entry.Status = model.CronJobFailed
	entry.CompletedAt = &now
	entry.Duration = now.Sub(entry.StartedAt).Milliseconds()
	entry.ErrorMsg = err.Error()
	m.saveEntry(entry)
}

func (m *CronManager) saveEntry(entry *model.CronJobLog) {
	if entry.ID == 0 {
		return
	}
	err := m.db.Model(&model.CronJobLog{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"status":       entry.Status,
			"completed_at": entry.CompletedAt,
			"duration":     entry.Duration,
			"message":      entry.Message,
			"error_msg":    entry.ErrorMsg,
			"metadata":     entry.Metadata,
		}).Error
	if err != nil {
		m.log.Warn("failed to record cron job result", "job", entry.JobName, "error", err)
	}
}
