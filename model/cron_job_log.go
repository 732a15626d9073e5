package model

import (
	"time"

	"gorm.io/datatypes"
)

// CronJobStatus is the lifecycle state of a single job run
type CronJobStatus string

const (
	CronJobStarted   CronJobStatus = "started"
	CronJobCompleted CronJobStatus = "completed"
	CronJobFailed    CronJobStatus = "failed"
)

// CronJobLog represents execution logs for background cron jobs
type CronJobLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	JobName     string         `gorm:"type:varchar(100);not null;index" json:"jobName"`
	Status      CronJobStatus  `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt   time.Time      `gorm:"not null;index" json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	Duration    int64          `json:"durationMs"` // Duration in milliseconds
	Message     string         `gorm:"type:text" json:"message"`
	ErrorMsg    string         `gorm:"type:text" json:"errorMsg"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TableName specifies the table name for CronJobLog
func (CronJobLog) TableName() string {
	return "cron_job_logs"
}
