package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/learnhub-api/model"
)

// Job names as recorded in cron_job_logs
const (
	JobCleanupExpiredTokens = "cleanup_expired_tokens"
	JobCleanupOldCronLogs   = "cleanup_old_cron_logs"
	JobPlatformStatsReport  = "platform_stats_report"
)

// CronLogRetention is how long job history is kept
const CronLogRetention = 30 * 24 * time.Hour

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return fmt.Sprintf("job panicked: %v", p.value)
}

// CleanupExpiredTokens removes blacklist entries whose token has expired.
// An expired token fails validation on its own, so the row is no longer needed.
func (m *CronManager) CleanupExpiredTokens(ctx context.Context) (string, map[string]interface{}, error) {
	removed, err := m.blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to clean token blacklist: %w", err)
	}
	return fmt.Sprintf("Removed %d expired tokens", removed), map[string]interface{}{"removed": removed}, nil
}

// CleanupOldCronLogs trims job history older than CronLogRetention
func (m *CronManager) CleanupOldCronLogs(ctx context.Context) (string, map[string]interface{}, error) {
	cutoff := time.Now().Add(-CronLogRetention)
	result := m.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", nil, fmt.Errorf("failed to clean cron logs: %w", result.Error)
	}
	return fmt.Sprintf("Removed %d old cron logs", result.RowsAffected), map[string]interface{}{"removed": result.RowsAffected}, nil
}

// ReportPlatformStats snapshots the platform counts into the job log
func (m *CronManager) ReportPlatformStats(ctx context.Context) (string, map[string]interface{}, error) {
	stats, err := m.analytics.CountPlatformStats(ctx)
	if err != nil {
		return "", nil, err
	}
	m.analytics.InvalidateStats(ctx)

	metadata := map[string]interface{}{
		"totalUsers":       stats.TotalUsers,
		"totalCourses":     stats.TotalCourses,
		"totalLessons":     stats.TotalLessons,
		"totalEnrollments": stats.TotalEnrollments,
	}
	msg := fmt.Sprintf("%d users, %d courses, %d lessons, %d enrollments",
		stats.TotalUsers, stats.TotalCourses, stats.TotalLessons, stats.TotalEnrollments)
	return msg, metadata, nil
}
