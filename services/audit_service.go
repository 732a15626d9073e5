package services

import (
	"context"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
)

// AuditService reads the admin audit trail and background job history
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditLogFilter narrows ListAuditLogs; zero values match everything
type AuditLogFilter struct {
	Action   string
	Resource string
	AdminID  uint
}

// CronLogFilter narrows ListCronLogs; zero values match everything
type CronLogFilter struct {
	Job    string
	Status model.CronJobStatus
}

// ListAuditLogs returns one page of audit entries, newest first, and the total match count
func (s *AuditService) ListAuditLogs(ctx context.Context, f AuditLogFilter, offset, limit int) ([]model.AdminAuditLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.AdminAuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Resource != "" {
		q = q.Where("resource = ?", f.Resource)
	}
	if f.AdminID > 0 {
		q = q.Where("admin_id = ?", f.AdminID)
	}

	logs := []model.AdminAuditLog{}
	total, err := findPage(q, "created_at DESC, id DESC", offset, limit, &logs)
	if err != nil {
		return nil, 0, storeErr("list audit logs", err)
	}
	return logs, total, nil
}

// GetAuditLog loads a single audit entry
func (s *AuditService) GetAuditLog(ctx context.Context, id uint) (*model.AdminAuditLog, error) {
	var entry model.AdminAuditLog
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrAuditLogNotFound
		}
		return nil, storeErr("load audit log", err)
	}
	return &entry, nil
}

// ListCronLogs returns one page of job runs, newest first, and the total match count
func (s *AuditService) ListCronLogs(ctx context.Context, f CronLogFilter, offset, limit int) ([]model.CronJobLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.CronJobLog{})
	if f.Job != "" {
		q = q.Where("job_name = ?", f.Job)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	logs := []model.CronJobLog{}
	total, err := findPage(q, "started_at DESC, id DESC", offset, limit, &logs)
	if err != nil {
		return nil, 0, storeErr("list cron logs", err)
	}
	return logs, total, nil
}

// findPage counts q, then loads the requested window of it into dest
func findPage(q *gorm.DB, order string, offset, limit int, dest interface{}) (int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	err := q.Order(order).Offset(offset).Limit(limit).Find(dest).Error
	return total, err
}
