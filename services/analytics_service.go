package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
)

// StatsCacheKey is where platform stats are cached
const StatsCacheKey = "admin:stats"

// StatsCacheTTL bounds how stale cached stats may be
const StatsCacheTTL = 30 * time.Second

// JSONCache is the subset of the Redis cache used for stats
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// AnalyticsService handles analytics and reporting
type AnalyticsService struct {
	db    *gorm.DB
	cache JSONCache
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(db *gorm.DB, cache JSONCache) *AnalyticsService {
	return &AnalyticsService{
		db:    db,
		cache: cache,
	}
}

// PlatformStats represents overall platform statistics
type PlatformStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalLessons     int64 `json:"totalLessons"`
	TotalEnrollments int64 `json:"totalEnrollments"`
}

// GetPlatformStats returns platform counts, served from cache when possible
func (s *AnalyticsService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	if s.cache != nil {
		var cached PlatformStats
		if err := s.cache.GetJSON(ctx, StatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.CountPlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Cache write failures only cost a recount
		_ = s.cache.SetJSON(ctx, StatsCacheKey, stats, StatsCacheTTL)
	}
	return stats, nil
}

// CountPlatformStats always reads the counts from the database
func (s *AnalyticsService) CountPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		name  string
		model interface{}
		dest  *int64
	}{
		{"users", &model.User{}, &stats.TotalUsers},
		{"courses", &model.Course{}, &stats.TotalCourses},
		{"lessons", &model.Lesson{}, &stats.TotalLessons},
		{"enrollments", &model.Enrollment{}, &stats.TotalEnrollments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, storeErr(fmt.Sprintf("count %s", c.name), err)
		}
	}
	return stats, nil
}

// InvalidateStats drops cached stats after a write that changes the counts
func (s *AnalyticsService) InvalidateStats(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, StatsCacheKey)
	}
}
