package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	values map[string][]byte
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return cache.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func TestPlatformStatsCounts(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	s1 := f.user(t, "s1", model.RoleStudent)
	s2 := f.user(t, "s2", model.RoleStudent)
	f.user(t, "root", model.RoleAdmin)
	c1 := f.course(t, tutor, "One")
	c2 := f.course(t, tutor, "Two")
	f.lesson(t, tutor, c1, "a")
	f.lesson(t, tutor, c1, "b")
	f.lesson(t, tutor, c2, "c")
	require.NoError(t, f.enrollment.Enroll(f.ctx, s1.ID, c1.ID))
	require.NoError(t, f.enrollment.Enroll(f.ctx, s2.ID, c1.ID))
	require.NoError(t, f.enrollment.Enroll(f.ctx, s1.ID, c2.ID))

	stats, err := NewAnalyticsService(f.db, nil).GetPlatformStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PlatformStats{TotalUsers: 4, TotalCourses: 2, TotalLessons: 3, TotalEnrollments: 3}, *stats)
}

func TestPlatformStatsUsesCache(t *testing.T) {
	f := newFixture(t)
	mem := newMemoryCache()
	svc := NewAnalyticsService(f.db, mem)

	first, err := svc.GetPlatformStats(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, first.TotalUsers)
	assert.Equal(t, 1, mem.sets)

	f.user(t, "late", model.RoleStudent)

	cached, err := svc.GetPlatformStats(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, cached.TotalUsers)
	assert.Equal(t, 1, mem.sets)

	svc.InvalidateStats(f.ctx)
	fresh, err := svc.GetPlatformStats(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fresh.TotalUsers)
}
