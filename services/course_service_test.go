package services

import (
	"testing"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseDefaults(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)

	c := f.course(t, tutor, "  Go Basics ")

	assert.Equal(t, "Go Basics", c.Title)
	assert.Equal(t, model.LevelBeginner, c.Level)
	assert.False(t, c.IsPublished)
	assert.Equal(t, tutor.ID, c.InstructorID)
	assert.NotNil(t, c.Requirements)
	assert.NotNil(t, c.LearningOutcomes)

	_, err := f.courses.Create(f.ctx, 9999, CourseInput{Title: "x", Description: "y", Category: "z"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListCoursesResolvesInstructorAndFilters(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	goCourse := f.course(t, tutor, "Go")
	_, err := f.courses.Create(f.ctx, tutor.ID, CourseInput{
		Title: "Watercolor", Description: "Painting for everyone", Category: "art", Level: model.LevelAdvanced,
	})
	require.NoError(t, err)
	_, err = f.courses.TogglePublish(f.ctx, goCourse.ID, tutor.ID)
	require.NoError(t, err)

	all, err := f.courses.List(f.ctx, CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, item := range all {
		assert.Equal(t, model.UserSummary{ID: tutor.ID, Name: "tutor", Email: "tutor@example.com"}, item.Instructor)
	}

	byCategory, err := f.courses.List(f.ctx, CourseFilter{Category: "art"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Watercolor", byCategory[0].Title)

	published := true
	onlyPublished, err := f.courses.List(f.ctx, CourseFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, onlyPublished, 1)
	assert.Equal(t, goCourse.ID, onlyPublished[0].ID)

	searched, err := f.courses.List(f.ctx, CourseFilter{Search: "PAINT"})
	require.NoError(t, err)
	require.Len(t, searched, 1)

	leveled, err := f.courses.List(f.ctx, CourseFilter{Level: model.LevelAdvanced})
	require.NoError(t, err)
	assert.Len(t, leveled, 1)
}

func TestGetCourseDetail(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	s1 := f.user(t, "s1", model.RoleStudent)
	s2 := f.user(t, "s2", model.RoleStudent)
	c := f.course(t, tutor, "Go")
	l1 := f.lesson(t, tutor, c, "one")
	l2 := f.lesson(t, tutor, c, "two")
	require.NoError(t, f.enrollment.Enroll(f.ctx, s1.ID, c.ID))
	require.NoError(t, f.enrollment.Enroll(f.ctx, s2.ID, c.ID))

	detail, err := f.courses.Get(f.ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, model.UserSummary{ID: tutor.ID, Name: "tutor"}, detail.Instructor)
	assert.ElementsMatch(t, []model.UserSummary{{ID: s1.ID, Name: "s1"}, {ID: s2.ID, Name: "s2"}}, detail.Students)
	assert.Equal(t, []uint{l1.ID, l2.ID}, detail.Lessons)

	_, err = f.courses.Get(f.ctx, 424242)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateCourseMergesSuppliedFields(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	c := f.course(t, tutor, "Go")

	title := "Go, Advanced"
	level := model.LevelAdvanced
	reqs := []string{"Basic Go"}
	updated, err := f.courses.Update(f.ctx, c.ID, tutor.ID, CourseUpdate{Title: &title, Level: &level, Requirements: &reqs})
	require.NoError(t, err)

	assert.Equal(t, "Go, Advanced", updated.Title)
	assert.Equal(t, model.LevelAdvanced, updated.Level)
	assert.Equal(t, "Go description", updated.Description)
	assert.Equal(t, 19.99, updated.Price)
	assert.Equal(t, []string{"Basic Go"}, []string(updated.Requirements))

	detail, err := f.courses.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go, Advanced", detail.Title)
	assert.Equal(t, []string{"Basic Go"}, []string(detail.Requirements))
}

func TestOwnershipChecks(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.RoleInstructor)
	other := f.user(t, "other", model.RoleInstructor)
	c := f.course(t, owner, "Go")

	title := "Hijacked"
	_, err := f.courses.Update(f.ctx, c.ID, other.ID, CourseUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotCourseOwner)

	_, err = f.courses.TogglePublish(f.ctx, c.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotCourseOwner)

	err = f.courses.Delete(f.ctx, c.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotCourseOwner)

	detail, err := f.courses.Get(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", detail.Title)
	assert.False(t, detail.IsPublished)

	assert.ErrorIs(t, f.courses.Delete(f.ctx, 999, owner.ID), ErrCourseNotFound)
}

func TestTogglePublishFlips(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	c := f.course(t, tutor, "Go")

	on, err := f.courses.TogglePublish(f.ctx, c.ID, tutor.ID)
	require.NoError(t, err)
	assert.True(t, on.IsPublished)

	off, err := f.courses.TogglePublish(f.ctx, c.ID, tutor.ID)
	require.NoError(t, err)
	assert.False(t, off.IsPublished)
}

func TestDeleteCourseCascades(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	student := f.user(t, "student", model.RoleStudent)
	doomed := f.course(t, tutor, "Doomed")
	kept := f.course(t, tutor, "Kept")

	lesson := f.lesson(t, tutor, doomed, "gone")
	keptLesson := f.lesson(t, tutor, kept, "stays")
	f.quiz(t, lesson, "A", "B")
	f.quiz(t, keptLesson, "C")

	require.NoError(t, f.enrollment.Enroll(f.ctx, student.ID, doomed.ID))
	require.NoError(t, f.enrollment.Enroll(f.ctx, student.ID, kept.ID))
	require.NoError(t, f.lessons.MarkComplete(f.ctx, student.ID, lesson.ID))
	require.NoError(t, f.lessons.MarkComplete(f.ctx, student.ID, keptLesson.ID))
	_, err := f.quizzes.Submit(f.ctx, student.ID, lesson.ID, []Answer{{0, "A"}})
	require.NoError(t, err)

	require.NoError(t, f.courses.Delete(f.ctx, doomed.ID, tutor.ID))

	_, err = f.courses.Get(f.ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, f.db.Model(m).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&model.Lesson{}))
	assert.EqualValues(t, 1, count(&model.Quiz{}))
	assert.EqualValues(t, 1, count(&model.QuizQuestion{}))
	assert.EqualValues(t, 0, count(&model.QuizResult{}))
	assert.EqualValues(t, 1, count(&model.LessonCompletion{}))
	assert.EqualValues(t, 1, count(&model.Enrollment{}))

	progress, err := f.progress.Progress(f.ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, progress.CompletedLessons, 1)
	assert.Equal(t, keptLesson.ID, progress.CompletedLessons[0].ID)
}

func TestDeleteAnyIgnoresOwner(t *testing.T) {
	f := newFixture(t)
	tutor := f.user(t, "tutor", model.RoleInstructor)
	c := f.course(t, tutor, "Go")

	deleted, err := f.courses.DeleteAny(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", deleted.Title)

	_, err = f.courses.DeleteAny(f.ctx, c.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListByInstructor(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a", model.RoleInstructor)
	b := f.user(t, "b", model.RoleInstructor)
	f.course(t, a, "A1")
	f.course(t, a, "A2")
	f.course(t, b, "B1")

	mine, err := f.courses.ListByInstructor(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := f.courses.ListByInstructor(f.ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
