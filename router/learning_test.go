package router

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLessonUploads(t *testing.T) {
	s := newServer(t)
	_, owner := s.account(t, "owner", model.RoleInstructor)
	_, other := s.account(t, "other", model.RoleInstructor)
	_, student := s.account(t, "stu", model.RoleStudent)
	courseID := s.createCourse(t, owner, "Go")

	fields := map[string]string{"title": "Intro", "courseId": fmt.Sprint(courseID)}

	req := multipartRequest(t, "/api/lessons", fields, map[string][2]string{"video": {"notes.txt", "x"}})
	res := s.send(t, req, owner)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Only video files are allowed", res.object(t)["message"])

	req = multipartRequest(t, "/api/lessons", fields, map[string][2]string{"video": {"intro.mp4", "video-bytes"}})
	res = s.send(t, req, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	req = multipartRequest(t, "/api/lessons", fields, map[string][2]string{"video": {"intro.mp4", "video-bytes"}})
	res = s.send(t, req, owner)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	var lesson model.Lesson
	res.decode(t, &lesson)
	assert.Equal(t, courseID, lesson.CourseID)
	assert.Regexp(t, `^/uploads/videos/intro_\d+_[0-9a-f]{8}\.mp4$`, lesson.VideoURL)

	res = s.do(t, http.MethodGet, lesson.VideoURL, nil, "")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "video-bytes", string(res.body))

	second := s.createLesson(t, owner, courseID, "Types")

	for _, path := range []string{"/api/lessons/%d", "/api/lessons/course/%d"} {
		var lessons []model.Lesson
		res = s.do(t, http.MethodGet, fmt.Sprintf(path, courseID), nil, student)
		require.Equal(t, http.StatusOK, res.status)
		res.decode(t, &lessons)
		require.Len(t, lessons, 2)
		assert.Equal(t, lesson.ID, lessons[0].ID)
		assert.Equal(t, second, lessons[1].ID)
	}

	detail := s.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d", courseID), nil, "").object(t)
	assert.Equal(t, []interface{}{float64(lesson.ID), float64(second)}, detail["lessons"])

	res = s.do(t, http.MethodPost, "/api/lessons", map[string]interface{}{"title": "Orphan", "courseId": 999}, owner)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestQuizFlow(t *testing.T) {
	s := newServer(t)
	_, owner := s.account(t, "owner", model.RoleInstructor)
	_, student := s.account(t, "stu", model.RoleStudent)
	courseID := s.createCourse(t, owner, "Go")
	lessonID := s.createLesson(t, owner, courseID, "Basics")
	path := fmt.Sprintf("/api/quizzes/%d", lessonID)

	res := s.do(t, http.MethodGet, path, nil, student)
	assert.Equal(t, http.StatusNotFound, res.status)

	quiz := map[string]interface{}{
		"lessonId": lessonID,
		"questions": []map[string]interface{}{
			{"question": "2+2?", "options": []string{"3", "4"}, "correctAnswer": "4"},
			{"question": "Go keyword?", "options": []string{"func", "def"}, "correctAnswer": "func"},
			{"question": "Zero value of int?", "options": []string{"0", "nil"}, "correctAnswer": "0"},
		},
	}

	res = s.do(t, http.MethodPost, "/api/quizzes", quiz, student)
	assert.Equal(t, http.StatusForbidden, res.status)

	bad := map[string]interface{}{
		"lessonId": lessonID,
		"questions": []map[string]interface{}{
			{"question": "?", "options": []string{"a", "b"}, "correctAnswer": "c"},
		},
	}
	res = s.do(t, http.MethodPost, "/api/quizzes", bad, owner)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = s.do(t, http.MethodPost, "/api/quizzes", quiz, owner)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))

	res = s.do(t, http.MethodPost, "/api/quizzes", quiz, owner)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, res))

	res = s.do(t, http.MethodGet, path, nil, student)
	require.Equal(t, http.StatusOK, res.status)
	assert.False(t, containsFold(res.body, "correctAnswer"), string(res.body))
	questions := res.object(t)["questions"].([]interface{})
	require.Len(t, questions, 3)
	assert.Equal(t, "2+2?", questions[0].(map[string]interface{})["question"])

	res = s.do(t, http.MethodGet, path, nil, owner)
	require.Equal(t, http.StatusOK, res.status)
	assert.True(t, containsFold(res.body, "correctAnswer"))

	answers := map[string]interface{}{"answers": []map[string]interface{}{
		{"questionIndex": 0, "selectedAnswer": "4"},
		{"questionIndex": 1, "selectedAnswer": "def"},
		{"questionIndex": 2, "selectedAnswer": "0"},
	}}
	res = s.do(t, http.MethodPost, path+"/submit", answers, student)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	submitted := res.object(t)
	assert.Equal(t, "Quiz submitted", submitted["message"])
	assert.EqualValues(t, 3, submitted["total"])
	assert.EqualValues(t, 2, submitted["correct"])

	answers["answers"] = []map[string]interface{}{
		{"questionIndex": 0, "selectedAnswer": "4"},
		{"questionIndex": 1, "selectedAnswer": "func"},
		{"questionIndex": 2, "selectedAnswer": "0"},
	}
	res = s.do(t, http.MethodPost, path+"/submit", answers, student)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 3, res.object(t)["correct"])

	res = s.do(t, http.MethodGet, "/api/users/progress", nil, student)
	require.Equal(t, http.StatusOK, res.status)
	results := res.object(t)["quizResults"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.EqualValues(t, 2, first["score"])
	assert.EqualValues(t, 3, first["total"])
	assert.EqualValues(t, lessonID, first["lesson"].(map[string]interface{})["id"])
}

func TestCompleteLesson(t *testing.T) {
	s := newServer(t)
	_, owner := s.account(t, "owner", model.RoleInstructor)
	_, student := s.account(t, "stu", model.RoleStudent)
	courseID := s.createCourse(t, owner, "Go")
	lessonID := s.createLesson(t, owner, courseID, "Basics")

	for i := 0; i < 2; i++ {
		res := s.do(t, http.MethodPost, "/api/lessons/complete", map[string]interface{}{"lessonId": lessonID}, student)
		require.Equal(t, http.StatusOK, res.status, string(res.body))
		assert.Equal(t, "Lesson marked as complete", res.object(t)["message"])
	}

	res := s.do(t, http.MethodGet, "/api/users/progress", nil, student)
	require.Equal(t, http.StatusOK, res.status)
	progress := res.object(t)
	completed := progress["completedLessons"].([]interface{})
	require.Len(t, completed, 1)
	assert.Equal(t, map[string]interface{}{
		"id": float64(lessonID), "title": "Basics", "course": float64(courseID),
	}, completed[0])
	assert.Equal(t, []interface{}{}, progress["quizResults"])

	res = s.do(t, http.MethodPost, "/api/lessons/complete", map[string]interface{}{"lessonId": 999}, student)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = s.do(t, http.MethodPost, "/api/lessons/complete", map[string]interface{}{}, student)
	assert.Equal(t, http.StatusBadRequest, res.status)
}
