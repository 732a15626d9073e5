package router

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseListingNeverExposesPasswords(t *testing.T) {
	s := newServer(t)
	instructorID, token := s.account(t, "teach", model.RoleInstructor)
	s.createCourse(t, token, "Go")

	res := s.do(t, http.MethodGet, "/api/courses", nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.False(t, containsFold(res.body, "password"), string(res.body))

	var courses []map[string]interface{}
	res.decode(t, &courses)
	require.Len(t, courses, 1)
	instructor := courses[0]["instructor"].(map[string]interface{})
	assert.EqualValues(t, instructorID, instructor["id"])
	assert.Equal(t, "teach", instructor["name"])
	assert.Equal(t, "teach@example.com", instructor["email"])
}

func TestCourseListFilters(t *testing.T) {
	s := newServer(t)
	_, token := s.account(t, "teach", model.RoleInstructor)
	id := s.createCourse(t, token, "Go")
	s.createCourse(t, token, "Rust")
	res := s.do(t, http.MethodPatch, fmt.Sprintf("/api/courses/%d/publish", id), nil, token)
	require.Equal(t, http.StatusOK, res.status)

	var courses []map[string]interface{}
	s.do(t, http.MethodGet, "/api/courses?published=true", nil, "").decode(t, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go", courses[0]["title"])

	s.do(t, http.MethodGet, "/api/courses?search=rust", nil, "").decode(t, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, "Rust", courses[0]["title"])

	res = s.do(t, http.MethodGet, "/api/courses?level=expert", nil, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestCourseLifecycle(t *testing.T) {
	s := newServer(t)
	ownerID, owner := s.account(t, "owner", model.RoleInstructor)
	_, other := s.account(t, "other", model.RoleInstructor)
	studentID, student := s.account(t, "stu", model.RoleStudent)

	id := s.createCourse(t, owner, "Go")
	path := fmt.Sprintf("/api/courses/%d", id)

	res := s.do(t, http.MethodPatch, path, map[string]interface{}{"price": 25.5}, owner)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	updated := res.object(t)
	assert.Equal(t, 25.5, updated["price"])
	assert.Equal(t, "Go", updated["title"])

	res = s.do(t, http.MethodPut, path, map[string]interface{}{"title": "Go 2"}, owner)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 25.5, res.object(t)["price"])

	res = s.do(t, http.MethodPut, path, map[string]interface{}{"title": ""}, owner)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = s.do(t, http.MethodPut, path, map[string]interface{}{"title": "Stolen"}, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = s.do(t, http.MethodPatch, path+"/publish", nil, owner)
	require.Equal(t, http.StatusOK, res.status)
	publish := res.object(t)
	assert.Equal(t, "Course published successfully", publish["message"])
	assert.Equal(t, true, publish["course"].(map[string]interface{})["isPublished"])

	res = s.do(t, http.MethodPost, path+"/enroll", nil, student)
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	res = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	detail := res.object(t)
	assert.Equal(t, map[string]interface{}{"id": float64(ownerID), "name": "owner"}, detail["instructor"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": float64(studentID), "name": "stu"}}, detail["students"])
	assert.Equal(t, []interface{}{}, detail["lessons"])

	res = s.do(t, http.MethodGet, "/api/courses/instructor/my-courses", nil, owner)
	require.Equal(t, http.StatusOK, res.status)
	var mine []map[string]interface{}
	res.decode(t, &mine)
	assert.Len(t, mine, 1)

	res = s.do(t, http.MethodDelete, path, nil, other)
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, nil, "").status)

	res = s.do(t, http.MethodDelete, path, nil, owner)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil, "").status)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, owner).status)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/courses/abc", nil, "").status)
}

func TestCreateCourseValidation(t *testing.T) {
	s := newServer(t)
	_, token := s.account(t, "teach", model.RoleInstructor)

	res := s.do(t, http.MethodPost, "/api/courses", map[string]interface{}{
		"title": "No price", "description": "d", "category": "c",
	}, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Contains(t, res.object(t)["errors"], "price")

	res = s.do(t, http.MethodPost, "/api/courses", map[string]interface{}{
		"title": "Negative", "description": "d", "category": "c", "price": -1,
	}, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestCreateCourseMultipart(t *testing.T) {
	s := newServer(t)
	_, token := s.account(t, "teach", model.RoleInstructor)

	fields := map[string]string{
		"title":            "Design",
		"description":      "Visual design",
		"category":         "design",
		"price":            "0",
		"requirements":     `["a pencil"]`,
		"learningOutcomes": `["draw"]`,
	}

	req := multipartRequest(t, "/api/courses", fields, map[string][2]string{"thumbnail": {"cover.exe", "MZ"}})
	res := s.send(t, req, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Only image files are allowed", res.object(t)["message"])

	req = multipartRequest(t, "/api/courses", fields, map[string][2]string{"thumbnail": {"cover.png", "png-bytes"}})
	res = s.send(t, req, token)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	course := res.object(t)
	assert.Equal(t, []interface{}{"a pencil"}, course["requirements"])
	assert.Regexp(t, `^/uploads/thumbnails/cover_\d+_[0-9a-f]{8}\.png$`, course["thumbnail"])

	res = s.do(t, http.MethodGet, course["thumbnail"].(string), nil, "")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "png-bytes", string(res.body))
}

func TestDoubleEnrollmentIsRejected(t *testing.T) {
	s := newServer(t)
	_, owner := s.account(t, "owner", model.RoleInstructor)
	_, student := s.account(t, "stu", model.RoleStudent)
	id := s.createCourse(t, owner, "Go")
	path := fmt.Sprintf("/api/courses/%d/enroll", id)

	res := s.do(t, http.MethodPost, path, nil, student)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Enrolled successfully", res.object(t)["message"])

	res = s.do(t, http.MethodPost, path, nil, student)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Already enrolled", res.object(t)["message"])

	detail := s.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d", id), nil, "").object(t)
	assert.Len(t, detail["students"], 1)

	var enrolled []map[string]interface{}
	s.do(t, http.MethodGet, "/api/users/courses", nil, student).decode(t, &enrolled)
	require.Len(t, enrolled, 1)
	assert.EqualValues(t, id, enrolled[0]["id"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/courses/999/enroll", nil, student).status)
}

func TestUpdateCourseReplacesThumbnail(t *testing.T) {
	s := newServer(t)
	_, owner := s.account(t, "owner", model.RoleInstructor)
	_, other := s.account(t, "other", model.RoleInstructor)

	req := multipartRequest(t, "/api/courses", map[string]string{
		"title":       "Design",
		"description": "Visual design",
		"category":    "design",
		"price":       "0",
	}, map[string][2]string{"thumbnail": {"old.png", "old-bytes"}})
	res := s.send(t, req, owner)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	created := res.object(t)
	path := fmt.Sprintf("/api/courses/%v", created["id"])
	oldThumbnail := created["thumbnail"].(string)

	req = multipartRequestMethod(t, http.MethodPatch, path, nil, map[string][2]string{"thumbnail": {"new.gif", "x"}})
	res = s.send(t, req, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	req = multipartRequestMethod(t, http.MethodPatch, path, nil, map[string][2]string{"thumbnail": {"new.txt", "x"}})
	res = s.send(t, req, owner)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Only image files are allowed", res.object(t)["message"])

	req = multipartRequestMethod(t, http.MethodPatch, path,
		map[string]string{"title": "Design II", "price": "15"},
		map[string][2]string{"thumbnail": {"new.png", "new-bytes"}})
	res = s.send(t, req, owner)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	updated := res.object(t)
	assert.Equal(t, "Design II", updated["title"])
	assert.Equal(t, float64(15), updated["price"])
	assert.Equal(t, "Visual design", updated["description"])
	assert.Regexp(t, `^/uploads/thumbnails/new_\d+_[0-9a-f]{8}\.png$`, updated["thumbnail"])
	assert.NotContains(t, string(res.body), "thumbnailKey")

	res = s.do(t, http.MethodGet, updated["thumbnail"].(string), nil, "")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "new-bytes", string(res.body))

	res = s.do(t, http.MethodGet, oldThumbnail, nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, updated["thumbnail"], res.object(t)["thumbnail"])
}
