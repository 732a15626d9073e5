package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/api"
	"github.com/sahilchouksey/learnhub-api/database/dbtest"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testServer struct {
	app  *fiber.App
	db   *gorm.DB
	logs *observer.ObservedLogs
}

func newServer(t *testing.T) *testServer {
	return newServerWith(t, nil)
}

// newServerWith lets a test adjust the router options before the routes are mounted
func newServerWith(t *testing.T, configure func(db *gorm.DB, opts *Options)) *testServer {
	t.Helper()
	store := dbtest.NewStore(t)

	uploader, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	opts := Options{
		JWTSecret: "test-secret",
		JWTIssuer: "learnhub-test",
		Uploader:  uploader,
		UploadDir: uploader.Dir(),
		Logger:    utils.NewLoggerFromZap(zap.New(core)),
	}
	if configure != nil {
		configure(store.GetDB(), &opts)
	}

	app := api.NewApp(opts.Logger)
	require.NoError(t, SetupRoutes(app, store, opts))

	return &testServer{app: app, db: store.GetDB(), logs: logs}
}

// closeStore closes the connection pool under the running app
func (s *testServer) closeStore(t *testing.T) {
	t.Helper()
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

type result struct {
	status int
	body   []byte
}

func (r result) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r result) object(t *testing.T) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	r.decode(t, &m)
	return m
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) result {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, body: body}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) result {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

// multipartRequest builds a multipart POST from fields and files (name -> filename, content)
func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string][2]string) *http.Request {
	return multipartRequestMethod(t, http.MethodPost, path, fields, files)
}

func multipartRequestMethod(t *testing.T, method, path string, fields map[string]string, files map[string][2]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, file := range files {
		part, err := w.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

// account registers (or for admins creates) a user and returns a login token
func (s *testServer) account(t *testing.T, name string, role model.Role) (uint, string) {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", name)

	if role == model.RoleAdmin {
		_, _, err := services.NewUserService(s.db).CreateAdmin(context.Background(), name, email, "password123")
		require.NoError(t, err)
	} else {
		res := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
			"name": name, "email": email, "password": "password123", "role": string(role),
		}, "")
		require.Equal(t, http.StatusCreated, res.status, string(res.body))
	}

	res := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	res.decode(t, &login)
	require.NotEmpty(t, login.Token)
	return login.User.ID, login.Token
}

func (s *testServer) createCourse(t *testing.T, token, title string) uint {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/courses", map[string]interface{}{
		"title":       title,
		"description": "About " + title,
		"category":    "programming",
		"price":       10,
	}, token)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))

	var course model.Course
	res.decode(t, &course)
	return course.ID
}

func (s *testServer) createLesson(t *testing.T, token string, courseID uint, title string) uint {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/lessons", map[string]interface{}{
		"title": title, "content": "body", "courseId": courseID,
	}, token)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))

	var lesson model.Lesson
	res.decode(t, &lesson)
	return lesson.ID
}

func errorCode(t *testing.T, r result) string {
	t.Helper()
	code, _ := r.object(t)["code"].(string)
	return code
}

func containsFold(body []byte, needle string) bool {
	return strings.Contains(strings.ToLower(string(body)), strings.ToLower(needle))
}
