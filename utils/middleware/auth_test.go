package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/database/dbtest"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func authApp(db *gorm.DB, jwt *auth.JWTManager) *fiber.App {
	m := NewAuthMiddleware(jwt, db)
	app := fiber.New()
	app.Get("/me", m.Required(), func(c *fiber.Ctx) error {
		id, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		return c.JSON(fiber.Map{"id": id, "role": role})
	})
	app.Get("/admin", m.Required(), m.RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/things/:id", m.Required(), AdminAuditLog(db, "thing_delete", "things"), func(c *fiber.Ctx) error {
		if c.Params("id") == "404" {
			return c.SendStatus(fiber.StatusNotFound)
		}
		SetAuditOldValue(c, fiber.Map{"name": "thing"})
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func get(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func createUser(t *testing.T, db *gorm.DB, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestRequiredRejectsBadTokens(t *testing.T) {
	db := dbtest.NewDB(t)
	jwt := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Issuer: "test"})
	app := authApp(db, jwt)
	user := createUser(t, db, "a@example.com", model.RoleStudent)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, http.MethodGet, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, http.MethodGet, "/me", "junk"))

	other := auth.NewJWTManager(auth.JWTConfig{Secret: "other", Issuer: "test"})
	forged, _, err := other.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, http.MethodGet, "/me", forged))

	token, jti, err := jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(t, app, http.MethodGet, "/me", token))

	require.NoError(t, auth.NewBlacklistService(db).RevokeToken(context.Background(), jti, user.ID, time.Now().Add(time.Hour), "logout"))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, http.MethodGet, "/me", token))
}

func TestRequiredUsesStoredRole(t *testing.T) {
	db := dbtest.NewDB(t)
	jwt := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Issuer: "test"})
	app := authApp(db, jwt)
	user := createUser(t, db, "a@example.com", model.RoleStudent)

	// A token minted while the user looked like an admin
	stale := *user
	stale.Role = model.RoleAdmin
	token, _, err := jwt.GenerateAccessToken(&stale)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(t, app, http.MethodGet, "/admin", token))

	require.NoError(t, db.Model(user).Update("role", model.RoleAdmin).Error)
	assert.Equal(t, http.StatusOK, get(t, app, http.MethodGet, "/admin", token))
}

func TestAdminAuditLogRecordsOnlySuccess(t *testing.T) {
	db := dbtest.NewDB(t)
	jwt := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Issuer: "test"})
	app := authApp(db, jwt)
	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	token, _, err := jwt.GenerateAccessToken(admin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, app, http.MethodDelete, "/things/404", token))
	assert.Equal(t, http.StatusOK, get(t, app, http.MethodDelete, "/things/7", token))

	var logs []model.AdminAuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, admin.ID, logs[0].AdminID)
	assert.Equal(t, "thing_delete", logs[0].Action)
	assert.Equal(t, "things", logs[0].Resource)
	assert.EqualValues(t, 7, logs[0].ResourceID)
	assert.Equal(t, "DELETE /things/7", logs[0].Description)
	assert.JSONEq(t, `{"name":"thing"}`, string(logs[0].OldValue))
}
