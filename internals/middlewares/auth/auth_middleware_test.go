package auth

import (
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	userModel "thinkfinity_backend/internals/features/users/model"
)

var testDBSeq atomic.Int64

func newAuthTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&userModel.UserModel{}, &userModel.SessionModel{}))

	app := fiber.New()
	app.Get("/protected", AuthMiddleware(db), func(c *fiber.Ctx) error {
		if user, err := CurrentUser(c); err == nil {
			return c.SendString(user.Username)
		}
		return c.SendString("anonymous")
	})
	return app, db
}

func seedSession(t *testing.T, db *gorm.DB, username, token string, expiresAt time.Time) {
	t.Helper()

	u := userModel.UserModel{
		UUID:     "usr_" + username,
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&userModel.SessionModel{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}).Error)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UnknownToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-session")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app, db := newAuthTestApp(t)
	seedSession(t, db, "alice", "stale-token", time.Now().Add(-time.Minute))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	app, db := newAuthTestApp(t)
	seedSession(t, db, "alice", "live-token", time.Now().Add(time.Hour))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer live-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_QueryTokenFallback(t *testing.T) {
	app, db := newAuthTestApp(t)
	seedSession(t, db, "alice", "live-token", time.Now().Add(time.Hour))

	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodGet, "/protected?token=live-token", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_SkipsPublicExploreAction(t *testing.T) {
	app, _ := newAuthTestApp(t)

	// A whitelisted action passes through without a session; the handler
	// just sees no identity.
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodGet, "/protected?action=get_explore_classes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
