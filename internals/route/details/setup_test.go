package details

import (
	"bytes"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "thinkfinity_backend/internals/databases"
	userModel "thinkfinity_backend/internals/features/users/model"
	"thinkfinity_backend/internals/middlewares"
)

var testDBSeq atomic.Int64

// newTestEnv spins up the classroom API against a private in-memory
// database.
func newTestEnv(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middlewares.ErrorHandler,
	})
	ClassesRoutes(app, db)
	return app, db
}

// seedUser creates a user plus a live session, returning the bearer token.
func seedUser(t *testing.T, db *gorm.DB, username string) (userModel.UserModel, string) {
	t.Helper()

	u := userModel.UserModel{
		UUID:     "usr_" + uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(&u).Error)

	token := "tok-" + uuid.NewString()
	s := userModel.SessionModel{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&s).Error)
	return u, token
}

// doRequest performs one API call and decodes the JSON envelope.
func doRequest(t *testing.T, app *fiber.App, method, target, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

/* ========== scenario shortcuts ========== */

func createClass(t *testing.T, app *fiber.App, token, name, visibility string) (uint64, string) {
	t.Helper()

	status, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=create_class", token,
		fiber.Map{"name": name, "visibility": visibility})
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, true, body["success"])

	return uint64(body["classId"].(float64)), body["classCode"].(string)
}

func joinClass(t *testing.T, app *fiber.App, token, code string) {
	t.Helper()

	status, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=join_class", token,
		fiber.Map{"classCode": code})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["success"])
}

func createAssignment(t *testing.T, app *fiber.App, token string, classID uint64, title string, due time.Time, status string) uint64 {
	t.Helper()

	payload := fiber.Map{
		"classId": classID,
		"title":   title,
		"dueDate": due.Format(time.RFC3339),
	}
	if status != "" {
		payload["status"] = status
	}
	code, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=create_assignment", token, payload)
	require.Equal(t, fiber.StatusCreated, code)

	assignment := body["assignment"].(map[string]any)
	return uint64(assignment["id"].(float64))
}

func submitAssignment(t *testing.T, app *fiber.App, token string, assignmentID uint64) (int, map[string]any) {
	t.Helper()

	return doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=submit_assignment", token,
		fiber.Map{"assignmentId": assignmentID, "content": "my answer"})
}
