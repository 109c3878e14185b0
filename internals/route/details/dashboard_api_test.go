package details

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUpcomingTasks_PriorityBuckets(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	createAssignment(t, app, teacherToken, classID, "Due tomorrow", time.Now().Add(10*time.Hour), "published")
	createAssignment(t, app, teacherToken, classID, "Due this week", time.Now().Add(60*time.Hour), "published")
	createAssignment(t, app, teacherToken, classID, "Due later", time.Now().Add(120*time.Hour), "published")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_upcoming_tasks", studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 3)

	// Ordered by due date, priorities derived from how close it is.
	first := tasks[0].(map[string]any)
	assert.Equal(t, "Due tomorrow", first["name"])
	assert.Equal(t, "high", first["priority"])
	assert.Equal(t, "Algebra I", first["className"])
	assert.Equal(t, false, first["completed"])

	assert.Equal(t, "medium", tasks[1].(map[string]any)["priority"])
	assert.Equal(t, "low", tasks[2].(map[string]any)["priority"])
}

func TestGetUpcomingTasks_CompletedAfterSubmit(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, _ := submitAssignment(t, app, studentToken, assignmentID)
	require.Equal(t, fiber.StatusOK, status)

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_upcoming_tasks", studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, true, tasks[0].(map[string]any)["completed"])
}

func TestGetUpcomingTasks_SkipsDraftsAndPastDue(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	createAssignment(t, app, teacherToken, classID, "Old HW", time.Now().Add(-time.Hour), "published")
	createAssignment(t, app, teacherToken, classID, "Hidden HW", time.Now().Add(48*time.Hour), "draft")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_upcoming_tasks", studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["tasks"].([]any))
}

func TestGetRecentActivity_MergesSources(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, _ := submitAssignment(t, app, studentToken, assignmentID)
	require.Equal(t, fiber.StatusOK, status)

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_recent_activity", studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	activities := body["activities"].([]any)
	require.NotEmpty(t, activities)
	assert.LessOrEqual(t, len(activities), 5)

	byType := map[string]map[string]any{}
	for _, a := range activities {
		row := a.(map[string]any)
		byType[row["type"].(string)] = row
	}

	require.Contains(t, byType, "class_joined")
	assert.Equal(t, `You joined the class: "Algebra I"`, byType["class_joined"]["message"])

	require.Contains(t, byType, "task_added")
	assert.Equal(t, `New assignment added: "HW1"`, byType["task_added"]["message"])

	require.Contains(t, byType, "task_completed")
	assert.Equal(t, `You completed the assignment: "HW1"`, byType["task_completed"]["message"])

	require.Contains(t, byType, "announcement")
	assert.Contains(t, byType["announcement"]["message"], "New assignment: HW1")

	for _, row := range byType {
		assert.Equal(t, "Algebra I", row["className"])
		assert.Equal(t, float64(classID), row["classId"])
		assert.Equal(t, "Just now", row["time"])
	}
}

func TestGetRecentActivity_EmptyForNewUser(t *testing.T) {
	app, db := newTestEnv(t)
	_, token := seedUser(t, db, "loner")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_recent_activity", token, nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["activities"].([]any))
}
