package details

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignment_PublishPostsAnnouncement(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_chat_messages&classId="+itoa(classID)+"&channel=general",
		studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	m := messages[0].(map[string]any)
	assert.Equal(t, "announcement", m["messageType"])
	assert.Contains(t, m["message"], "New assignment: HW1. Due: ")

	// The announcement also shows on the class page.
	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_class_details&id="+itoa(classID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	recent := body["recentMessages"].([]any)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0].(map[string]any)["message"], "New assignment: HW1")
}

func TestCreateAssignment_StudentForbidden(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	status, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=create_assignment", studentToken,
		fiber.Map{
			"classId": classID,
			"title":   "HW1",
			"dueDate": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		})

	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to create assignments", body["message"])
}

func TestCreateAssignment_MissingFields(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")

	classID, _ := createClass(t, app, teacherToken, "Algebra I", "private")

	status, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=create_assignment", teacherToken,
		fiber.Map{"classId": classID, "title": "HW1"})

	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Class ID, title, and due date are required", body["message"])
}

func TestGetAssignments_DraftsHiddenFromStudents(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	createAssignment(t, app, teacherToken, classID, "Published HW", time.Now().Add(48*time.Hour), "published")
	createAssignment(t, app, teacherToken, classID, "Draft HW", time.Now().Add(72*time.Hour), "draft")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assignments := body["assignments"].([]any)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Published HW", assignments[0].(map[string]any)["title"])

	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), teacherToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["assignments"].([]any), 2)
}

func TestGetAssignments_RequiresMembership(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, outsiderToken := seedUser(t, db, "outsider")

	classID, _ := createClass(t, app, teacherToken, "Algebra I", "private")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), outsiderToken, nil)

	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "You are not a member of this class", body["message"])
}

func TestGetAssignments_OverdueFlag(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)

	pastID := createAssignment(t, app, teacherToken, classID, "Missed HW", time.Now().Add(-time.Hour), "published")
	createAssignment(t, app, teacherToken, classID, "Future HW", time.Now().Add(48*time.Hour), "published")

	status, body := doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	byTitle := map[string]map[string]any{}
	for _, a := range body["assignments"].([]any) {
		row := a.(map[string]any)
		byTitle[row["title"].(string)] = row
	}
	assert.Equal(t, true, byTitle["Missed HW"]["isOverdue"])
	assert.Equal(t, false, byTitle["Future HW"]["isOverdue"])

	// A late submission still clears the overdue flag.
	code2, _ := submitAssignment(t, app, studentToken, pastID)
	require.Equal(t, fiber.StatusOK, code2)

	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	for _, a := range body["assignments"].([]any) {
		row := a.(map[string]any)
		if row["title"] == "Missed HW" {
			assert.Equal(t, false, row["isOverdue"])
		}
	}
}

func TestSubmitAssignment_OnTime(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, body := submitAssignment(t, app, studentToken, assignmentID)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Assignment submitted successfully", body["message"])
	submission := body["submission"].(map[string]any)
	assert.Equal(t, "submitted", submission["status"])
}

func TestSubmitAssignment_PastDueIsLate(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(-time.Hour), "published")

	status, body := submitAssignment(t, app, studentToken, assignmentID)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "late", body["submission"].(map[string]any)["status"])
}

func TestSubmitAssignment_TeacherForbidden(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")

	classID, _ := createClass(t, app, teacherToken, "Algebra I", "private")
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, body := submitAssignment(t, app, teacherToken, assignmentID)

	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Only students can submit assignments", body["message"])
}

func TestGradeSubmission_LocksAndNotifiesStudent(t *testing.T) {
	app, db := newTestEnv(t)
	teacher, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, body := submitAssignment(t, app, studentToken, assignmentID)
	require.Equal(t, fiber.StatusOK, status)
	submissionID := uint64(body["submission"].(map[string]any)["id"].(float64))

	status, body = doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=grade_submission", teacherToken,
		fiber.Map{"submissionId": submissionID, "grade": 95, "feedback": "Nice work"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Submission graded successfully", body["message"])

	// Grading is terminal.
	status, body = submitAssignment(t, app, studentToken, assignmentID)
	require.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Cannot update submission after it has been graded", body["message"])

	// The grade is visible on the assignment list.
	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_assignments&classId="+itoa(classID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	sub := body["assignments"].([]any)[0].(map[string]any)["submission"].(map[string]any)
	assert.Equal(t, "graded", sub["status"])
	assert.Equal(t, float64(95), sub["grade"])

	// The student gets a private note, invisible on the broadcast channel.
	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_chat_messages&classId="+itoa(classID)+
			"&channel=direct&recipientId="+itoa(teacher.ID),
		studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	direct := body["messages"].([]any)
	require.Len(t, direct, 1)
	note := direct[0].(map[string]any)["message"].(string)
	assert.Contains(t, note, "95")
	assert.Contains(t, note, "Nice work")

	status, body = doRequest(t, app, fiber.MethodGet,
		"/api/classes?action=get_chat_messages&classId="+itoa(classID)+"&channel=general",
		studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	for _, m := range body["messages"].([]any) {
		assert.NotContains(t, m.(map[string]any)["message"], "graded")
	}
}

func TestGradeSubmission_StudentForbidden(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")
	_, studentToken := seedUser(t, db, "student1")

	classID, code := createClass(t, app, teacherToken, "Algebra I", "private")
	joinClass(t, app, studentToken, code)
	assignmentID := createAssignment(t, app, teacherToken, classID, "HW1", time.Now().Add(48*time.Hour), "published")

	status, body := submitAssignment(t, app, studentToken, assignmentID)
	require.Equal(t, fiber.StatusOK, status)
	submissionID := uint64(body["submission"].(map[string]any)["id"].(float64))

	status, body = doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=grade_submission", studentToken,
		fiber.Map{"submissionId": submissionID, "grade": 100})

	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to grade submissions", body["message"])
}

func TestGradeSubmission_UnknownSubmission(t *testing.T) {
	app, db := newTestEnv(t)
	_, teacherToken := seedUser(t, db, "teacher1")

	createClass(t, app, teacherToken, "Algebra I", "private")

	status, body := doRequest(t, app, fiber.MethodPost,
		"/api/classes?action=grade_submission", teacherToken,
		fiber.Map{"submissionId": 999, "grade": 80})

	require.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Submission not found", body["message"])
}
