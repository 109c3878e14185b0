package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentController "thinkfinity_backend/internals/features/assignments/controller"
	classController "thinkfinity_backend/internals/features/classes/controller"
	dashboardController "thinkfinity_backend/internals/features/dashboard/controller"
	messageController "thinkfinity_backend/internals/features/messages/controller"
	authMiddleware "thinkfinity_backend/internals/middlewares/auth"
)

// ClassesRoutes mounts the action-keyed classroom API on /api/classes.
// The client selects the operation with ?action=...; GET and POST share
// the dispatcher, every other verb gets a 405.
func ClassesRoutes(app *fiber.App, db *gorm.DB) {
	classCtrl := classController.NewClassController(db)
	assignmentCtrl := assignmentController.NewAssignmentController(db)
	messageCtrl := messageController.NewMessageController(db)
	dashboardCtrl := dashboardController.NewDashboardController(db)

	dispatch := func(c *fiber.Ctx) error {
		switch c.Query("action") {
		case "create_class":
			return classCtrl.CreateClass(c)
		case "join_class":
			return classCtrl.JoinClass(c)
		case "get_user_classes":
			return classCtrl.GetUserClasses(c)
		case "get_teaching_classes":
			return classCtrl.GetTeachingClasses(c)
		case "get_explore_classes":
			return classCtrl.GetExploreClasses(c)
		case "get_class_details":
			return classCtrl.GetClassDetails(c)
		case "post_message":
			return messageCtrl.PostClassMessage(c)
		case "get_chat_messages":
			return messageCtrl.GetChatMessages(c)
		case "create_assignment":
			return assignmentCtrl.CreateAssignment(c)
		case "get_assignments":
			return assignmentCtrl.GetClassAssignments(c)
		case "submit_assignment":
			return assignmentCtrl.SubmitAssignment(c)
		case "grade_submission":
			return assignmentCtrl.GradeSubmission(c)
		case "get_upcoming_tasks":
			return dashboardCtrl.GetUpcomingTasks(c)
		case "get_recent_activity":
			return dashboardCtrl.GetRecentActivity(c)
		default:
			return fiber.NewError(fiber.StatusNotFound, "Unknown action")
		}
	}

	api := app.Group("/api/classes", authMiddleware.AuthMiddleware(db))
	api.Get("/", dispatch)
	api.Post("/", dispatch)

	app.All("/api/classes", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusMethodNotAllowed, "Method not allowed")
	})
}
