package controller

import (
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentModel "thinkfinity_backend/internals/features/assignments/model"
	"thinkfinity_backend/internals/features/dashboard/dto"
	authmw "thinkfinity_backend/internals/middlewares/auth"

	helper "thinkfinity_backend/internals/helpers"
)

/* ================= Controller & Constructor ================= */

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

const (
	upcomingTasksLimit = 5
	activityFeedLimit  = 5
	taskDueDateLayout  = "January 2, 3:04 PM"
)

/* ================= Handlers ================= */

// action=get_upcoming_tasks (GET). Published, not-yet-due assignments
// across all of the caller's classes, closest deadline first.
func (ctrl *DashboardController) GetUpcomingTasks(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	type taskRow struct {
		ID               uint64    `gorm:"column:id"`
		Title            string    `gorm:"column:title"`
		DueDate          time.Time `gorm:"column:due_date"`
		ClassName        string    `gorm:"column:class_name"`
		ClassID          uint64    `gorm:"column:class_id"`
		SubmissionStatus *string   `gorm:"column:submission_status"`
	}

	now := time.Now()

	var rows []taskRow
	err = ctrl.DB.Table("class_assignments AS a").
		Select("a.id, a.title, a.due_date, c.name AS class_name, c.id AS class_id, s.status AS submission_status").
		Joins("JOIN classes AS c ON c.id = a.class_id").
		Joins("JOIN class_members AS cm ON cm.class_id = c.id").
		Joins("LEFT JOIN assignment_submissions AS s ON s.assignment_id = a.id AND s.user_id = ?", user.ID).
		Where("cm.user_id = ? AND a.status = ? AND a.due_date > ?", user.ID, assignmentModel.StatusPublished, now).
		Order("a.due_date ASC").
		Limit(upcomingTasksLimit).
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ERROR] fetch upcoming tasks: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch tasks")
	}

	tasks := make([]dto.UpcomingTask, 0, len(rows))
	for _, r := range rows {
		completed := r.SubmissionStatus != nil &&
			(*r.SubmissionStatus == assignmentModel.SubmissionSubmitted ||
				*r.SubmissionStatus == assignmentModel.SubmissionGraded)
		tasks = append(tasks, dto.UpcomingTask{
			ID:        r.ID,
			Name:      r.Title,
			ClassName: r.ClassName,
			ClassID:   r.ClassID,
			DueDate:   r.DueDate.Format(taskDueDateLayout),
			Priority:  taskPriority(r.DueDate, now),
			Completed: completed,
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"tasks": tasks})
}

func taskPriority(due, now time.Time) string {
	switch until := due.Sub(now); {
	case until <= 24*time.Hour:
		return "high"
	case until <= 72*time.Hour:
		return "medium"
	default:
		return "low"
	}
}

// action=get_recent_activity (GET). Merges announcements, fresh
// assignments, the caller's own submissions and class joins into one
// feed, newest first.
func (ctrl *DashboardController) GetRecentActivity(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	type activityRow struct {
		Message    string    `gorm:"column:message"`
		ClassName  string    `gorm:"column:class_name"`
		ClassID    uint64    `gorm:"column:class_id"`
		OccurredAt time.Time `gorm:"column:occurred_at"`
	}

	type rawActivity struct {
		kind       string
		message    string
		className  string
		classID    uint64
		occurredAt time.Time
	}

	var feed []rawActivity
	collect := func(kind string, rows []activityRow, render func(activityRow) string) {
		for _, r := range rows {
			feed = append(feed, rawActivity{
				kind:       kind,
				message:    render(r),
				className:  r.ClassName,
				classID:    r.ClassID,
				occurredAt: r.OccurredAt,
			})
		}
	}

	var announcements []activityRow
	err = ctrl.DB.Table("class_messages AS m").
		Select("m.message, c.name AS class_name, c.id AS class_id, m.created_at AS occurred_at").
		Joins("JOIN classes AS c ON c.id = m.class_id").
		Joins("JOIN class_members AS cm ON cm.class_id = c.id AND cm.user_id = ?", user.ID).
		Where("m.message_type = ?", "announcement").
		Order("m.created_at DESC").
		Limit(3).
		Scan(&announcements).Error
	if err != nil {
		log.Printf("[ERROR] fetch announcements: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch activities")
	}
	collect("announcement", announcements, func(r activityRow) string {
		return r.Message
	})

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)

	var newAssignments []activityRow
	err = ctrl.DB.Table("class_assignments AS a").
		Select("a.title AS message, c.name AS class_name, c.id AS class_id, a.created_at AS occurred_at").
		Joins("JOIN classes AS c ON c.id = a.class_id").
		Joins("JOIN class_members AS cm ON cm.class_id = c.id AND cm.user_id = ?", user.ID).
		Where("a.created_at > ?", weekAgo).
		Order("a.created_at DESC").
		Limit(3).
		Scan(&newAssignments).Error
	if err != nil {
		log.Printf("[ERROR] fetch new assignments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch activities")
	}
	collect("task_added", newAssignments, func(r activityRow) string {
		return "New assignment added: \"" + r.Message + "\""
	})

	var submissions []activityRow
	err = ctrl.DB.Table("assignment_submissions AS s").
		Select("a.title AS message, c.name AS class_name, c.id AS class_id, s.submission_date AS occurred_at").
		Joins("JOIN class_assignments AS a ON a.id = s.assignment_id").
		Joins("JOIN classes AS c ON c.id = a.class_id").
		Where("s.user_id = ? AND s.status = ?", user.ID, assignmentModel.SubmissionSubmitted).
		Order("s.submission_date DESC").
		Limit(3).
		Scan(&submissions).Error
	if err != nil {
		log.Printf("[ERROR] fetch submissions: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch activities")
	}
	collect("task_completed", submissions, func(r activityRow) string {
		return "You completed the assignment: \"" + r.Message + "\""
	})

	var joins []activityRow
	err = ctrl.DB.Table("class_members AS cm").
		Select("c.name AS message, c.name AS class_name, c.id AS class_id, cm.joined_at AS occurred_at").
		Joins("JOIN classes AS c ON c.id = cm.class_id").
		Where("cm.user_id = ?", user.ID).
		Order("cm.joined_at DESC").
		Limit(2).
		Scan(&joins).Error
	if err != nil {
		log.Printf("[ERROR] fetch joins: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch activities")
	}
	collect("class_joined", joins, func(r activityRow) string {
		return "You joined the class: \"" + r.ClassName + "\""
	})

	// Sort on the real timestamps before they are collapsed into
	// relative labels.
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].occurredAt.After(feed[j].occurredAt)
	})
	if len(feed) > activityFeedLimit {
		feed = feed[:activityFeedLimit]
	}

	activities := make([]dto.ActivityItem, 0, len(feed))
	for _, a := range feed {
		activities = append(activities, dto.ActivityItem{
			Type:      a.kind,
			Message:   a.message,
			ClassName: a.className,
			ClassID:   a.classID,
			Time:      helper.TimeAgo(a.occurredAt),
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"activities": activities})
}
