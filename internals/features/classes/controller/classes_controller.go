package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"thinkfinity_backend/internals/features/classes/dto"
	"thinkfinity_backend/internals/features/classes/model"
	"thinkfinity_backend/internals/features/classes/service"
	messageDTO "thinkfinity_backend/internals/features/messages/dto"
	authmw "thinkfinity_backend/internals/middlewares/auth"

	helper "thinkfinity_backend/internals/helpers"
)

/* ================= Controller & Constructor ================= */

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

// single validator instance for this package
var validate = validator.New()

const exploreLimit = 50

/* ================= Handlers ================= */

// action=create_class (POST)
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class name is required")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel()
	m.TeacherID = user.ID
	m.UUID = "cls_" + uuid.NewString()

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Probe until the generated code is free. The column stays unique, so a
	// concurrent winner shows up as an insert conflict below.
	for {
		code := helper.GenerateClassCode()
		var cnt int64
		if err := tx.Model(&model.ClassModel{}).
			Where("class_code = ?", code).
			Count(&cnt).Error; err != nil {
			tx.Rollback()
			log.Printf("[ERROR] class code probe: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
		}
		if cnt == 0 {
			m.ClassCode = code
			break
		}
	}

	if err := tx.Create(m).Error; err != nil {
		tx.Rollback()
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate") || strings.Contains(low, "unique") {
			return fiber.NewError(fiber.StatusConflict, "Class code collision, please try again")
		}
		log.Printf("[ERROR] create class: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}

	// The owner is always present in the roster as a teacher-role row.
	member := model.ClassMemberModel{
		ClassID: m.ID,
		UserID:  user.ID,
		Role:    model.RoleTeacher,
	}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		log.Printf("[ERROR] create teacher membership: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("[ERROR] commit create class: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}

	return helper.JsonCreated(c, "Class created successfully", fiber.Map{
		"classId":   m.ID,
		"classCode": m.ClassCode,
		"classData": dto.ClassSummary{
			ID:            m.ID,
			UUID:          m.UUID,
			Name:          m.Name,
			Description:   m.Description,
			Teacher:       user.Username,
			Category:      m.Category,
			Level:         m.Level,
			Color:         m.Color,
			CoverImage:    m.CoverImage,
			Visibility:    m.Visibility,
			Status:        m.Status,
			StudentsCount: 1,
			ClassCode:     m.ClassCode,
		},
	})
}

// action=join_class (POST)
func (ctrl *ClassController) JoinClass(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.JoinClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if strings.TrimSpace(req.ClassCode) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class code is required")
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join class")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var cls model.ClassModel
	if err := tx.Where("class_code = ?", strings.TrimSpace(req.ClassCode)).
		Take(&cls).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Class not found. Please check the class code and try again.")
		}
		log.Printf("[ERROR] class lookup by code: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join class")
	}

	var existing int64
	if err := tx.Model(&model.ClassMemberModel{}).
		Where("class_id = ? AND user_id = ?", cls.ID, user.ID).
		Count(&existing).Error; err != nil {
		tx.Rollback()
		log.Printf("[ERROR] membership check: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join class")
	}
	if existing > 0 {
		tx.Rollback()
		return fiber.NewError(fiber.StatusConflict, "You are already a member of this class.")
	}

	member := model.ClassMemberModel{
		ClassID: cls.ID,
		UserID:  user.ID,
		Role:    model.RoleStudent,
	}
	if err := tx.Create(&member).Error; err != nil {
		tx.Rollback()
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate") || strings.Contains(low, "unique") {
			return fiber.NewError(fiber.StatusConflict, "You are already a member of this class.")
		}
		log.Printf("[ERROR] create membership: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join class")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("[ERROR] commit join class: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join class")
	}

	var teacherName string
	ctrl.DB.Table("users").Select("username").
		Where("id = ?", cls.TeacherID).Scan(&teacherName)

	var studentsCount int64
	ctrl.DB.Model(&model.ClassMemberModel{}).
		Where("class_id = ?", cls.ID).Count(&studentsCount)

	return helper.JsonOK(c, "Successfully joined the class", fiber.Map{
		"classId": cls.ID,
		"classData": dto.ClassSummary{
			ID:            cls.ID,
			UUID:          cls.UUID,
			Name:          cls.Name,
			Description:   cls.Description,
			Teacher:       teacherName,
			Category:      cls.Category,
			Level:         cls.Level,
			Color:         cls.Color,
			CoverImage:    cls.CoverImage,
			Status:        cls.Status,
			StudentsCount: studentsCount,
		},
	})
}

/* ================= Listings ================= */

type classListRow struct {
	ID            uint64  `gorm:"column:id"`
	UUID          string  `gorm:"column:uuid"`
	Name          string  `gorm:"column:name"`
	Description   *string `gorm:"column:description"`
	TeacherName   string  `gorm:"column:teacher_name"`
	Category      *string `gorm:"column:category"`
	Level         *string `gorm:"column:level"`
	Color         string  `gorm:"column:color"`
	CoverImage    *string `gorm:"column:cover_image"`
	Status        string  `gorm:"column:status"`
	ClassCode     string  `gorm:"column:class_code"`
	StudentsCount int64   `gorm:"column:students_count"`
	TotalTasks    int64   `gorm:"column:total_tasks"`
	UrgentTasks   int64   `gorm:"column:urgent_tasks"`
}

// action=get_user_classes (GET): classes where the caller is enrolled as a
// student, annotated with open/urgent task counts.
func (ctrl *ClassController) GetUserClasses(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	now := time.Now()
	urgentCutoff := now.Add(48 * time.Hour)

	var rows []classListRow
	if err := ctrl.DB.Table("classes AS c").
		Select(`c.id, c.uuid, c.name, c.description, c.category, c.level, c.color,
			c.cover_image, c.status, c.class_code,
			u.username AS teacher_name,
			(SELECT COUNT(*) FROM class_members WHERE class_id = c.id) AS students_count,
			(SELECT COUNT(*) FROM class_assignments WHERE class_id = c.id AND due_date > ?) AS total_tasks,
			(SELECT COUNT(*) FROM class_assignments WHERE class_id = c.id AND due_date > ? AND due_date <= ?) AS urgent_tasks`,
			now, now, urgentCutoff).
		Joins("JOIN class_members AS cm ON cm.class_id = c.id").
		Joins("JOIN users AS u ON u.id = c.teacher_id").
		Where("cm.user_id = ? AND cm.role = ? AND c.status <> ?",
			user.ID, model.RoleStudent, model.StatusArchived).
		Order("c.updated_at DESC").
		Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] list user classes: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch classes")
	}

	classes := make([]dto.ClassSummary, 0, len(rows))
	for i := range rows {
		r := rows[i]
		classes = append(classes, dto.ClassSummary{
			ID:            r.ID,
			UUID:          r.UUID,
			Name:          r.Name,
			Description:   r.Description,
			Teacher:       r.TeacherName,
			Category:      r.Category,
			Level:         r.Level,
			Color:         r.Color,
			CoverImage:    r.CoverImage,
			Status:        r.Status,
			StudentsCount: r.StudentsCount,
			TotalTasks:    &rows[i].TotalTasks,
			UrgentTasks:   &rows[i].UrgentTasks,
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"classes": classes})
}

// action=get_teaching_classes (GET): classes owned by the caller; includes
// the join code.
func (ctrl *ClassController) GetTeachingClasses(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	now := time.Now()

	var rows []classListRow
	if err := ctrl.DB.Table("classes AS c").
		Select(`c.id, c.uuid, c.name, c.description, c.category, c.level, c.color,
			c.cover_image, c.status, c.class_code,
			(SELECT COUNT(*) FROM class_members WHERE class_id = c.id) AS students_count,
			(SELECT COUNT(*) FROM class_assignments WHERE class_id = c.id AND due_date > ?) AS total_tasks`,
			now).
		Where("c.teacher_id = ? AND c.status <> ?", user.ID, model.StatusArchived).
		Order("c.updated_at DESC").
		Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] list teaching classes: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch teaching classes")
	}

	classes := make([]dto.ClassSummary, 0, len(rows))
	for i := range rows {
		r := rows[i]
		classes = append(classes, dto.ClassSummary{
			ID:            r.ID,
			UUID:          r.UUID,
			Name:          r.Name,
			Description:   r.Description,
			Teacher:       "You",
			Category:      r.Category,
			Level:         r.Level,
			Color:         r.Color,
			CoverImage:    r.CoverImage,
			Status:        r.Status,
			StudentsCount: r.StudentsCount,
			TotalTasks:    &rows[i].TotalTasks,
			ClassCode:     r.ClassCode,
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"classes": classes})
}

// action=get_explore_classes (GET, no auth): public active classes with
// optional category/level filters and a free-text search across
// name/description/teacher name.
func (ctrl *ClassController) GetExploreClasses(c *fiber.Ctx) error {
	var q dto.ExploreClassQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	base := ctrl.DB.Table("classes AS c").
		Select(`c.id, c.uuid, c.name, c.description, c.category, c.level, c.color,
			c.cover_image, c.status,
			u.username AS teacher_name,
			(SELECT COUNT(*) FROM class_members WHERE class_id = c.id) AS students_count`).
		Joins("JOIN users AS u ON u.id = c.teacher_id").
		Where("c.visibility = ? AND c.status = ?", model.VisibilityPublic, model.StatusActive)

	if q.Category != "" {
		base = base.Where("c.category = ?", q.Category)
	}
	if q.Level != "" {
		base = base.Where("c.level = ?", q.Level)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		base = base.Where(
			"(LOWER(c.name) LIKE ? OR LOWER(c.description) LIKE ? OR LOWER(u.username) LIKE ?)",
			like, like, like,
		)
	}

	var rows []classListRow
	if err := base.
		Order("students_count DESC, c.created_at DESC").
		Limit(exploreLimit).
		Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] explore classes: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch classes")
	}

	classes := make([]dto.ClassSummary, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, dto.ClassSummary{
			ID:            r.ID,
			UUID:          r.UUID,
			Name:          r.Name,
			Description:   r.Description,
			Teacher:       r.TeacherName,
			Category:      r.Category,
			Level:         r.Level,
			Color:         r.Color,
			CoverImage:    r.CoverImage,
			Status:        r.Status,
			StudentsCount: r.StudentsCount,
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"classes": classes})
}

/* ================= Details ================= */

// action=get_class_details (GET ?id=): full class page payload. Members see
// everything; non-members only get in when the class is public, and then as
// role "viewer". The join code is teacher-only.
func (ctrl *ClassController) GetClassDetails(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	idStr := strings.TrimSpace(c.Query("id"))
	if idStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class ID is required")
	}
	classID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid class ID")
	}

	userRole, err := service.RoleInClass(ctrl.DB, classID, user.ID)
	if err != nil {
		log.Printf("[ERROR] role lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	var cls model.ClassModel
	if err := ctrl.DB.Take(&cls, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		log.Printf("[ERROR] class lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	if userRole == "" {
		if cls.Visibility != model.VisibilityPublic {
			return fiber.NewError(fiber.StatusForbidden, "You do not have access to this class")
		}
		userRole = model.RoleViewer
	}

	type teacherRow struct {
		Username     string  `gorm:"column:username"`
		ProfileImage *string `gorm:"column:profile_image"`
	}
	var teacher teacherRow
	if err := ctrl.DB.Table("users").
		Select("username, profile_image").
		Where("id = ?", cls.TeacherID).
		Scan(&teacher).Error; err != nil {
		log.Printf("[ERROR] teacher lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	var studentsCount int64
	ctrl.DB.Model(&model.ClassMemberModel{}).
		Where("class_id = ?", classID).Count(&studentsCount)

	// Next 5 published assignments still ahead of their due date.
	now := time.Now()
	type upcomingRow struct {
		ID               uint64    `gorm:"column:id"`
		Title            string    `gorm:"column:title"`
		Description      *string   `gorm:"column:description"`
		DueDate          time.Time `gorm:"column:due_date"`
		Points           int       `gorm:"column:points"`
		CreatedByName    string    `gorm:"column:created_by_name"`
		SubmissionsCount int64     `gorm:"column:submissions_count"`
		CreatedAt        time.Time `gorm:"column:created_at"`
	}
	var upcomingRows []upcomingRow
	if err := ctrl.DB.Table("class_assignments AS a").
		Select(`a.id, a.title, a.description, a.due_date, a.points, a.created_at,
			u.username AS created_by_name,
			(SELECT COUNT(*) FROM assignment_submissions WHERE assignment_id = a.id) AS submissions_count`).
		Joins("JOIN users AS u ON u.id = a.created_by").
		Where("a.class_id = ? AND a.status = ? AND a.due_date > ?",
			classID, "published", now).
		Order("a.due_date ASC").
		Limit(5).
		Scan(&upcomingRows).Error; err != nil {
		log.Printf("[ERROR] upcoming assignments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	upcoming := make([]dto.UpcomingAssignmentResponse, 0, len(upcomingRows))
	for _, r := range upcomingRows {
		upcoming = append(upcoming, dto.UpcomingAssignmentResponse{
			ID:               r.ID,
			Title:            r.Title,
			Description:      r.Description,
			DueDate:          r.DueDate,
			Points:           r.Points,
			CreatedBy:        r.CreatedByName,
			SubmissionsCount: r.SubmissionsCount,
			CreatedAt:        r.CreatedAt,
		})
	}

	// Last 10 stream messages the caller is allowed to see.
	type messageRow struct {
		ID           uint64    `gorm:"column:id"`
		Message      string    `gorm:"column:message"`
		MessageType  string    `gorm:"column:message_type"`
		IsPrivate    bool      `gorm:"column:is_private"`
		CreatedAt    time.Time `gorm:"column:created_at"`
		UserID       uint64    `gorm:"column:user_id"`
		Username     string    `gorm:"column:username"`
		ProfileImage *string   `gorm:"column:profile_image"`
	}
	var messageRows []messageRow
	if err := ctrl.DB.Table("class_messages AS m").
		Select("m.id, m.message, m.message_type, m.is_private, m.created_at, m.user_id, u.username, u.profile_image").
		Joins("JOIN users AS u ON u.id = m.user_id").
		Where("m.class_id = ? AND (m.is_private = ? OR m.recipient_id = ?)",
			classID, false, user.ID).
		Order("m.created_at DESC").
		Limit(10).
		Scan(&messageRows).Error; err != nil {
		log.Printf("[ERROR] recent messages: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	recentMessages := make([]messageDTO.MessageResponse, 0, len(messageRows))
	for _, r := range messageRows {
		recentMessages = append(recentMessages, messageDTO.MessageResponse{
			ID:          r.ID,
			Message:     r.Message,
			MessageType: r.MessageType,
			IsPrivate:   r.IsPrivate,
			CreatedAt:   r.CreatedAt,
			User: messageDTO.MessageAuthor{
				ID:           r.UserID,
				Username:     r.Username,
				ProfileImage: r.ProfileImage,
			},
		})
	}

	type memberRow struct {
		ID           uint64  `gorm:"column:id"`
		Username     string  `gorm:"column:username"`
		ProfileImage *string `gorm:"column:profile_image"`
		UUID         string  `gorm:"column:uuid"`
		Role         string  `gorm:"column:role"`
	}
	var memberRows []memberRow
	if err := ctrl.DB.Table("class_members AS cm").
		Select("u.id, u.username, u.profile_image, u.uuid, cm.role").
		Joins("JOIN users AS u ON u.id = cm.user_id").
		Where("cm.class_id = ?", classID).
		Order("CASE WHEN cm.role = 'teacher' THEN 0 ELSE 1 END, u.username ASC").
		Scan(&memberRows).Error; err != nil {
		log.Printf("[ERROR] class roster: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class details")
	}

	members := make([]dto.ClassMemberResponse, 0, len(memberRows))
	for _, r := range memberRows {
		members = append(members, dto.ClassMemberResponse{
			ID:           r.ID,
			Username:     r.Username,
			ProfileImage: r.ProfileImage,
			UUID:         r.UUID,
			Role:         r.Role,
		})
	}

	var classCode *string
	if userRole == model.RoleTeacher {
		classCode = &cls.ClassCode
	}

	return helper.JsonOK(c, "", fiber.Map{
		"class": dto.ClassDetail{
			ID:          cls.ID,
			UUID:        cls.UUID,
			Name:        cls.Name,
			Description: cls.Description,
			Teacher: dto.ClassTeacher{
				Name:  teacher.Username,
				Image: teacher.ProfileImage,
			},
			Category:      cls.Category,
			Level:         cls.Level,
			Color:         cls.Color,
			CoverImage:    cls.CoverImage,
			Visibility:    cls.Visibility,
			Status:        cls.Status,
			StudentsCount: studentsCount,
			ClassCode:     classCode,
			CreatedAt:     cls.CreatedAt,
		},
		"userRole":            userRole,
		"upcomingAssignments": upcoming,
		"recentMessages":      recentMessages,
		"members":             members,
	})
}
