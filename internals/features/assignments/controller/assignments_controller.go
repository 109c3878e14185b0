package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"thinkfinity_backend/internals/features/assignments/dto"
	"thinkfinity_backend/internals/features/assignments/model"
	classModel "thinkfinity_backend/internals/features/classes/model"
	"thinkfinity_backend/internals/features/classes/service"
	messageModel "thinkfinity_backend/internals/features/messages/model"
	authmw "thinkfinity_backend/internals/middlewares/auth"

	helper "thinkfinity_backend/internals/helpers"
)

/* ================= Controller & Constructor ================= */

type AssignmentController struct {
	DB *gorm.DB
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db}
}

var validate = validator.New()

/* ================= Handlers ================= */

// action=create_assignment (POST). Publishing an assignment also drops an
// announcement into the class stream, in the same transaction.
func (ctrl *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if req.ClassID == 0 || strings.TrimSpace(req.Title) == "" || req.DueDate.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "Class ID, title, and due date are required")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ok, err := service.HasRole(ctrl.DB, req.ClassID, user.ID,
		classModel.RoleTeacher, classModel.RoleAssistant)
	if err != nil {
		log.Printf("[ERROR] role check: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to create assignments")
	}

	m := model.AssignmentModel{
		ClassID:     req.ClassID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Points:      model.DefaultPoints,
		Status:      model.StatusPublished,
		CreatedBy:   user.ID,
	}
	if req.Points != nil {
		m.Points = *req.Points
	}
	if req.Status != "" {
		m.Status = req.Status
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(&m).Error; err != nil {
		tx.Rollback()
		log.Printf("[ERROR] create assignment: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
	}

	if m.Status == model.StatusPublished {
		announcement := messageModel.MessageModel{
			ClassID:     m.ClassID,
			UserID:      user.ID,
			Message:     "New assignment: " + m.Title + ". Due: " + helper.FormatDueDate(m.DueDate),
			MessageType: messageModel.TypeAnnouncement,
		}
		if err := tx.Create(&announcement).Error; err != nil {
			tx.Rollback()
			log.Printf("[ERROR] publish announcement: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("[ERROR] commit create assignment: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
	}

	return helper.JsonCreated(c, "Assignment created successfully", fiber.Map{
		"assignment": dto.AssignmentResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DueDate:     m.DueDate,
			Points:      m.Points,
			Status:      m.Status,
			CreatedBy:   user.Username,
			CreatedAt:   m.CreatedAt,
		},
	})
}

// action=get_assignments (GET ?classId=). Students only see published
// assignments; each row carries the caller's own submission and an
// isOverdue flag.
func (ctrl *AssignmentController) GetClassAssignments(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	classIDStr := strings.TrimSpace(c.Query("classId"))
	if classIDStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class ID is required")
	}
	classID, err := strconv.ParseUint(classIDStr, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid class ID")
	}

	userRole, err := service.RoleInClass(ctrl.DB, classID, user.ID)
	if err != nil {
		log.Printf("[ERROR] role lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch assignments")
	}
	if userRole == "" {
		return fiber.NewError(fiber.StatusForbidden, "You are not a member of this class")
	}

	type assignmentRow struct {
		ID               uint64    `gorm:"column:id"`
		Title            string    `gorm:"column:title"`
		Description      *string   `gorm:"column:description"`
		DueDate          time.Time `gorm:"column:due_date"`
		Points           int       `gorm:"column:points"`
		Status           string    `gorm:"column:status"`
		CreatedByName    string    `gorm:"column:created_by_name"`
		CreatedAt        time.Time `gorm:"column:created_at"`
		SubmissionID     *uint64   `gorm:"column:submission_id"`
		SubmissionStatus *string   `gorm:"column:submission_status"`
		Grade            *float64  `gorm:"column:grade"`
	}

	q := ctrl.DB.Table("class_assignments AS a").
		Select(`a.id, a.title, a.description, a.due_date, a.points, a.status, a.created_at,
			u.username AS created_by_name,
			s.id AS submission_id, s.status AS submission_status, s.grade`).
		Joins("JOIN users AS u ON u.id = a.created_by").
		Joins("LEFT JOIN assignment_submissions AS s ON s.assignment_id = a.id AND s.user_id = ?", user.ID).
		Where("a.class_id = ?", classID)

	if userRole != classModel.RoleTeacher && userRole != classModel.RoleAssistant {
		q = q.Where("a.status = ?", model.StatusPublished)
	}

	var rows []assignmentRow
	if err := q.Order("a.due_date ASC").Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] list assignments: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch assignments")
	}

	now := time.Now()
	assignments := make([]dto.AssignmentResponse, 0, len(rows))
	for _, r := range rows {
		var sub *dto.SubmissionBrief
		if r.SubmissionID != nil {
			sub = &dto.SubmissionBrief{
				ID:    *r.SubmissionID,
				Grade: r.Grade,
			}
			if r.SubmissionStatus != nil {
				sub.Status = *r.SubmissionStatus
			}
		}
		isOverdue := r.DueDate.Before(now) &&
			(sub == nil || sub.Status == model.SubmissionDraft)
		assignments = append(assignments, dto.AssignmentResponse{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate,
			Points:      r.Points,
			Status:      r.Status,
			CreatedBy:   r.CreatedByName,
			CreatedAt:   r.CreatedAt,
			Submission:  sub,
			IsOverdue:   isOverdue,
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"assignments": assignments})
}

// action=submit_assignment (POST). Upsert semantics: an ungraded submission
// is replaced in place; a graded one is locked for good. Late/submitted is
// decided by the due date at submission time, no grace period.
func (ctrl *AssignmentController) SubmitAssignment(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if req.AssignmentID == 0 || strings.TrimSpace(req.Content) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Assignment ID and content are required")
	}

	var attachments datatypes.JSON
	if len(req.Attachments) > 0 {
		raw, err := sonic.Marshal(req.Attachments)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid attachments")
		}
		attachments = datatypes.JSON(raw)
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var assignment model.AssignmentModel
	if err := tx.Take(&assignment, "id = ?", req.AssignmentID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Assignment not found")
		}
		log.Printf("[ERROR] assignment lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
	}

	// Membership is re-validated inside the transaction.
	userRole, err := service.RoleInClass(tx, assignment.ClassID, user.ID)
	if err != nil {
		tx.Rollback()
		log.Printf("[ERROR] role lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
	}
	if userRole == "" {
		tx.Rollback()
		return fiber.NewError(fiber.StatusForbidden, "You are not a member of this class")
	}
	if userRole != classModel.RoleStudent {
		tx.Rollback()
		return fiber.NewError(fiber.StatusForbidden, "Only students can submit assignments")
	}

	now := time.Now()
	status := model.SubmissionSubmitted
	if assignment.DueDate.Before(now) {
		status = model.SubmissionLate
	}

	var existing model.SubmissionModel
	findErr := tx.Where("assignment_id = ? AND user_id = ?", req.AssignmentID, user.ID).
		Take(&existing).Error

	var submissionID uint64
	switch {
	case findErr == nil:
		if existing.Status == model.SubmissionGraded {
			tx.Rollback()
			return fiber.NewError(fiber.StatusConflict, "Cannot update submission after it has been graded")
		}
		if err := tx.Model(&model.SubmissionModel{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"content":         req.Content,
				"attachments":     attachments,
				"status":          status,
				"submission_date": now,
			}).Error; err != nil {
			tx.Rollback()
			log.Printf("[ERROR] update submission: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
		}
		submissionID = existing.ID

	case errors.Is(findErr, gorm.ErrRecordNotFound):
		content := req.Content
		sub := model.SubmissionModel{
			AssignmentID:   req.AssignmentID,
			UserID:         user.ID,
			Content:        &content,
			Attachments:    attachments,
			Status:         status,
			SubmissionDate: now,
		}
		if err := tx.Create(&sub).Error; err != nil {
			tx.Rollback()
			log.Printf("[ERROR] create submission: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
		}
		submissionID = sub.ID

	default:
		tx.Rollback()
		log.Printf("[ERROR] submission lookup: %v", findErr)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("[ERROR] commit submit: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to submit assignment")
	}

	return helper.JsonOK(c, "Assignment submitted successfully", fiber.Map{
		"submission": dto.SubmissionResult{
			ID:             submissionID,
			Status:         status,
			SubmissionDate: now,
		},
	})
}

// action=grade_submission (POST). Grading is terminal and pushes a private
// stream message to the student.
func (ctrl *AssignmentController) GradeSubmission(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.GradeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if req.SubmissionID == 0 || req.Grade == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Submission ID and grade are required")
	}

	type submissionCtx struct {
		SubmissionID uint64 `gorm:"column:submission_id"`
		AssignmentID uint64 `gorm:"column:assignment_id"`
		ClassID      uint64 `gorm:"column:class_id"`
		StudentID    uint64 `gorm:"column:student_id"`
	}
	var sc submissionCtx
	err = ctrl.DB.Table("assignment_submissions AS s").
		Select("s.id AS submission_id, a.id AS assignment_id, a.class_id AS class_id, s.user_id AS student_id").
		Joins("JOIN class_assignments AS a ON a.id = s.assignment_id").
		Where("s.id = ?", req.SubmissionID).
		Take(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Submission not found")
		}
		log.Printf("[ERROR] submission lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}

	ok, err := service.HasRole(ctrl.DB, sc.ClassID, user.ID,
		classModel.RoleTeacher, classModel.RoleAssistant)
	if err != nil {
		log.Printf("[ERROR] role check: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to grade submissions")
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Model(&model.SubmissionModel{}).
		Where("id = ?", sc.SubmissionID).
		Updates(map[string]any{
			"grade":    *req.Grade,
			"feedback": req.Feedback,
			"status":   model.SubmissionGraded,
		}).Error; err != nil {
		tx.Rollback()
		log.Printf("[ERROR] grade submission: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}

	text := "Your assignment has been graded. Grade: " +
		strconv.FormatFloat(*req.Grade, 'f', -1, 64)
	if req.Feedback != nil && strings.TrimSpace(*req.Feedback) != "" {
		text += ". Feedback: " + *req.Feedback
	}
	note := messageModel.MessageModel{
		ClassID:     sc.ClassID,
		UserID:      user.ID,
		Message:     text,
		MessageType: messageModel.TypeChat,
		RecipientID: &sc.StudentID,
		IsPrivate:   true,
	}
	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		log.Printf("[ERROR] grade notification: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("[ERROR] commit grade: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to grade submission")
	}

	return helper.JsonOK(c, "Submission graded successfully", nil)
}
