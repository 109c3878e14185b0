package controller

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classModel "thinkfinity_backend/internals/features/classes/model"
	"thinkfinity_backend/internals/features/classes/service"
	"thinkfinity_backend/internals/features/messages/dto"
	"thinkfinity_backend/internals/features/messages/model"
	authmw "thinkfinity_backend/internals/middlewares/auth"

	helper "thinkfinity_backend/internals/helpers"
)

/* ================= Controller & Constructor ================= */

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

var validate = validator.New()

const chatHistoryLimit = 100

/* ================= Handlers ================= */

// action=post_message (POST). Announcements are teacher/assistant only.
// Returns the denormalized message so the client can echo it immediately.
func (ctrl *MessageController) PostClassMessage(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if req.ClassID == 0 || strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class ID and message are required")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	userRole, err := service.RoleInClass(ctrl.DB, req.ClassID, user.ID)
	if err != nil {
		log.Printf("[ERROR] role lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to post message")
	}
	if userRole == "" {
		return fiber.NewError(fiber.StatusForbidden, "You are not a member of this class")
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = model.TypeChat
	}
	if messageType == model.TypeAnnouncement &&
		userRole != classModel.RoleTeacher && userRole != classModel.RoleAssistant {
		return fiber.NewError(fiber.StatusForbidden, "Only teachers and assistants can post announcements")
	}

	m := model.MessageModel{
		ClassID:     req.ClassID,
		UserID:      user.ID,
		Message:     req.Message,
		MessageType: messageType,
		RecipientID: req.RecipientID,
		IsPrivate:   req.IsPrivate,
	}
	if err := ctrl.DB.Create(&m).Error; err != nil {
		log.Printf("[ERROR] create message: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to post message")
	}

	return helper.JsonCreated(c, "Message posted successfully", fiber.Map{
		"messageData": dto.MessageResponse{
			ID:          m.ID,
			Message:     m.Message,
			MessageType: m.MessageType,
			IsPrivate:   m.IsPrivate,
			CreatedAt:   m.CreatedAt,
			User: dto.MessageAuthor{
				ID:           user.ID,
				Username:     user.Username,
				ProfileImage: user.ProfileImage,
			},
		},
	})
}

// action=get_chat_messages (GET ?classId=&channel=&recipientId=).
// channel=direct with a recipient returns the symmetric pair of private
// rows; any other channel is the public broadcast log. Oldest first,
// capped at 100 rows.
func (ctrl *MessageController) GetChatMessages(c *fiber.Ctx) error {
	user, err := authmw.CurrentUser(c)
	if err != nil {
		return err
	}

	classIDStr := strings.TrimSpace(c.Query("classId"))
	channel := strings.TrimSpace(c.Query("channel"))
	if classIDStr == "" || channel == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class ID and channel are required")
	}
	classID, err := strconv.ParseUint(classIDStr, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid class ID")
	}

	userRole, err := service.RoleInClass(ctrl.DB, classID, user.ID)
	if err != nil {
		log.Printf("[ERROR] role lookup: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch messages")
	}
	if userRole == "" {
		return fiber.NewError(fiber.StatusForbidden, "You are not a member of this class")
	}

	var recipientID uint64
	if v := strings.TrimSpace(c.Query("recipientId")); v != "" {
		recipientID, _ = strconv.ParseUint(v, 10, 64)
	}

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

	q := ctrl.DB.Table("class_messages AS m").
		Select("m.id, m.message, m.message_type, m.is_private, m.created_at, m.user_id, u.username, u.profile_image").
		Joins("JOIN users AS u ON u.id = m.user_id").
		Where("m.class_id = ?", classID)

	if channel == "direct" && recipientID != 0 {
		q = q.Where(
			"((m.user_id = ? AND m.recipient_id = ?) OR (m.user_id = ? AND m.recipient_id = ?))",
			user.ID, recipientID, recipientID, user.ID,
		)
	} else {
		q = q.Where("m.recipient_id IS NULL AND m.is_private = ?", false)
	}

	var rows []messageRow
	if err := q.Order("m.created_at ASC").
		Limit(chatHistoryLimit).
		Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] fetch chat messages: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch messages")
	}

	messages := make([]dto.MessageResponse, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, dto.MessageResponse{
			ID:          r.ID,
			Message:     r.Message,
			MessageType: r.MessageType,
			IsPrivate:   r.IsPrivate,
			CreatedAt:   r.CreatedAt,
			User: dto.MessageAuthor{
				ID:           r.UserID,
				Username:     r.Username,
				ProfileImage: r.ProfileImage,
			},
		})
	}

	return helper.JsonOK(c, "", fiber.Map{"messages": messages})
}
