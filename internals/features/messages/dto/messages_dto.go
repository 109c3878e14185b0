package dto

import "time"

/* ========== REQUEST DTOs ========== */

type PostMessageRequest struct {
	ClassID     uint64  `json:"classId" validate:"required"`
	Message     string  `json:"message" validate:"required"`
	MessageType string  `json:"messageType" validate:"omitempty,oneof=chat announcement"`
	RecipientID *uint64 `json:"recipientId"`
	IsPrivate   bool    `json:"isPrivate"`
}

type ChatQuery struct {
	ClassID     uint64 `query:"classId"`
	Channel     string `query:"channel"`
	RecipientID uint64 `query:"recipientId"`
}

/* ========== RESPONSE DTOs ========== */

type MessageAuthor struct {
	ID           uint64  `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage"`
}

// MessageResponse is the denormalized message shape used by the stream,
// the chat log and the class-detail page.
type MessageResponse struct {
	ID          uint64        `json:"id"`
	Message     string        `json:"message"`
	MessageType string        `json:"messageType"`
	IsPrivate   bool          `json:"isPrivate"`
	CreatedAt   time.Time     `json:"createdAt"`
	User        MessageAuthor `json:"user"`
}
