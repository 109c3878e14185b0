package model

import "time"

const (
	TypeChat         = "chat"
	TypeAnnouncement = "announcement"
)

// MessageModel mirrors the `class_messages` table.
// recipient_id set => visible only to author and recipient.
type MessageModel struct {
	ID          uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ClassID     uint64    `json:"class_id" gorm:"column:class_id;not null;index"`
	UserID      uint64    `json:"user_id" gorm:"column:user_id;not null"`
	Message     string    `json:"message" gorm:"column:message;type:text;not null"`
	MessageType string    `json:"message_type" gorm:"column:message_type;type:varchar(15);not null;default:'chat'"`
	RecipientID *uint64   `json:"recipient_id,omitempty" gorm:"column:recipient_id"`
	IsPrivate   bool      `json:"is_private" gorm:"column:is_private;not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (MessageModel) TableName() string {
	return "class_messages"
}
