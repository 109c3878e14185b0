package model

import "time"

// SessionModel mirrors the `sessions` table written by the auth service.
// The token is opaque; validity is purely row presence + expiry.
type SessionModel struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `json:"user_id" gorm:"column:user_id;not null;index"`
	Token     string    `json:"-" gorm:"column:token;type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`

	User UserModel `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (SessionModel) TableName() string {
	return "sessions"
}
