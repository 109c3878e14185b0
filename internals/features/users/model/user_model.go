package model

import "time"

// UserModel mirrors the `users` table. Only the identity columns the class
// API reads are mapped; registration and profile management live in the
// auth service.
type UserModel struct {
	ID           uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UUID         string    `json:"uuid" gorm:"column:uuid;type:varchar(50);uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"column:username;type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(255);not null"`
	ProfileImage *string   `json:"profile_image,omitempty" gorm:"column:profile_image;type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (UserModel) TableName() string {
	return "users"
}
