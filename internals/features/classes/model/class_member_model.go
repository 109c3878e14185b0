package model

import "time"

const (
	RoleStudent   = "student"
	RoleAssistant = "assistant"
	RoleTeacher   = "teacher"

	// RoleViewer is never stored; it is the derived role of a non-member
	// looking at a public class.
	RoleViewer = "viewer"
)

// ClassMemberModel mirrors the `class_members` table.
// One row per (class, user); the unique index backs that invariant.
type ClassMemberModel struct {
	ID       uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ClassID  uint64    `json:"class_id" gorm:"column:class_id;not null;uniqueIndex:uq_class_members_class_user"`
	UserID   uint64    `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:uq_class_members_class_user"`
	Role     string    `json:"role" gorm:"column:role;type:varchar(10);not null;default:'student'"`
	JoinedAt time.Time `json:"joined_at" gorm:"column:joined_at;not null;autoCreateTime"`
}

func (ClassMemberModel) TableName() string {
	return "class_members"
}
