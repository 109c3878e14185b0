package model

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"

	DefaultColor = "#4A6FFF"
)

// ClassModel mirrors the `classes` table.
// class_code is globally unique and never changes after creation.
type ClassModel struct {
	ID          uint64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UUID        string     `json:"uuid" gorm:"column:uuid;type:varchar(50);uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"column:description;type:text"`
	TeacherID   uint64     `json:"teacher_id" gorm:"column:teacher_id;not null;index"`
	Category    *string    `json:"category,omitempty" gorm:"column:category;type:varchar(50)"`
	Level       *string    `json:"level,omitempty" gorm:"column:level;type:varchar(50)"`
	Color       string     `json:"color" gorm:"column:color;type:varchar(20);not null;default:'#4A6FFF'"`
	ClassCode   string     `json:"class_code" gorm:"column:class_code;type:varchar(20);uniqueIndex;not null"`
	CoverImage  *string    `json:"cover_image,omitempty" gorm:"column:cover_image;type:varchar(255)"`
	Visibility  string     `json:"visibility" gorm:"column:visibility;type:varchar(10);not null;default:'private'"`
	Status      string     `json:"status" gorm:"column:status;type:varchar(10);not null;default:'active'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

func (ClassModel) TableName() string {
	return "classes"
}
