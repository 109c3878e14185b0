package model

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	DefaultPoints = 100
)

// AssignmentModel mirrors the `class_assignments` table.
// Non-published assignments are invisible to students.
type AssignmentModel struct {
	ID          uint64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ClassID     uint64     `json:"class_id" gorm:"column:class_id;not null;index"`
	Title       string     `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"column:description;type:text"`
	DueDate     time.Time  `json:"due_date" gorm:"column:due_date;not null"`
	Points      int        `json:"points" gorm:"column:points;not null;default:100"`
	Status      string     `json:"status" gorm:"column:status;type:varchar(10);not null;default:'published'"`
	CreatedBy   uint64     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

func (AssignmentModel) TableName() string {
	return "class_assignments"
}
