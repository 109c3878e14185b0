package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SubmissionDraft     = "draft"
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
	SubmissionLate      = "late"
)

// SubmissionModel mirrors the `assignment_submissions` table.
// One row per (assignment, student); graded is terminal.
type SubmissionModel struct {
	ID             uint64         `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	AssignmentID   uint64         `json:"assignment_id" gorm:"column:assignment_id;not null;uniqueIndex:uq_submissions_assignment_user"`
	UserID         uint64         `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:uq_submissions_assignment_user"`
	Content        *string        `json:"content,omitempty" gorm:"column:content;type:text"`
	Attachments    datatypes.JSON `json:"attachments,omitempty" gorm:"column:attachments"`
	Status         string         `json:"status" gorm:"column:status;type:varchar(10);not null;default:'draft'"`
	Grade          *float64       `json:"grade,omitempty" gorm:"column:grade;type:decimal(5,2)"`
	Feedback       *string        `json:"feedback,omitempty" gorm:"column:feedback;type:text"`
	SubmissionDate time.Time      `json:"submission_date" gorm:"column:submission_date;not null;autoCreateTime"`
}

func (SubmissionModel) TableName() string {
	return "assignment_submissions"
}
