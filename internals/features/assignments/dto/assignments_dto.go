package dto

import "time"

/* ========== REQUEST DTOs ========== */

type CreateAssignmentRequest struct {
	ClassID     uint64    `json:"classId" validate:"required"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	Points      *int      `json:"points" validate:"omitempty,min=0"`
	Status      string    `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type SubmitAssignmentRequest struct {
	AssignmentID uint64   `json:"assignmentId" validate:"required"`
	Content      string   `json:"content" validate:"required"`
	Attachments  []string `json:"attachments"`
}

type GradeSubmissionRequest struct {
	SubmissionID uint64   `json:"submissionId" validate:"required"`
	Grade        *float64 `json:"grade" validate:"required,min=0"`
	Feedback     *string  `json:"feedback"`
}

/* ========== RESPONSE DTOs ========== */

// SubmissionBrief annotates an assignment with the requesting student's own
// submission state.
type SubmissionBrief struct {
	ID     uint64   `json:"id"`
	Status string   `json:"status"`
	Grade  *float64 `json:"grade"`
}

type AssignmentResponse struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	DueDate     time.Time        `json:"dueDate"`
	Points      int              `json:"points"`
	Status      string           `json:"status"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	Submission  *SubmissionBrief `json:"submission"`
	IsOverdue   bool             `json:"isOverdue"`
}

type SubmissionResult struct {
	ID             uint64    `json:"id"`
	Status         string    `json:"status"`
	SubmissionDate time.Time `json:"submissionDate"`
}
