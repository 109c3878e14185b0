package dto

import (
	"strings"
	"time"

	"thinkfinity_backend/internals/features/classes/model"
)

/* ========== REQUEST DTOs ========== */

type CreateClassRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	Level       *string `json:"level" validate:"omitempty,max=50"`
	Color       string  `json:"color" validate:"omitempty,max=20"`
	CoverImage  *string `json:"coverImage" validate:"omitempty,max=255"`
	Visibility  string  `json:"visibility" validate:"omitempty,oneof=public private"`
}

type JoinClassRequest struct {
	ClassCode string `json:"classCode" validate:"required"`
}

type ExploreClassQuery struct {
	Category string `query:"category"`
	Level    string `query:"level"`
	Search   string `query:"search"`
}

// ToModel fills a ClassModel with defaults applied; uuid, class_code and
// teacher_id are set by the controller.
func (r *CreateClassRequest) ToModel() *model.ClassModel {
	m := &model.ClassModel{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Category:    r.Category,
		Level:       r.Level,
		Color:       model.DefaultColor,
		Visibility:  model.VisibilityPrivate,
		Status:      model.StatusActive,
	}
	if r.Color != "" {
		m.Color = r.Color
	}
	if r.Visibility != "" {
		m.Visibility = r.Visibility
	}
	return m
}

/* ========== RESPONSE DTOs ========== */

// ClassSummary is the listing/create payload shape. Optional annotations
// (task counts, classCode) are only present on the endpoints that expose
// them.
type ClassSummary struct {
	ID            uint64    `json:"id"`
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Teacher       string    `json:"teacher"`
	Category      *string   `json:"category"`
	Level         *string   `json:"level"`
	Color         string    `json:"color"`
	CoverImage    *string   `json:"coverImage"`
	Visibility    string    `json:"visibility,omitempty"`
	Status        string    `json:"status"`
	StudentsCount int64     `json:"studentsCount"`
	TotalTasks    *int64    `json:"totalTasks,omitempty"`
	UrgentTasks   *int64    `json:"urgentTasks,omitempty"`
	ClassCode     string    `json:"classCode,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

type ClassTeacher struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// ClassDetail is the `class` object in get_class_details. ClassCode is only
// populated for the teacher.
type ClassDetail struct {
	ID            uint64       `json:"id"`
	UUID          string       `json:"uuid"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Teacher       ClassTeacher `json:"teacher"`
	Category      *string      `json:"category"`
	Level         *string      `json:"level"`
	Color         string       `json:"color"`
	CoverImage    *string      `json:"coverImage"`
	Visibility    string       `json:"visibility"`
	Status        string       `json:"status"`
	StudentsCount int64        `json:"studentsCount"`
	ClassCode     *string      `json:"classCode"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type ClassMemberResponse struct {
	ID           uint64  `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage"`
	UUID         string  `json:"uuid"`
	Role         string  `json:"role"`
}

type UpcomingAssignmentResponse struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	DueDate          time.Time `json:"dueDate"`
	Points           int       `json:"points"`
	CreatedBy        string    `json:"createdBy"`
	SubmissionsCount int64     `json:"submissionsCount"`
	CreatedAt        time.Time `json:"createdAt"`
}
