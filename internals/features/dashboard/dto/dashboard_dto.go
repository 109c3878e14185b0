package dto

/* ========== RESPONSE DTOs ========== */

type UpcomingTask struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	ClassID   uint64 `json:"classId"`
	DueDate   string `json:"dueDate"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

// ActivityItem is one row of the dashboard feed. Time carries a relative
// label ("2 hours ago"), not a timestamp.
type ActivityItem struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	ClassName string `json:"className"`
	ClassID   uint64 `json:"classId"`
	Time      string `json:"time"`
}
