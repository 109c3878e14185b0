package helper

import (
	"fmt"
	"time"
)

// TimeAgo humanizes a timestamp for the activity feed.
func TimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case diff < 48*time.Hour:
		return "Yesterday"
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / (24 * 7))
		return fmt.Sprintf("%d week%s ago", weeks, plural(weeks))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatDueDate renders a due date the way stream announcements show it.
func FormatDueDate(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
