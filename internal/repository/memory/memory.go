// Package memory holds mutex-guarded repositories used by the memory storage
// driver and by service tests. They honor the same atomicity contracts as the
// PostgreSQL repositories.
package memory

import (
	"time"
)

func dayKey(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format("2006-01-02")
}

// page returns the slice bounds for a 1-based page.
func page(total, pageNum, limit int) (start, end int) {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		return 0, total
	}
	start = (pageNum - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
