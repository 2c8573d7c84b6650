package invoice

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseIssueDate accepts a calendar date (2025-11-01) or an RFC 3339
// timestamp and returns the calendar date it names.
func ParseIssueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// QuarterOfTime returns "Q<n> <year>" for the calendar date of t.
func QuarterOfTime(t time.Time) string {
	month0 := int(t.Month()) - 1
	return fmt.Sprintf("Q%d %d", month0/3+1, t.Year())
}

// QuarterOf returns the quarter label of an issue date, or "" when the date
// does not parse.
func QuarterOf(issueDate string) string {
	t, err := ParseIssueDate(issueDate)
	if err != nil {
		return ""
	}
	return QuarterOfTime(t)
}

// CurrentQuarter is the quarter label of now in its own location.
func CurrentQuarter(now time.Time) string {
	return QuarterOfTime(now)
}
