package lifecycle

import "time"

// DateClass is the derived urgency of a dated record.
type DateClass string

const (
	// DateOverdue means the date has passed (date <= now, inclusive).
	DateOverdue DateClass = "overdue"
	// DateUpcoming means the date falls within the next 30 days
	// (now < date <= now+30d).
	DateUpcoming DateClass = "upcoming"
	// DateNormal means the date is more than 30 days away.
	DateNormal DateClass = "normal"
)

// UpcomingWindow is the horizon for the upcoming classification.
const UpcomingWindow = 30 * 24 * time.Hour

// ClassifyByDate classifies a date against now. Every screen that shows a
// due/upcoming badge derives it from here so the boundary semantics cannot
// drift between screens. The lower bound is inclusive: a date equal to now
// is overdue, a date exactly 30 days out is upcoming.
func ClassifyByDate(date, now time.Time) DateClass {
	if !date.After(now) {
		return DateOverdue
	}
	if !date.After(now.Add(UpcomingWindow)) {
		return DateUpcoming
	}
	return DateNormal
}
