package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

const dateFormat = "2006-01-02"

// WeekID derives the document key for the Monday-start week containing t,
// e.g. "2023-w42". ISO week numbering, so early-January dates may fall into
// the previous year's last week.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-w%02d", year, week)
}

// WeekStart returns the Monday of the week containing t, truncated to a date
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return t.AddDate(0, 0, -offset)
}

// WeekBounds returns the Monday and Sunday of the week containing t
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start := WeekStart(t)
	return start, start.AddDate(0, 0, 6)
}

// NewWeekSchedule builds the default empty document for the week containing t
func NewWeekSchedule(t time.Time) *model.WeekSchedule {
	start, end := WeekBounds(t)
	return &model.WeekSchedule{
		ID:        WeekID(t),
		StartDate: start.Format(dateFormat),
		EndDate:   end.Format(dateFormat),
		Shifts:    []model.Shift{},
	}
}

// ParseWeekID parses a week id like "2023-w42" back into the Monday of that
// week. Used by the CLI and HTTP layers to address weeks directly.
func ParseWeekID(id string) (time.Time, error) {
	parts := strings.SplitN(id, "-w", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid week id %q: expected <year>-w<week>", id)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in week id %q: %w", id, err)
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week number in week id %q: %w", id, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("invalid week number in week id %q: out of range", id)
	}

	// Jan 4 is always in ISO week 1 of its year
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := WeekStart(jan4).AddDate(0, 0, (week-1)*7)

	if isoYear, isoWeek := monday.ISOWeek(); isoYear != year || isoWeek != week {
		return time.Time{}, fmt.Errorf("week id %q does not exist", id)
	}

	return monday, nil
}

// DayOf maps a calendar date to its schedule day label
func DayOf(t time.Time) model.Day {
	switch t.Weekday() {
	case time.Monday:
		return model.Mon
	case time.Tuesday:
		return model.Tue
	case time.Wednesday:
		return model.Wed
	case time.Thursday:
		return model.Thu
	case time.Friday:
		return model.Fri
	case time.Saturday:
		return model.Sat
	default:
		return model.Sun
	}
}

// DateOf returns the calendar date of a day label within the given week
func DateOf(weekStart time.Time, day model.Day) time.Time {
	for i, d := range model.Days {
		if d == day {
			return weekStart.AddDate(0, 0, i)
		}
	}
	return weekStart
}

// NextWeek and PrevWeek support week navigation from the views
func NextWeek(t time.Time) time.Time { return WeekStart(t).AddDate(0, 0, 7) }
func PrevWeek(t time.Time) time.Time { return WeekStart(t).AddDate(0, 0, -7) }
