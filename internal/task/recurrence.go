package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecurrenceKind identifies how often a recurring task repeats.
type RecurrenceKind string

const (
	RecurDaily    RecurrenceKind = "daily"
	RecurWeekly   RecurrenceKind = "weekly"
	RecurMonthly  RecurrenceKind = "monthly"
	RecurInterval RecurrenceKind = "interval"
)

// Recurrence describes a repeat schedule. Days is only meaningful for
// RecurInterval, where it must be at least 1.
type Recurrence struct {
	Kind RecurrenceKind `json:"kind"`
	Days int            `json:"days,omitempty"`
}

// IsValid returns true if the recurrence is well formed.
func (r Recurrence) IsValid() bool {
	switch r.Kind {
	case RecurDaily, RecurWeekly, RecurMonthly:
		return true
	case RecurInterval:
		return r.Days >= 1
	}
	return false
}

// Next returns the due date following from, according to the schedule.
// The schedule measures an interval from the given time, not a calendar
// date, so monthly is a flat 30 days.
func (r Recurrence) Next(from time.Time) time.Time {
	switch r.Kind {
	case RecurDaily:
		return from.AddDate(0, 0, 1)
	case RecurWeekly:
		return from.AddDate(0, 0, 7)
	case RecurMonthly:
		return from.AddDate(0, 0, 30)
	case RecurInterval:
		days := r.Days
		if days < 1 {
			days = 1
		}
		return from.AddDate(0, 0, days)
	}
	return from
}

func (r Recurrence) String() string {
	if r.Kind == RecurInterval {
		return fmt.Sprintf("every %d days", r.Days)
	}
	return string(r.Kind)
}

// ParseRecurrence parses a recurrence spec. Accepted forms:
// "daily", "weekly", "monthly", "Nd" (e.g. "3d"), "N" (days),
// and "every N days".
func ParseRecurrence(s string) (*Recurrence, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "":
		return nil, fmt.Errorf("empty recurrence")
	case "daily", "day":
		return &Recurrence{Kind: RecurDaily}, nil
	case "weekly", "week":
		return &Recurrence{Kind: RecurWeekly}, nil
	case "monthly", "month":
		return &Recurrence{Kind: RecurMonthly}, nil
	}

	if strings.HasPrefix(norm, "every ") {
		norm = strings.TrimPrefix(norm, "every ")
		norm = strings.TrimSuffix(norm, " days")
		norm = strings.TrimSuffix(norm, " day")
	}
	norm = strings.TrimSuffix(norm, "d")

	days, err := strconv.Atoi(strings.TrimSpace(norm))
	if err != nil || days < 1 {
		return nil, fmt.Errorf("invalid recurrence %q, must be daily, weekly, monthly, or a day count like 3d", s)
	}
	return &Recurrence{Kind: RecurInterval, Days: days}, nil
}
