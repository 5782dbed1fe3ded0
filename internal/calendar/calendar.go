package calendar

import (
	"time"

	"github.com/okerlund/planfold/internal/domain"
)

// Calendar owns the definition of working days. The scheduler and
// direct-manipulation date edits snap every computed date through it.
type Calendar interface {
	IsWorkingDay(t time.Time) bool
	// SnapToWorkingDay returns t itself when t is a working day, otherwise
	// the next working day after t.
	SnapToWorkingDay(t time.Time) time.Time
}

// Weekday is the default calendar: Monday through Friday are working days,
// minus an optional holiday set.
type Weekday struct {
	holidays map[string]bool // keyed by domain.DateLayout
}

// NewWeekday creates a weekday calendar with the given holidays.
func NewWeekday(holidays ...time.Time) *Weekday {
	h := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		h[domain.DateOnly(d).Format(domain.DateLayout)] = true
	}
	return &Weekday{holidays: h}
}

func (c *Weekday) IsWorkingDay(t time.Time) bool {
	t = domain.DateOnly(t)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidays[t.Format(domain.DateLayout)]
}

func (c *Weekday) SnapToWorkingDay(t time.Time) time.Time {
	t = domain.DateOnly(t)
	// A week of consecutive holidays around a weekend is the practical worst
	// case; the bound just keeps a fully-blocked calendar from spinning.
	for i := 0; i < 366; i++ {
		if c.IsWorkingDay(t) {
			return t
		}
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AllDays treats every day as a working day.
type AllDays struct{}

func (AllDays) IsWorkingDay(time.Time) bool { return true }

func (AllDays) SnapToWorkingDay(t time.Time) time.Time { return domain.DateOnly(t) }
