// Package recurrence computes occurrence dates for recurring schedules.
//
// The calculator is pure: it never reads the clock and never fails. Fields that
// do not apply to the frequency (a day of month on a weekly schedule) or that are
// out of range are ignored, and the best-effort date is returned.
package recurrence

import (
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
)

const (
	// MaxInterval is the largest period multiplier the calculator honours.
	// Larger values are treated as MaxInterval.
	MaxInterval = 1000

	// MaxYear is the last year a due date can be stored and serialised in.
	MaxYear = 9999
)

// Params holds the date-shape fields of a schedule.
type Params struct {
	StartDate   time.Time
	Frequency   domain.Frequency
	Interval    int
	DayOfMonth  *int
	DayOfWeek   *int
	MonthOfYear *int
}

// ParamsFromSchedule extracts the date-shape fields of s.
func ParamsFromSchedule(s *domain.RecurringSchedule) Params {
	return Params{
		StartDate:   s.StartDate,
		Frequency:   s.Frequency,
		Interval:    s.Interval,
		DayOfMonth:  s.DayOfMonth,
		DayOfWeek:   s.DayOfWeek,
		MonthOfYear: s.MonthOfYear,
	}
}

// NextDueDate returns the first occurrence strictly after now. A start date in
// the future is returned unchanged. Once candidates pass MaxYear the first such
// candidate is returned, so callers should reject results beyond MaxYear.
func NextDueDate(p Params, now time.Time) time.Time {
	if p.StartDate.After(now) {
		return p.StartDate
	}

	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	if interval > MaxInterval {
		interval = MaxInterval
	}

	for k := firstCandidateStep(p, interval, now); ; k++ {
		candidate := step(p, interval, k)
		if candidate.Year() > MaxYear {
			return candidate
		}
		if !candidate.After(now) {
			continue
		}
		adjusted := adjust(p, candidate)
		// Clamping can pull a candidate back to or before now; keep stepping.
		if adjusted.After(now) {
			return adjusted
		}
	}
}

// step returns the k-th raw candidate counted from the start date.
func step(p Params, interval, k int) time.Time {
	switch p.Frequency {
	case domain.Daily:
		return p.StartDate.AddDate(0, 0, k*interval)
	case domain.Weekly:
		return p.StartDate.AddDate(0, 0, 7*k*interval)
	case domain.Yearly:
		return AddMonthsClamped(p.StartDate, 12*k*interval)
	default:
		return AddMonthsClamped(p.StartDate, k*interval)
	}
}

const secondsPerDay = 24 * 60 * 60

// firstCandidateStep skips whole periods that certainly lie before now, so a
// schedule started years ago does not iterate one period at a time.
func firstCandidateStep(p Params, interval int, now time.Time) int {
	var elapsed, perStep int
	switch p.Frequency {
	case domain.Daily, domain.Weekly:
		elapsed = int((now.Unix() - p.StartDate.Unix()) / secondsPerDay)
		perStep = interval
		if p.Frequency == domain.Weekly {
			perStep = 7 * interval
		}
	default:
		elapsed = (now.Year()-p.StartDate.Year())*12 + int(now.Month()) - int(p.StartDate.Month())
		perStep = interval
		if p.Frequency == domain.Yearly {
			perStep = 12 * interval
		}
	}
	k := elapsed/perStep - 1
	if k < 1 {
		k = 1
	}
	return k
}

func adjust(p Params, candidate time.Time) time.Time {
	switch p.Frequency {
	case domain.Weekly:
		if dow, ok := inRange(p.DayOfWeek, 0, 6); ok {
			shift := (dow - int(candidate.Weekday()) + 7) % 7
			return candidate.AddDate(0, 0, shift)
		}
	case domain.Monthly:
		if dom, ok := inRange(p.DayOfMonth, 1, 31); ok {
			return withDay(candidate, candidate.Year(), candidate.Month(), dom)
		}
	case domain.Yearly:
		moy, okMonth := inRange(p.MonthOfYear, 1, 12)
		dom, okDay := inRange(p.DayOfMonth, 1, 31)
		if okMonth && okDay {
			return withDay(candidate, candidate.Year(), time.Month(moy), dom)
		}
	}
	return candidate
}

// AddMonthsClamped adds n months to t, clamping the day to the length of the
// target month (Jan 31 + 1 month is Feb 28 or 29, never Mar 3).
func AddMonthsClamped(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	return withDay(t, year, month, t.Day())
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// withDay builds a date in year/month on min(day, days in month), keeping the clock of t.
func withDay(t time.Time, year int, month time.Month, day int) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func inRange(v *int, lo, hi int) (int, bool) {
	if v == nil || *v < lo || *v > hi {
		return 0, false
	}
	return *v, true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
