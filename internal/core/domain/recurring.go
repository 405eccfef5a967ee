package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence unit of a recurring schedule.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ScheduleStatus is the lifecycle state of a recurring schedule.
type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "active"
	SchedulePaused    ScheduleStatus = "paused"
	ScheduleCompleted ScheduleStatus = "completed"
)

// IsValid reports whether s is a known schedule status.
func (s ScheduleStatus) IsValid() bool {
	switch s {
	case ScheduleActive, SchedulePaused, ScheduleCompleted:
		return true
	}
	return false
}

// RecurringSchedule is a template for a transaction that repeats. The engine only
// tracks the next due occurrence; materializing transactions is done elsewhere.
type RecurringSchedule struct {
	ScheduleID      string          `json:"scheduleID"`
	CompanyID       string          `json:"companyID"`
	Name            string          `json:"name"`
	Frequency       Frequency       `json:"frequency"`
	Interval        int             `json:"interval"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transactionType"`
	CategoryID      string          `json:"categoryID"`
	AccountID       string          `json:"accountID"`
	DayOfMonth      *int            `json:"dayOfMonth,omitempty"`  // 1-31
	DayOfWeek       *int            `json:"dayOfWeek,omitempty"`   // 0 (Sunday) - 6
	MonthOfYear     *int            `json:"monthOfYear,omitempty"` // 1-12
	NextDueDate     time.Time       `json:"nextDueDate"`
	Status          ScheduleStatus  `json:"status"`
	Notes           string          `json:"notes"`
	AuditFields
}

// ScheduleShapeChanged reports whether any field that determines the occurrence
// dates differs between a and b. Name, amount, notes and similar fields are ignored.
func ScheduleShapeChanged(a, b *RecurringSchedule) bool {
	return a.Frequency != b.Frequency ||
		a.Interval != b.Interval ||
		!a.StartDate.Equal(b.StartDate) ||
		!intPtrEqual(a.DayOfMonth, b.DayOfMonth) ||
		!intPtrEqual(a.DayOfWeek, b.DayOfWeek) ||
		!intPtrEqual(a.MonthOfYear, b.MonthOfYear)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
