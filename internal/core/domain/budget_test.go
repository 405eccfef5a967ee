package domain_test

import (
	"testing"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumItems(t *testing.T) {
	items := []domain.BudgetItem{
		{Amount: decimal.RequireFromString("100.50"), Spent: decimal.RequireFromString("20")},
		{Amount: decimal.RequireFromString("49.50"), Spent: decimal.RequireFromString("5.25")},
	}
	total, spent := domain.SumItems(items)
	assert.True(t, total.Equal(decimal.NewFromInt(150)))
	assert.True(t, spent.Equal(decimal.RequireFromString("25.25")))

	total, spent = domain.SumItems(nil)
	assert.True(t, total.IsZero())
	assert.True(t, spent.IsZero())
}

func TestWithinTolerance(t *testing.T) {
	items := []domain.BudgetItem{{Amount: decimal.RequireFromString("100.00")}}
	assert.True(t, domain.WithinTolerance(items, decimal.RequireFromString("100.01")))
	assert.True(t, domain.WithinTolerance(items, decimal.RequireFromString("99.99")))
	assert.False(t, domain.WithinTolerance(items, decimal.RequireFromString("100.02")))
	assert.False(t, domain.WithinTolerance(items, decimal.RequireFromString("90")))
}

func TestScheduleShapeChanged(t *testing.T) {
	dom := 15
	a := domain.RecurringSchedule{Frequency: domain.Monthly, Interval: 1, DayOfMonth: &dom, Name: "Rent"}
	b := a
	b.Name = "Office rent"
	b.Amount = decimal.NewFromInt(900)
	assert.False(t, domain.ScheduleShapeChanged(&a, &b))

	other := 20
	b.DayOfMonth = &other
	assert.True(t, domain.ScheduleShapeChanged(&a, &b))

	b.DayOfMonth = nil
	assert.True(t, domain.ScheduleShapeChanged(&a, &b))

	c := a
	c.Interval = 2
	assert.True(t, domain.ScheduleShapeChanged(&a, &c))
}
