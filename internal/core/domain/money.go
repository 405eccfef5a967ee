package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money columns keep.
const MoneyScale = 4

// maxMoney bounds NUMERIC(20, 4): sixteen integer digits.
var maxMoney = decimal.New(1, 16)

// CheckMoney reports an error when d cannot be stored without rounding.
func CheckMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return fmt.Errorf("%s %s has more than %d decimal places", field, d.String(), MoneyScale)
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return fmt.Errorf("%s %s is out of range", field, d.String())
	}
	return nil
}
