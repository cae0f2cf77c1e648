package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

var (
	hundred       = decimal.NewFromInt(100)
	daysPerMonth  = decimal.NewFromInt(30)
	weeksPerMonth = decimal.RequireFromString("4.33")
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyEquivalent converts an amount charged at frequency f to its monthly equivalent.
// One-time and unknown frequencies contribute nothing to recurring totals.
func MonthlyEquivalent(amount decimal.Decimal, f finance.Frequency) decimal.Decimal {
	switch f {
	case finance.FrequencyDaily:
		return amount.Mul(daysPerMonth)
	case finance.FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case finance.FrequencyMonthly:
		return amount
	case finance.FrequencyYearly:
		return amount.Div(monthsPerYear)
	}

	return decimal.Zero
}

// ExpenseMonthly is the monthly burden of e. Inactive expenses contribute zero.
func ExpenseMonthly(e finance.Expense) decimal.Decimal {
	if !e.IsActive {
		return decimal.Zero
	}

	return MonthlyEquivalent(e.Amount, e.Frequency)
}

// BudgetMonthly is the monthly share of a budget allocation, used for trend lines.
func BudgetMonthly(b finance.Budget) decimal.Decimal {
	return MonthlyEquivalent(b.Amount, b.Period.Frequency())
}

// percentOf returns part / whole * 100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(hundred)
}
