package domain

import "github.com/shopspring/decimal"

// ComputeMealRate divides the month's expenses by the month's meals. A month
// with no meals has a zero rate, not an error: nothing was eaten, so nothing
// is owed per meal.
func ComputeMealRate(totalExpenses, totalMeals decimal.Decimal) decimal.Decimal {
	if totalMeals.IsZero() {
		return decimal.Zero
	}
	return totalExpenses.Div(totalMeals)
}
