package recommend

import (
	"math"

	"hourkeep/pkg/types"
)

const (
	SeasonalMonths   = 6
	WeeksPerMonth    = 4.33
	BiweeklyPerMonth = 2.17
)

// MonthlyHoursFromWeekly converts an average week into monthly hours.
func MonthlyHoursFromWeekly(hours types.WeeklyHours) int {
	return roundHalfUp(float64(hours) * WeeksPerMonth)
}

// MonthlyIncomeFromPaycheck converts one paycheck into monthly income.
// Frequencies without a fixed period are taken as already monthly.
func MonthlyIncomeFromPaycheck(amount float64, frequency types.PayFrequency) int {
	switch frequency {
	case types.PayWeekly:
		return roundHalfUp(amount * WeeksPerMonth)
	case types.PayBiweekly:
		return roundHalfUp(amount * BiweeklyPerMonth)
	}
	return roundHalfUp(amount)
}

// SeasonalMonthlyAverage spreads six months of seasonal income evenly.
func SeasonalMonthlyAverage(total int) int {
	return roundHalfUp(float64(total) / SeasonalMonths)
}

// roundHalfUp clamps to [0, math.MaxInt32] so the conversion cannot wrap.
func roundHalfUp(v float64) int {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(math.Floor(v + 0.5))
}
