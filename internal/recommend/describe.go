package recommend

import (
	"fmt"

	"hourkeep/pkg/types"
)

// Describe returns the short explanation shown next to a compliance method
// on the results screen. isAlternative marks method as one of rec's
// listed alternatives rather than a method it did not offer.
func Describe(rec types.Recommendation, responses types.AssessmentResponses, method types.ComplianceMethod, isAlternative bool) string {
	if rec.PrimaryMethod == types.MethodExemption {
		return describeWhileExempt(method, responses)
	}

	// Alternatives listed only because they are close get the same
	// close-but-not-yet wording as any other method.
	if isAlternative && StandingFor(method, responses) == StandingQualifies {
		return describeQualifyingAlternative(rec.PrimaryMethod, method)
	}

	switch method {
	case types.MethodIncomeTracking:
		income := responses.MonthlyIncome.Amount()
		switch StandingFor(method, responses) {
		case StandingQualifies:
			return fmt.Sprintf("You're earning $%d/month, which already meets the $%d threshold. You could use this method instead.", income, IncomeThreshold)
		case StandingClose:
			return fmt.Sprintf("You're at $%d/month, just $%d away from the $%d threshold. A small income increase would let you use this easier method.", income, IncomeThreshold-income, IncomeThreshold)
		}
		if income > 0 {
			return fmt.Sprintf("You're at $%d/month. If your income increases to $%d or more, you can switch to this easier method.", income, IncomeThreshold)
		}
		return fmt.Sprintf("You're not currently earning $%d/month. If your income increases to $%d or more, you can switch to this easier method and submit one paystub each month instead of tracking hours.", IncomeThreshold, IncomeThreshold)

	case types.MethodSeasonalIncomeTracking:
		if StandingFor(method, responses) == StandingClose {
			income := responses.MonthlyIncome.Amount()
			return fmt.Sprintf("Your seasonal work averages $%d/month, just $%d away from the $%d threshold. A little more seasonal income would let you use this method.", income, IncomeThreshold-income, IncomeThreshold)
		}
		return fmt.Sprintf("This method is for people with seasonal work that averages $%d/month over %d months. If your work becomes seasonal, you can switch to this method.", IncomeThreshold, SeasonalMonths)

	case types.MethodHourTracking:
		hours := responses.TotalMonthlyHours()
		switch StandingFor(method, responses) {
		case StandingQualifies:
			return fmt.Sprintf("You're at %d hours/month, which already meets the %d-hour requirement. You could use this method instead.", hours, HoursThreshold)
		case StandingClose:
			return fmt.Sprintf("You're at %d hours/month, just %d more hours to reach %d. Adding a bit more work, volunteering, or school time would get you there.", hours, HoursThreshold-hours, HoursThreshold)
		}
		if hours > 0 {
			return fmt.Sprintf("You're at %d hours/month. If you add more work, volunteering, or school hours to reach %d/month, you can use this method.", hours, HoursThreshold)
		}
		return fmt.Sprintf("You're not currently at %d hours/month. If you add more work, volunteering, or school hours to reach %d/month, you can use this method.", HoursThreshold, HoursThreshold)
	}
	return ""
}

func describeQualifyingAlternative(primary, method types.ComplianceMethod) string {
	switch method {
	case types.MethodIncomeTracking:
		return "This also works for you, but we recommended hour tracking because it might be simpler given your current situation."
	case types.MethodSeasonalIncomeTracking:
		return "This also works for you, but we recommended a simpler option based on your situation."
	}
	switch primary {
	case types.MethodIncomeTracking:
		return "This also works for you, but income tracking is easier. You submit one paystub each month instead of tracking hours daily."
	case types.MethodSeasonalIncomeTracking:
		return "This also works for you, but seasonal income tracking might be easier for your situation."
	}
	return "This also works for you."
}

func describeWhileExempt(method types.ComplianceMethod, responses types.AssessmentResponses) string {
	switch method {
	case types.MethodIncomeTracking:
		return "Since you're exempt, you don't need to track income. If your exemption status changes, this would be an option."
	case types.MethodSeasonalIncomeTracking:
		return "Since you're exempt, you don't need to track seasonal income. If your exemption status changes, this would be an option."
	case types.MethodHourTracking:
		if hours := responses.TotalMonthlyHours(); hours >= HoursThreshold {
			return fmt.Sprintf("You're at %d hours/month, which meets the %d-hour requirement. Since you're exempt, you don't need to track this.", hours, HoursThreshold)
		}
		return "Since you're exempt, you don't need to track hours. If your exemption status changes, this would be an option."
	}
	return ""
}
