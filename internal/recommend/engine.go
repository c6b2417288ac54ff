// Package recommend picks the compliance method that best fits a user's
// reported work situation.
package recommend

import (
	"fmt"
	"time"

	"hourkeep/internal/exemption"
	"hourkeep/pkg/types"
)

const (
	IncomeThreshold = 580
	HoursThreshold  = 80

	// Shortfalls at or under these margins are reported as "close".
	IncomeCloseMargin = 100
	HoursCloseMargin  = 20
)

// Standing describes how a user's current figures relate to one method's
// threshold.
type Standing string

const (
	StandingQualifies     Standing = "qualifies"
	StandingClose         Standing = "close"
	StandingNotYet        Standing = "not-yet"
	StandingNotApplicable Standing = "not-applicable"
)

// alternativeOrder is the fixed order alternatives are listed in.
var alternativeOrder = []types.ComplianceMethod{
	types.MethodIncomeTracking,
	types.MethodSeasonalIncomeTracking,
	types.MethodHourTracking,
}

// Recommend evaluates the full response set once and returns the primary
// method, its compliance status and the alternatives worth offering.
func Recommend(responses types.AssessmentResponses, asOf time.Time) types.Recommendation {
	exempt := exemption.Evaluate(responses.Exemption, asOf)
	if exempt.IsExempt {
		return types.Recommendation{
			PrimaryMethod:      types.MethodExemption,
			Reasoning:          fmt.Sprintf("You qualify for an exemption (%s), so you don't need to track hours or income.", exempt.ExemptionReason),
			AlternativeMethods: []types.ComplianceMethod{},
			ComplianceStatus:   types.ComplianceCompliant,
			EstimatedEffort:    types.EffortLow,
		}
	}

	rec := types.Recommendation{}
	income := responses.MonthlyIncome.Amount()
	hours := responses.TotalMonthlyHours()

	switch {
	case responses.Seasonal():
		rec.PrimaryMethod = types.MethodSeasonalIncomeTracking
		rec.EstimatedEffort = types.EffortMedium
		rec.ComplianceStatus = incomeStatus(responses.MonthlyIncome)
		rec.Reasoning = seasonalReasoning(responses.MonthlyIncome, rec.ComplianceStatus)

	case income >= IncomeThreshold:
		rec.PrimaryMethod = types.MethodIncomeTracking
		rec.EstimatedEffort = types.EffortLow
		rec.ComplianceStatus = types.ComplianceCompliant
		rec.Reasoning = fmt.Sprintf("You earn about $%d/month, which meets the $%d threshold. Submitting one paystub each month is simpler than logging hours.", income, IncomeThreshold)

	default:
		rec.PrimaryMethod = types.MethodHourTracking
		rec.ComplianceStatus = hoursStatus(responses)
		rec.EstimatedEffort = types.EffortMedium
		if rec.ComplianceStatus != types.ComplianceCompliant {
			rec.EstimatedEffort = types.EffortHigh
		}
		rec.Reasoning = hoursReasoning(hours, rec.ComplianceStatus)
	}

	rec.AlternativeMethods = alternatives(rec.PrimaryMethod, responses)
	return rec
}

func alternatives(primary types.ComplianceMethod, responses types.AssessmentResponses) []types.ComplianceMethod {
	out := make([]types.ComplianceMethod, 0, len(alternativeOrder))
	for _, method := range alternativeOrder {
		if method == primary {
			continue
		}
		switch StandingFor(method, responses) {
		case StandingQualifies, StandingClose:
			out = append(out, method)
		}
	}
	return out
}

// StandingFor reports where the user's figures sit against the threshold
// of method. It uses the same constants the selection in Recommend does.
func StandingFor(method types.ComplianceMethod, responses types.AssessmentResponses) Standing {
	switch method {
	case types.MethodIncomeTracking:
		if responses.Seasonal() {
			return StandingNotApplicable
		}
		return standing(responses.MonthlyIncome.Amount(), IncomeThreshold, IncomeCloseMargin)
	case types.MethodSeasonalIncomeTracking:
		if !responses.Seasonal() {
			return StandingNotApplicable
		}
		return standing(responses.MonthlyIncome.Amount(), IncomeThreshold, IncomeCloseMargin)
	case types.MethodHourTracking:
		return standing(responses.TotalMonthlyHours(), HoursThreshold, HoursCloseMargin)
	}
	return StandingNotApplicable
}

func standing(value, threshold, margin int) Standing {
	needed := threshold - value
	switch {
	case needed <= 0:
		return StandingQualifies
	case value > 0 && needed <= margin:
		return StandingClose
	}
	return StandingNotYet
}

func incomeStatus(income types.Figure) types.ComplianceStatus {
	if !income.Answered() || income.IsNotSure() {
		return types.ComplianceUnknown
	}
	if income.Value >= IncomeThreshold {
		return types.ComplianceCompliant
	}
	return types.ComplianceNeedsIncrease
}

func hoursStatus(responses types.AssessmentResponses) types.ComplianceStatus {
	if responses.TotalMonthlyHours() >= HoursThreshold {
		return types.ComplianceCompliant
	}

	for _, f := range []types.Figure{
		responses.MonthlyWorkHours,
		responses.VolunteerHoursPerMonth,
		responses.SchoolHoursPerMonth,
		responses.WorkProgramHoursPerMonth,
	} {
		if f.IsNotSure() {
			return types.ComplianceUnknown
		}
	}
	return types.ComplianceNeedsIncrease
}

func seasonalReasoning(income types.Figure, status types.ComplianceStatus) string {
	switch status {
	case types.ComplianceCompliant:
		return fmt.Sprintf("Your seasonal work averages about $%d/month over %d months, which meets the $%d threshold. Your income is checked as a %d-month average.", income.Value, SeasonalMonths, IncomeThreshold, SeasonalMonths)
	case types.ComplianceNeedsIncrease:
		return fmt.Sprintf("Your seasonal work averages about $%d/month over %d months. Seasonal income is checked as a %d-month average, which needs to reach $%d/month.", income.Value, SeasonalMonths, SeasonalMonths, IncomeThreshold)
	}
	return fmt.Sprintf("Your work is seasonal, so your income is checked as a %d-month average. Add up your income for the last %d months to see if it averages $%d/month.", SeasonalMonths, SeasonalMonths, IncomeThreshold)
}

func hoursReasoning(hours int, status types.ComplianceStatus) string {
	switch status {
	case types.ComplianceCompliant:
		return fmt.Sprintf("You do about %d hours/month of work, volunteering, school, or work programs, which meets the %d-hour requirement.", hours, HoursThreshold)
	case types.ComplianceUnknown:
		return fmt.Sprintf("You need %d hours/month of work, volunteering, school, or work programs. Track your hours for a few weeks to see where you stand.", HoursThreshold)
	}
	return fmt.Sprintf("You reported about %d hours/month. You need %d hours/month of work, volunteering, school, or work programs, so tracking hours lets you see how much more you need.", hours, HoursThreshold)
}
