package recommend

import (
	"testing"
	"time"

	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func notExempt() types.ExemptionResponses {
	dob := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)
	no := utils.BoolPtr(false)
	return types.ExemptionResponses{
		DateOfBirth:                       &dob,
		IsPregnantOrPostpartum:            no,
		HasDependentChild13OrYounger:      no,
		IsParentGuardianOfDisabled:        no,
		IsOnMedicare:                      no,
		IsEligibleForNonMAGI:              no,
		IsDisabledVeteran:                 no,
		IsMedicallyFrail:                  no,
		IsOnSNAPOrTANFMeetingRequirements: no,
		IsInRehabProgram:                  no,
		IsIncarceratedOrRecentlyReleased:  no,
		HasTribalStatus:                   no,
	}
}

func employed(income types.Figure, hours types.Figure) types.AssessmentResponses {
	return types.AssessmentResponses{
		Exemption:        notExempt(),
		HasJob:           utils.BoolPtr(true),
		IsSeasonalWork:   utils.BoolPtr(false),
		PaymentFrequency: types.PayMonthly,
		MonthlyIncome:    income,
		MonthlyWorkHours: hours,
	}
}

func TestRecommendExempt(t *testing.T) {
	responses := employed(types.Reported(900), types.Reported(100))
	responses.Exemption.IsOnMedicare = utils.BoolPtr(true)

	rec := Recommend(responses, today)
	assert.Equal(t, types.MethodExemption, rec.PrimaryMethod)
	assert.Equal(t, types.ComplianceCompliant, rec.ComplianceStatus)
	assert.Equal(t, types.EffortLow, rec.EstimatedEffort)
	assert.NotNil(t, rec.AlternativeMethods)
	assert.Empty(t, rec.AlternativeMethods)
	assert.Contains(t, rec.Reasoning, "Has Medicare")
}

func TestRecommendIncomeThreshold(t *testing.T) {
	rec := Recommend(employed(types.Reported(580), types.Reported(40)), today)
	assert.Equal(t, types.MethodIncomeTracking, rec.PrimaryMethod)
	assert.Equal(t, types.ComplianceCompliant, rec.ComplianceStatus)
	assert.Equal(t, types.EffortLow, rec.EstimatedEffort)

	rec = Recommend(employed(types.Reported(579), types.Reported(40)), today)
	assert.Equal(t, types.MethodHourTracking, rec.PrimaryMethod)
	assert.Equal(t, types.ComplianceNeedsIncrease, rec.ComplianceStatus)
	assert.Equal(t, types.EffortHigh, rec.EstimatedEffort)
	assert.Equal(t, []types.ComplianceMethod{types.MethodIncomeTracking}, rec.AlternativeMethods)
}

func TestRecommendHourTracking(t *testing.T) {
	tests := []struct {
		name       string
		responses  types.AssessmentResponses
		wantStatus types.ComplianceStatus
		wantEffort types.EstimatedEffort
		wantAlts   []types.ComplianceMethod
	}{
		{
			name:       "work hours alone meet the requirement",
			responses:  employed(types.Reported(400), types.Reported(85)),
			wantStatus: types.ComplianceCompliant,
			wantEffort: types.EffortMedium,
			wantAlts:   []types.ComplianceMethod{},
		},
		{
			name: "volunteering tops up work hours",
			responses: func() types.AssessmentResponses {
				r := employed(types.Reported(300), types.Reported(60))
				r.OtherActivities = &types.ActivitySet{Volunteer: true}
				r.VolunteerHoursPerMonth = types.Reported(20)
				return r
			}(),
			wantStatus: types.ComplianceCompliant,
			wantEffort: types.EffortMedium,
			wantAlts:   []types.ComplianceMethod{},
		},
		{
			name:       "close on hours",
			responses:  employed(types.Reported(300), types.Reported(65)),
			wantStatus: types.ComplianceNeedsIncrease,
			wantEffort: types.EffortHigh,
			wantAlts:   []types.ComplianceMethod{},
		},
		{
			name:       "not sure about hours",
			responses:  employed(types.Reported(300), types.NotSure()),
			wantStatus: types.ComplianceUnknown,
			wantEffort: types.EffortHigh,
			wantAlts:   []types.ComplianceMethod{},
		},
		{
			name: "no job and no activities",
			responses: types.AssessmentResponses{
				Exemption:       notExempt(),
				HasJob:          utils.BoolPtr(false),
				OtherActivities: &types.ActivitySet{},
			},
			wantStatus: types.ComplianceNeedsIncrease,
			wantEffort: types.EffortHigh,
			wantAlts:   []types.ComplianceMethod{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Recommend(tt.responses, today)
			assert.Equal(t, types.MethodHourTracking, rec.PrimaryMethod)
			assert.Equal(t, tt.wantStatus, rec.ComplianceStatus)
			assert.Equal(t, tt.wantEffort, rec.EstimatedEffort)
			assert.Equal(t, tt.wantAlts, rec.AlternativeMethods)
			assert.NotEmpty(t, rec.Reasoning)
		})
	}
}

func TestRecommendSeasonal(t *testing.T) {
	responses := types.AssessmentResponses{
		Exemption:      notExempt(),
		HasJob:         utils.BoolPtr(true),
		IsSeasonalWork: utils.BoolPtr(true),
		SixMonthIncome: types.Reported(3000),
		MonthlyIncome:  types.Reported(SeasonalMonthlyAverage(3000)),
	}
	require.Equal(t, 500, responses.MonthlyIncome.Value)

	rec := Recommend(responses, today)
	assert.Equal(t, types.MethodSeasonalIncomeTracking, rec.PrimaryMethod)
	assert.Equal(t, types.ComplianceNeedsIncrease, rec.ComplianceStatus)
	assert.Equal(t, types.EffortMedium, rec.EstimatedEffort)
	assert.Empty(t, rec.AlternativeMethods)

	responses.MonthlyIncome = types.Reported(600)
	rec = Recommend(responses, today)
	assert.Equal(t, types.ComplianceCompliant, rec.ComplianceStatus)

	responses.MonthlyIncome = types.NotSure()
	rec = Recommend(responses, today)
	assert.Equal(t, types.MethodSeasonalIncomeTracking, rec.PrimaryMethod)
	assert.Equal(t, types.ComplianceUnknown, rec.ComplianceStatus)

	responses.MonthlyIncome = types.Reported(600)
	responses.MonthlyWorkHours = types.Reported(90)
	rec = Recommend(responses, today)
	assert.Equal(t, []types.ComplianceMethod{types.MethodHourTracking}, rec.AlternativeMethods)
}

func TestRecommendIncomeWithQualifyingHours(t *testing.T) {
	rec := Recommend(employed(types.Reported(1200), types.Reported(120)), today)
	assert.Equal(t, types.MethodIncomeTracking, rec.PrimaryMethod)
	assert.Equal(t, []types.ComplianceMethod{types.MethodHourTracking}, rec.AlternativeMethods)
}

func TestRecommendIsDeterministic(t *testing.T) {
	responses := employed(types.Reported(520), types.Reported(70))
	assert.Equal(t, Recommend(responses, today), Recommend(responses, today))
}

func TestRecommendUnansweredExemptionsAreNotExempt(t *testing.T) {
	responses := employed(types.Reported(700), types.Reported(0))
	responses.Exemption = types.ExemptionResponses{}

	rec := Recommend(responses, today)
	assert.Equal(t, types.MethodIncomeTracking, rec.PrimaryMethod)
}

func TestStandingFor(t *testing.T) {
	tests := []struct {
		name      string
		method    types.ComplianceMethod
		responses types.AssessmentResponses
		want      Standing
	}{
		{"income meets", types.MethodIncomeTracking, employed(types.Reported(580), types.Figure{}), StandingQualifies},
		{"income close", types.MethodIncomeTracking, employed(types.Reported(480), types.Figure{}), StandingClose},
		{"income just outside margin", types.MethodIncomeTracking, employed(types.Reported(479), types.Figure{}), StandingNotYet},
		{"no income", types.MethodIncomeTracking, employed(types.Reported(0), types.Figure{}), StandingNotYet},
		{"hours close", types.MethodHourTracking, employed(types.Figure{}, types.Reported(60)), StandingClose},
		{"hours far", types.MethodHourTracking, employed(types.Figure{}, types.Reported(59)), StandingNotYet},
		{"seasonal for non-seasonal worker", types.MethodSeasonalIncomeTracking, employed(types.Reported(900), types.Figure{}), StandingNotApplicable},
		{"exemption is not a tracking method", types.MethodExemption, employed(types.Reported(900), types.Figure{}), StandingNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StandingFor(tt.method, tt.responses))
		})
	}
}

func TestDescribe(t *testing.T) {
	responses := employed(types.Reported(500), types.Reported(70))
	rec := Recommend(responses, today)
	require.Equal(t, types.MethodHourTracking, rec.PrimaryMethod)

	assert.Equal(t,
		"You're at $500/month, just $80 away from the $580 threshold. A small income increase would let you use this easier method.",
		Describe(rec, responses, types.MethodIncomeTracking, false))
	assert.Equal(t,
		"You're at 70 hours/month, just 10 more hours to reach 80. Adding a bit more work, volunteering, or school time would get you there.",
		Describe(rec, responses, types.MethodHourTracking, false))

	// A close alternative is described as close, not as already working.
	assert.Equal(t,
		Describe(rec, responses, types.MethodIncomeTracking, false),
		Describe(rec, responses, types.MethodIncomeTracking, true))

	busy := employed(types.Reported(700), types.Reported(100))
	incomeRec := Recommend(busy, today)
	require.Equal(t, types.MethodIncomeTracking, incomeRec.PrimaryMethod)
	assert.Contains(t, Describe(incomeRec, busy, types.MethodHourTracking, true), "income tracking is easier")

	exempt := types.Recommendation{PrimaryMethod: types.MethodExemption}
	assert.Contains(t, Describe(exempt, responses, types.MethodIncomeTracking, false), "Since you're exempt")
}
