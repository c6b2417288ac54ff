package assessment

import (
	"testing"
	"time"

	"hourkeep/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		in    Input
		want  any
	}{
		{"yes", FieldReceivedNotice, Input{Value: "Yes"}, true},
		{"no", FieldCheckExemptions, Input{Value: "n"}, false},
		{"job status", FieldJobStatus, Input{Value: "YES-SEASONAL"}, JobSeasonal},
		{"pay frequency", FieldPayFrequency, Input{Value: "biweekly"}, types.PayBiweekly},
		{"monthly income", FieldMonthlyIncome, Input{Value: "$1,250"}, 1250.0},
		{"paycheck", FieldMonthlyIncome, Input{Value: "300", Per: PerPaycheck, Frequency: "biweekly"}, types.Paycheck{Amount: 300, Frequency: types.PayBiweekly}},
		{"income not sure", FieldSixMonthIncome, Input{NotSure: true}, types.NotSure()},
		{"weekly hours", FieldMonthlyWorkHours, Input{Value: "20", Per: PerWeek}, types.WeeklyHours(20)},
		{"monthly hours", FieldSchoolHours, Input{Value: "12"}, 12.0},
		{"hours not sure", FieldVolunteerHours, Input{NotSure: true}, types.NotSure()},
		{"activities", FieldOtherActivities, Input{Activities: []string{"volunteer", "work-program"}}, types.ActivitySet{Volunteer: true, WorkProgram: true}},
		{"no activities", FieldOtherActivities, Input{Activities: []string{"none"}}, types.ActivitySet{}},
		{"deadline", FieldNoticeDeadline, Input{Value: "2027-01-31"}, time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{"unknown field", Field("shoe-size"), Input{Value: "9"}, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(tt.field, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswerRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		in    Input
	}{
		{"maybe", FieldReceivedNotice, Input{Value: "maybe"}},
		{"words for hours", FieldMonthlyWorkHours, Input{Value: "lots"}},
		{"empty income", FieldMonthlyIncome, Input{}},
		{"bad date", FieldNoticeDeadline, Input{Value: "31/01/2027"}},
		{"unknown activity", FieldOtherActivities, Input{Activities: []string{"knitting"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnswer(tt.field, tt.in)
			assert.ErrorIs(t, err, types.ErrInvalidAnswer)
		})
	}
}

func TestParseExemptionAnswer(t *testing.T) {
	got, err := ParseExemptionAnswer(types.QuestionDateOfBirth, "1990-04-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.April, 2, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseExemptionAnswer(types.QuestionMedicare, "no")
	require.NoError(t, err)
	assert.Equal(t, false, got)

	_, err = ParseExemptionAnswer(types.QuestionMedicare, "1990-04-02")
	assert.ErrorIs(t, err, types.ErrInvalidAnswer)

	_, err = ParseExemptionAnswer("age-shoe", "yes")
	assert.ErrorIs(t, err, types.ErrUnknownQuestion)
}
