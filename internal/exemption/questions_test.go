package exemption

import (
	"testing"
	"time"

	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsOrder(t *testing.T) {
	questions := Questions()
	require.Len(t, questions, 12)

	want := []types.QuestionID{
		types.QuestionDateOfBirth,
		types.QuestionPregnant,
		types.QuestionDependentChild,
		types.QuestionDisabledDependent,
		types.QuestionMedicare,
		types.QuestionNonMAGI,
		types.QuestionDisabledVeteran,
		types.QuestionMedicallyFrail,
		types.QuestionSNAPOrTANF,
		types.QuestionRehab,
		types.QuestionIncarcerated,
		types.QuestionTribalStatus,
	}
	for i, q := range questions {
		assert.Equal(t, want[i], q.ID)
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Help)
	}
	assert.Equal(t, KindDate, questions[0].Kind)
}

func TestLoadQuestionsRejectsReorderedCatalogue(t *testing.T) {
	data := []byte(`
questions:
  - {id: family-pregnant, category: family-caregiving, kind: boolean, text: a}
  - {id: age-dob, category: age, kind: date, text: b}
`)
	_, err := loadQuestions(data)
	require.Error(t, err)
}

func TestSet(t *testing.T) {
	var responses types.ExemptionResponses

	err := Set(&responses, types.QuestionMedicare, "yes", today)
	require.ErrorIs(t, err, types.ErrInvalidAnswer)
	assert.Nil(t, responses.IsOnMedicare)

	err = Set(&responses, types.QuestionDateOfBirth, true, today)
	require.ErrorIs(t, err, types.ErrInvalidAnswer)

	err = Set(&responses, types.QuestionDateOfBirth, today.AddDate(0, 0, 1), today)
	require.ErrorIs(t, err, types.ErrInvalidAnswer)
	assert.Nil(t, responses.DateOfBirth)

	err = Set(&responses, "not-a-question", true, today)
	require.ErrorIs(t, err, types.ErrUnknownQuestion)

	require.NoError(t, Set(&responses, types.QuestionMedicare, false, today))
	require.NotNil(t, responses.IsOnMedicare)
	assert.False(t, *responses.IsOnMedicare)

	local := time.Date(1990, time.March, 5, 23, 0, 0, 0, time.FixedZone("PST", -8*3600))
	require.NoError(t, Set(&responses, types.QuestionDateOfBirth, local, today))
	assert.Equal(t, time.Date(1990, time.March, 5, 0, 0, 0, 0, time.UTC), *responses.DateOfBirth)
}

func TestAnsweredOnlyIncludesQuestionsUpToIndex(t *testing.T) {
	responses := types.ExemptionResponses{
		DateOfBirth:            dob(30, 0, 0),
		IsPregnantOrPostpartum: utils.BoolPtr(false),
		IsOnMedicare:           utils.BoolPtr(true),
	}

	upToPregnant := Answered(responses, IndexOf(types.QuestionPregnant))
	assert.NotNil(t, upToPregnant.DateOfBirth)
	assert.NotNil(t, upToPregnant.IsPregnantOrPostpartum)
	assert.Nil(t, upToPregnant.IsOnMedicare)
	assert.False(t, Evaluate(upToPregnant, today).IsExempt)

	upToMedicare := Answered(responses, IndexOf(types.QuestionMedicare))
	assert.True(t, Evaluate(upToMedicare, today).IsExempt)
}

func TestComplete(t *testing.T) {
	assert.False(t, Complete(types.ExemptionResponses{}))
	assert.True(t, Complete(allNo()))

	responses := allNo()
	responses.HasTribalStatus = nil
	assert.False(t, Complete(responses))
}
