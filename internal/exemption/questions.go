package exemption

import (
	_ "embed"
	"fmt"
	"time"

	"hourkeep/pkg/types"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

type QuestionKind string

const (
	KindDate    QuestionKind = "date"
	KindBoolean QuestionKind = "boolean"
)

type Question struct {
	ID       types.QuestionID        `yaml:"id" json:"id"`
	Category types.ExemptionCategory `yaml:"category" json:"category"`
	Kind     QuestionKind            `yaml:"kind" json:"kind"`
	Text     string                  `yaml:"text" json:"text"`
	Help     string                  `yaml:"help" json:"help"`
}

var catalogue = mustLoadQuestions(questionsYAML)

func loadQuestions(data []byte) ([]Question, error) {
	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question catalogue: %w", err)
	}

	if len(doc.Questions) != len(rules) {
		return nil, fmt.Errorf("question catalogue has %d questions, rule chain has %d", len(doc.Questions), len(rules))
	}

	// The catalogue order is the order questions are asked in, and the
	// evaluator relies on it matching the rule priority order.
	for i, q := range doc.Questions {
		if q.ID != rules[i].question {
			return nil, fmt.Errorf("question %d is %q, expected %q", i, q.ID, rules[i].question)
		}
		if q.Kind != KindDate && q.Kind != KindBoolean {
			return nil, fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		}
	}

	return doc.Questions, nil
}

func mustLoadQuestions(data []byte) []Question {
	questions, err := loadQuestions(data)
	if err != nil {
		panic(err)
	}
	return questions
}

// Questions returns the screening questions in the order they are asked.
func Questions() []Question {
	out := make([]Question, len(catalogue))
	copy(out, catalogue)
	return out
}

// Count is the number of screening questions.
func Count() int {
	return len(catalogue)
}

// QuestionAt returns the question asked at position index.
func QuestionAt(index int) (Question, bool) {
	if index < 0 || index >= len(catalogue) {
		return Question{}, false
	}
	return catalogue[index], true
}

// IndexOf returns the position of a question in the catalogue, or -1.
func IndexOf(id types.QuestionID) int {
	for i, q := range catalogue {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Set validates value against the question's kind and stores it on
// responses. Dates of birth must not be in the future relative to asOf.
func Set(responses *types.ExemptionResponses, id types.QuestionID, value any, asOf time.Time) error {
	index := IndexOf(id)
	if index < 0 {
		return fmt.Errorf("%w: %q", types.ErrUnknownQuestion, id)
	}

	if catalogue[index].Kind == KindDate {
		dob, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("%w: %q expects a date, got %T", types.ErrInvalidAnswer, id, value)
		}
		if dob.IsZero() || dob.After(asOf) {
			return fmt.Errorf("%w: date of birth must be in the past", types.ErrInvalidAnswer)
		}
		dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
		responses.DateOfBirth = &dob
		return nil
	}

	answer, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: %q expects yes or no, got %T", types.ErrInvalidAnswer, id, value)
	}
	*boolField(responses, id) = &answer
	return nil
}

// Value reports the stored answer for a question and whether it has been
// answered.
func Value(responses types.ExemptionResponses, id types.QuestionID) (any, bool) {
	if id == types.QuestionDateOfBirth {
		if responses.DateOfBirth == nil {
			return nil, false
		}
		return *responses.DateOfBirth, true
	}

	field := boolField(&responses, id)
	if field == nil || *field == nil {
		return nil, false
	}
	return **field, true
}

// Answered returns the answers given for the questions at positions 0
// through upTo inclusive. Later answers, even if present, are left out.
func Answered(responses types.ExemptionResponses, upTo int) types.ExemptionResponses {
	var out types.ExemptionResponses
	for i := 0; i <= upTo && i < len(catalogue); i++ {
		id := catalogue[i].ID
		if id == types.QuestionDateOfBirth {
			out.DateOfBirth = responses.DateOfBirth
			continue
		}
		*boolField(&out, id) = *boolField(&responses, id)
	}
	return out.Clone()
}

// Complete reports whether every question in the chain has an answer.
func Complete(responses types.ExemptionResponses) bool {
	for _, q := range catalogue {
		if _, ok := Value(responses, q.ID); !ok {
			return false
		}
	}
	return true
}

func boolField(r *types.ExemptionResponses, id types.QuestionID) **bool {
	switch id {
	case types.QuestionPregnant:
		return &r.IsPregnantOrPostpartum
	case types.QuestionDependentChild:
		return &r.HasDependentChild13OrYounger
	case types.QuestionDisabledDependent:
		return &r.IsParentGuardianOfDisabled
	case types.QuestionMedicare:
		return &r.IsOnMedicare
	case types.QuestionNonMAGI:
		return &r.IsEligibleForNonMAGI
	case types.QuestionDisabledVeteran:
		return &r.IsDisabledVeteran
	case types.QuestionMedicallyFrail:
		return &r.IsMedicallyFrail
	case types.QuestionSNAPOrTANF:
		return &r.IsOnSNAPOrTANFMeetingRequirements
	case types.QuestionRehab:
		return &r.IsInRehabProgram
	case types.QuestionIncarcerated:
		return &r.IsIncarceratedOrRecentlyReleased
	case types.QuestionTribalStatus:
		return &r.HasTribalStatus
	}
	return nil
}

// CategoryLabel is the display label for an exemption category.
func CategoryLabel(category types.ExemptionCategory) string {
	switch category {
	case types.ExemptionCategoryAge:
		return "Age"
	case types.ExemptionCategoryFamilyCaregiving:
		return "Family & Caregiving"
	case types.ExemptionCategoryHealthDisability:
		return "Health & Disability"
	case types.ExemptionCategoryProgramParticipation:
		return "Program Participation"
	case types.ExemptionCategoryOther:
		return "Other"
	}
	return string(category)
}
