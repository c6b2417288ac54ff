package assessment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hourkeep/internal/exemption"
	"hourkeep/pkg/types"
)

const dateLayout = "2006-01-02"

// Units an hours or income answer can be given in.
const (
	PerMonth    = "month"
	PerWeek     = "week"
	PerPaycheck = "paycheck"
)

// Input is a textual answer as typed or posted by the UI.
type Input struct {
	Value      string
	NotSure    bool
	Per        string
	Frequency  string
	Activities []string
}

// ParseAnswer turns textual input into the value AnswerWorkSituation
// expects for field. Unknown fields pass the raw text through so the
// controller reports them.
func ParseAnswer(field Field, in Input) (any, error) {
	value := strings.TrimSpace(in.Value)

	switch field {
	case FieldReceivedNotice, FieldCheckExemptions:
		return ParseYesNo(value)

	case FieldNoticeMonths:
		return parseNumber(field, value)

	case FieldNoticeDeadline:
		return parseDate(string(field), value)

	case FieldJobStatus:
		return JobStatus(strings.ToLower(value)), nil

	case FieldPayFrequency:
		return types.PayFrequency(strings.ToLower(value)), nil

	case FieldSixMonthIncome, FieldMonthlyIncome:
		if in.NotSure {
			return types.NotSure(), nil
		}
		amount, err := parseNumber(field, value)
		if err != nil {
			return nil, err
		}
		if field == FieldMonthlyIncome && in.Per == PerPaycheck {
			return types.Paycheck{Amount: amount, Frequency: types.PayFrequency(in.Frequency)}, nil
		}
		return amount, nil

	case FieldMonthlyWorkHours, FieldVolunteerHours, FieldSchoolHours, FieldWorkProgramHours:
		if in.NotSure {
			return types.NotSure(), nil
		}
		hours, err := parseNumber(field, value)
		if err != nil {
			return nil, err
		}
		if in.Per == PerWeek {
			return types.WeeklyHours(hours), nil
		}
		return hours, nil

	case FieldOtherActivities:
		var set types.ActivitySet
		for _, activity := range in.Activities {
			switch strings.ToLower(strings.TrimSpace(activity)) {
			case "volunteer":
				set.Volunteer = true
			case "school":
				set.School = true
			case "work-program":
				set.WorkProgram = true
			case "", "none":
			default:
				return nil, fmt.Errorf("%w: unknown activity %q", types.ErrInvalidAnswer, activity)
			}
		}
		return set, nil
	}

	return value, nil
}

// ParseExemptionAnswer parses the answer to a screening question: a date
// for the age question, yes or no for the rest.
func ParseExemptionAnswer(id types.QuestionID, text string) (any, error) {
	index := exemption.IndexOf(id)
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownQuestion, id)
	}

	question, _ := exemption.QuestionAt(index)
	if question.Kind == exemption.KindDate {
		return parseDate(string(id), strings.TrimSpace(text))
	}
	return ParseYesNo(text)
}

func ParseYesNo(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected yes or no, got %q", types.ErrInvalidAnswer, text)
}

func parseNumber(field Field, text string) (float64, error) {
	text = strings.TrimPrefix(strings.ReplaceAll(text, ",", ""), "$")
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number, got %q", types.ErrInvalidAnswer, field, text)
	}
	return n, nil
}

func parseDate(label, text string) (time.Time, error) {
	t, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s expects a date like 1990-04-02, got %q", types.ErrInvalidAnswer, label, text)
	}
	return t, nil
}
