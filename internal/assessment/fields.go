package assessment

import (
	"fmt"
	"math"
	"time"

	"hourkeep/internal/recommend"
	"hourkeep/pkg/types"
)

// Field names one answer the flow collects outside the exemption
// screening.
type Field string

const (
	FieldReceivedNotice   Field = "received-notice"
	FieldNoticeMonths     Field = "notice-months"
	FieldNoticeDeadline   Field = "notice-deadline"
	FieldCheckExemptions  Field = "check-exemptions"
	FieldJobStatus        Field = "job-status"
	FieldSixMonthIncome   Field = "six-month-income"
	FieldPayFrequency     Field = "pay-frequency"
	FieldMonthlyIncome    Field = "monthly-income"
	FieldMonthlyWorkHours Field = "monthly-work-hours"
	FieldOtherActivities  Field = "other-activities"
	FieldVolunteerHours   Field = "volunteer-hours"
	FieldSchoolHours      Field = "school-hours"
	FieldWorkProgramHours Field = "work-program-hours"
)

// JobStatus is the answer to the work-job question.
type JobStatus string

const (
	JobYearRound JobStatus = "yes"
	JobGig       JobStatus = "yes-gig"
	JobSeasonal  JobStatus = "yes-seasonal"
	JobNone      JobStatus = "no"
)

// MaxFigure is the largest income or hours figure accepted.
const MaxFigure = math.MaxInt32

// fieldSteps lists the step each field may be answered on.
var fieldSteps = map[Field][]Step{
	FieldReceivedNotice:   {StepNotice},
	FieldNoticeMonths:     {StepNoticeDetails},
	FieldNoticeDeadline:   {StepNoticeDetails},
	FieldCheckExemptions:  {StepNoticeFollowup, StepNoticeFollowupWithNotice},
	FieldJobStatus:        {StepWorkJob},
	FieldSixMonthIncome:   {StepWorkIncomeSeasonal},
	FieldPayFrequency:     {StepWorkPayFrequency},
	FieldMonthlyIncome:    {StepWorkIncome},
	FieldMonthlyWorkHours: {StepWorkHours},
	FieldOtherActivities:  {StepActivities},
	FieldVolunteerHours:   {StepActivitiesVolunteer},
	FieldSchoolHours:      {StepActivitiesSchool},
	FieldWorkProgramHours: {StepActivitiesWorkProgram},
}

func (f Field) allowedOn(step Step) (known, allowed bool) {
	steps, ok := fieldSteps[f]
	if !ok {
		return false, false
	}
	for _, s := range steps {
		if s == step {
			return true, true
		}
	}
	return true, false
}

// apply validates value for field and writes it to draft. draft is left
// untouched when an error is returned.
func (f Field) apply(draft *types.AssessmentResponses, value any) error {
	switch f {
	case FieldReceivedNotice:
		received, err := asBool(f, value)
		if err != nil {
			return err
		}
		draft.ReceivedAgencyNotice = &received

	case FieldNoticeMonths:
		months, err := asCount(f, value)
		if err != nil {
			return err
		}
		if draft.Notice == nil {
			draft.Notice = &types.NoticeContext{}
		}
		draft.Notice.MonthsRequired = &months

	case FieldNoticeDeadline:
		deadline, ok := value.(time.Time)
		if !ok || deadline.IsZero() {
			return fmt.Errorf("%w: %s expects a date, got %T", types.ErrInvalidAnswer, f, value)
		}
		if draft.Notice == nil {
			draft.Notice = &types.NoticeContext{}
		}
		deadline = time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
		draft.Notice.Deadline = &deadline

	case FieldCheckExemptions:
		check, err := asBool(f, value)
		if err != nil {
			return err
		}
		skip := !check
		draft.SkipToWorkQuestions = &skip

	case FieldJobStatus:
		status, err := asJobStatus(value)
		if err != nil {
			return err
		}
		hasJob := status != JobNone
		seasonal := status == JobSeasonal
		if draft.Seasonal() && !seasonal {
			// Monthly income was averaged from the seasonal total.
			draft.MonthlyIncome = types.Figure{}
		}
		draft.HasJob = &hasJob
		draft.IsSeasonalWork = &seasonal
		pruneWork(draft)

	case FieldSixMonthIncome:
		total, err := asFigure(f, value)
		if err != nil {
			return err
		}
		draft.SixMonthIncome = total
		draft.MonthlyIncome = seasonalIncome(total)

	case FieldPayFrequency:
		var frequency types.PayFrequency
		switch v := value.(type) {
		case types.PayFrequency:
			frequency = v
		case string:
			frequency = types.PayFrequency(v)
		}
		if !frequency.Valid() {
			return fmt.Errorf("%w: unknown pay frequency %v", types.ErrInvalidAnswer, value)
		}
		draft.PaymentFrequency = frequency

	case FieldMonthlyIncome:
		if paycheck, ok := value.(types.Paycheck); ok {
			if err := checkRange(f, paycheck.Amount); err != nil {
				return err
			}
			frequency := paycheck.Frequency
			if frequency == "" {
				frequency = draft.PaymentFrequency
			}
			income := recommend.MonthlyIncomeFromPaycheck(paycheck.Amount, frequency)
			if income >= MaxFigure {
				return fmt.Errorf("%w: %s is too large", types.ErrInvalidAnswer, f)
			}
			draft.MonthlyIncome = types.Reported(income)
			return nil
		}
		income, err := asFigure(f, value)
		if err != nil {
			return err
		}
		draft.MonthlyIncome = income

	case FieldMonthlyWorkHours, FieldVolunteerHours, FieldSchoolHours, FieldWorkProgramHours:
		hours, err := asHours(f, value)
		if err != nil {
			return err
		}
		*f.hoursTarget(draft) = hours

	case FieldOtherActivities:
		activities, ok := value.(types.ActivitySet)
		if !ok {
			return fmt.Errorf("%w: %s expects a set of activities, got %T", types.ErrInvalidAnswer, f, value)
		}
		draft.OtherActivities = &activities
		// Hours for activities the user no longer does must not count.
		if !activities.Volunteer {
			draft.VolunteerHoursPerMonth = types.Figure{}
		}
		if !activities.School {
			draft.SchoolHoursPerMonth = types.Figure{}
		}
		if !activities.WorkProgram {
			draft.WorkProgramHoursPerMonth = types.Figure{}
		}

	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownField, f)
	}
	return nil
}

// pruneWork drops work answers from branches the job status no longer
// leads through and reports whether it removed anything.
func pruneWork(draft *types.AssessmentResponses) bool {
	if draft.HasJob == nil {
		return false
	}

	pruned := false
	reset := func(figure *types.Figure) {
		if figure.Answered() {
			*figure = types.Figure{}
			pruned = true
		}
	}

	switch {
	case !*draft.HasJob:
		reset(&draft.MonthlyIncome)
		reset(&draft.SixMonthIncome)
		reset(&draft.MonthlyWorkHours)
		if draft.PaymentFrequency != "" {
			draft.PaymentFrequency = ""
			pruned = true
		}
	case draft.Seasonal():
		if draft.PaymentFrequency != "" {
			draft.PaymentFrequency = ""
			pruned = true
		}
		if income := seasonalIncome(draft.SixMonthIncome); draft.MonthlyIncome != income {
			draft.MonthlyIncome = income
			pruned = true
		}
	default:
		reset(&draft.SixMonthIncome)
	}
	return pruned
}

// seasonalIncome is the monthly income a six-month seasonal total stands
// for.
func seasonalIncome(total types.Figure) types.Figure {
	switch total.State {
	case types.FigureNotSure:
		return types.NotSure()
	case types.FigureReported:
		return types.Reported(recommend.SeasonalMonthlyAverage(total.Value))
	}
	return types.Figure{}
}

func (f Field) hoursTarget(draft *types.AssessmentResponses) *types.Figure {
	switch f {
	case FieldVolunteerHours:
		return &draft.VolunteerHoursPerMonth
	case FieldSchoolHours:
		return &draft.SchoolHoursPerMonth
	case FieldWorkProgramHours:
		return &draft.WorkProgramHoursPerMonth
	}
	return &draft.MonthlyWorkHours
}

func asBool(f Field, value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s expects yes or no, got %T", types.ErrInvalidAnswer, f, value)
	}
	return b, nil
}

func asJobStatus(value any) (JobStatus, error) {
	var status JobStatus
	switch v := value.(type) {
	case JobStatus:
		status = v
	case string:
		status = JobStatus(v)
	}
	switch status {
	case JobYearRound, JobGig, JobSeasonal, JobNone:
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown job status %v", types.ErrInvalidAnswer, value)
}

// asCount accepts whole, non-negative numbers in the shapes callers
// decode them into.
func asCount(f Field, value any) (int, error) {
	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	default:
		return 0, fmt.Errorf("%w: %s expects a number, got %T", types.ErrInvalidAnswer, f, value)
	}
	if err := checkRange(f, n); err != nil {
		return 0, err
	}
	return int(math.Floor(n + 0.5)), nil
}

func checkRange(f Field, n float64) error {
	switch {
	case n < 0 || math.IsNaN(n):
		return fmt.Errorf("%w: %s must not be negative", types.ErrInvalidAnswer, f)
	case n > MaxFigure:
		return fmt.Errorf("%w: %s is too large", types.ErrInvalidAnswer, f)
	}
	return nil
}

func asFigure(f Field, value any) (types.Figure, error) {
	if figure, ok := value.(types.Figure); ok {
		switch figure.State {
		case types.FigureNotSure:
			return types.NotSure(), nil
		case types.FigureReported:
			if err := checkRange(f, float64(figure.Value)); err != nil {
				return types.Figure{}, err
			}
			return figure, nil
		}
		return types.Figure{}, fmt.Errorf("%w: %s needs a value or \"not sure\"", types.ErrInvalidAnswer, f)
	}

	n, err := asCount(f, value)
	if err != nil {
		return types.Figure{}, err
	}
	return types.Reported(n), nil
}

func asHours(f Field, value any) (types.Figure, error) {
	if weekly, ok := value.(types.WeeklyHours); ok {
		if err := checkRange(f, float64(weekly)); err != nil {
			return types.Figure{}, err
		}
		hours := recommend.MonthlyHoursFromWeekly(weekly)
		if hours >= MaxFigure {
			return types.Figure{}, fmt.Errorf("%w: %s is too large", types.ErrInvalidAnswer, f)
		}
		return types.Reported(hours), nil
	}
	return asFigure(f, value)
}
