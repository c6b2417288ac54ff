package types

import "time"

type ComplianceMethod string

const (
	MethodExemption              ComplianceMethod = "exemption"
	MethodIncomeTracking         ComplianceMethod = "income-tracking"
	MethodSeasonalIncomeTracking ComplianceMethod = "seasonal-income-tracking"
	MethodHourTracking           ComplianceMethod = "hour-tracking"
)

type ComplianceStatus string

const (
	ComplianceCompliant     ComplianceStatus = "compliant"
	ComplianceNeedsIncrease ComplianceStatus = "needs-increase"
	ComplianceUnknown       ComplianceStatus = "unknown"
)

type EstimatedEffort string

const (
	EffortLow    EstimatedEffort = "low"
	EffortMedium EstimatedEffort = "medium"
	EffortHigh   EstimatedEffort = "high"
)

type PayFrequency string

const (
	PayWeekly   PayFrequency = "weekly"
	PayBiweekly PayFrequency = "biweekly"
	PayMonthly  PayFrequency = "monthly"
	PayVaries   PayFrequency = "varies"
	PayNotSure  PayFrequency = "not-sure"
)

func (p PayFrequency) Valid() bool {
	switch p {
	case PayWeekly, PayBiweekly, PayMonthly, PayVaries, PayNotSure:
		return true
	}
	return false
}

type FigureState string

const (
	FigureUnanswered FigureState = ""
	FigureNotSure    FigureState = "not_sure"
	FigureReported   FigureState = "reported"
)

// Figure is a numeric answer that keeps "not answered", "not sure" and a
// reported value (including a confirmed zero) apart.
type Figure struct {
	State FigureState `json:"state,omitempty"`
	Value int         `json:"value,omitempty"`
}

func Reported(v int) Figure {
	return Figure{State: FigureReported, Value: v}
}

func NotSure() Figure {
	return Figure{State: FigureNotSure}
}

func (f Figure) Answered() bool {
	return f.State == FigureReported || f.State == FigureNotSure
}

func (f Figure) IsNotSure() bool {
	return f.State == FigureNotSure
}

// Amount is the value used for threshold arithmetic. Anything other than a
// reported value counts as zero.
func (f Figure) Amount() int {
	if f.State != FigureReported {
		return 0
	}
	return f.Value
}

// WeeklyHours is accepted wherever monthly hours are asked and converted
// with the weeks-per-month factor.
type WeeklyHours float64

// Paycheck is accepted wherever monthly income is asked and converted with
// the pay frequency factor.
type Paycheck struct {
	Amount    float64
	Frequency PayFrequency
}

type ActivitySet struct {
	Volunteer   bool `json:"volunteer"`
	School      bool `json:"school"`
	WorkProgram bool `json:"workProgram"`
}

func (a ActivitySet) Any() bool {
	return a.Volunteer || a.School || a.WorkProgram
}

type NoticeContext struct {
	MonthsRequired *int       `json:"monthsRequired,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

type AssessmentResponses struct {
	ReceivedAgencyNotice *bool          `json:"receivedAgencyNotice,omitempty"`
	SkipToWorkQuestions  *bool          `json:"skipToWorkQuestions,omitempty"`
	Notice               *NoticeContext `json:"noticeContext,omitempty"`

	Exemption ExemptionResponses `json:"exemption"`

	HasJob           *bool        `json:"hasJob,omitempty"`
	IsSeasonalWork   *bool        `json:"isSeasonalWork,omitempty"`
	PaymentFrequency PayFrequency `json:"paymentFrequency,omitempty"`
	MonthlyIncome    Figure       `json:"monthlyIncome"`
	SixMonthIncome   Figure       `json:"sixMonthIncome"`
	MonthlyWorkHours Figure       `json:"monthlyWorkHours"`

	OtherActivities          *ActivitySet `json:"otherActivities,omitempty"`
	VolunteerHoursPerMonth   Figure       `json:"volunteerHoursPerMonth"`
	SchoolHoursPerMonth      Figure       `json:"schoolHoursPerMonth"`
	WorkProgramHoursPerMonth Figure       `json:"workProgramHoursPerMonth"`
}

// Seasonal reports whether the user answered that their work is seasonal.
func (r AssessmentResponses) Seasonal() bool {
	return r.IsSeasonalWork != nil && *r.IsSeasonalWork
}

// Employed reports whether the user answered that they have a job.
func (r AssessmentResponses) Employed() bool {
	return r.HasJob != nil && *r.HasJob
}

// TotalMonthlyHours sums work, volunteer, school and work program hours.
func (r AssessmentResponses) TotalMonthlyHours() int {
	return r.MonthlyWorkHours.Amount() +
		r.VolunteerHoursPerMonth.Amount() +
		r.SchoolHoursPerMonth.Amount() +
		r.WorkProgramHoursPerMonth.Amount()
}

// Merge overlays every answered field of other onto r. The exemption block
// is merged key by key.
func (r *AssessmentResponses) Merge(other AssessmentResponses) {
	mergeBool(&r.ReceivedAgencyNotice, other.ReceivedAgencyNotice)
	mergeBool(&r.SkipToWorkQuestions, other.SkipToWorkQuestions)
	if other.Notice != nil {
		if r.Notice == nil {
			r.Notice = &NoticeContext{}
		}
		if other.Notice.MonthsRequired != nil {
			months := *other.Notice.MonthsRequired
			r.Notice.MonthsRequired = &months
		}
		if other.Notice.Deadline != nil {
			deadline := *other.Notice.Deadline
			r.Notice.Deadline = &deadline
		}
	}

	r.Exemption.Merge(other.Exemption)

	mergeBool(&r.HasJob, other.HasJob)
	mergeBool(&r.IsSeasonalWork, other.IsSeasonalWork)
	if other.PaymentFrequency != "" {
		r.PaymentFrequency = other.PaymentFrequency
	}
	mergeFigure(&r.MonthlyIncome, other.MonthlyIncome)
	mergeFigure(&r.SixMonthIncome, other.SixMonthIncome)
	mergeFigure(&r.MonthlyWorkHours, other.MonthlyWorkHours)

	if other.OtherActivities != nil {
		activities := *other.OtherActivities
		r.OtherActivities = &activities
	}
	mergeFigure(&r.VolunteerHoursPerMonth, other.VolunteerHoursPerMonth)
	mergeFigure(&r.SchoolHoursPerMonth, other.SchoolHoursPerMonth)
	mergeFigure(&r.WorkProgramHoursPerMonth, other.WorkProgramHoursPerMonth)
}

// Clone returns a deep copy of r.
func (r AssessmentResponses) Clone() AssessmentResponses {
	out := AssessmentResponses{}
	out.Merge(r)
	out.Exemption = r.Exemption.Clone()
	return out
}

func mergeFigure(dst *Figure, src Figure) {
	if src.Answered() {
		*dst = src
	}
}

type Recommendation struct {
	PrimaryMethod      ComplianceMethod   `json:"primaryMethod"`
	Reasoning          string             `json:"reasoning"`
	AlternativeMethods []ComplianceMethod `json:"alternativeMethods"`
	ComplianceStatus   ComplianceStatus   `json:"complianceStatus"`
	EstimatedEffort    EstimatedEffort    `json:"estimatedEffort"`
}

type AssessmentProgress struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	StartedAt     time.Time           `json:"startedAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	CurrentStep   int                 `json:"currentStep"`
	Responses     AssessmentResponses `json:"responses"`
	IsComplete    bool                `json:"isComplete"`
}

type AssessmentResult struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	CompletedAt    time.Time           `json:"completedAt"`
	Responses      AssessmentResponses `json:"responses"`
	Recommendation Recommendation      `json:"recommendation"`
	Version        int                 `json:"version"`
}

type AssessmentHistoryEntry struct {
	ID                string           `db:"id" json:"id"`
	UserID            string           `db:"user_id" json:"userId"`
	CompletedAt       time.Time        `db:"completed_at" json:"completedAt"`
	ExemptionStatus   bool             `db:"exemption_status" json:"exemptionStatus"`
	RecommendedMethod ComplianceMethod `db:"recommended_method" json:"recommendedMethod"`
}
