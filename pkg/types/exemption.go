package types

import "time"

type ExemptionCategory string

const (
	ExemptionCategoryAge                  ExemptionCategory = "age"
	ExemptionCategoryFamilyCaregiving     ExemptionCategory = "family-caregiving"
	ExemptionCategoryHealthDisability     ExemptionCategory = "health-disability"
	ExemptionCategoryProgramParticipation ExemptionCategory = "program-participation"
	ExemptionCategoryOther                ExemptionCategory = "other"
)

// QuestionID identifies one exemption predicate in the screening catalogue.
type QuestionID string

const (
	QuestionDateOfBirth       QuestionID = "age-dob"
	QuestionPregnant          QuestionID = "family-pregnant"
	QuestionDependentChild    QuestionID = "family-child"
	QuestionDisabledDependent QuestionID = "family-disabled-dependent"
	QuestionMedicare          QuestionID = "health-medicare"
	QuestionNonMAGI           QuestionID = "health-non-magi"
	QuestionDisabledVeteran   QuestionID = "health-disabled-veteran"
	QuestionMedicallyFrail    QuestionID = "health-medically-frail"
	QuestionSNAPOrTANF        QuestionID = "program-snap-tanf"
	QuestionRehab             QuestionID = "program-rehab"
	QuestionIncarcerated      QuestionID = "other-incarcerated"
	QuestionTribalStatus      QuestionID = "other-tribal"
)

// ExemptionResponses holds the answers to the exemption screening. A nil
// field means the question has not been answered yet; it is never read
// as false.
type ExemptionResponses struct {
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`

	IsPregnantOrPostpartum       *bool `json:"isPregnantOrPostpartum,omitempty"`
	HasDependentChild13OrYounger *bool `json:"hasDependentChild13OrYounger,omitempty"`
	IsParentGuardianOfDisabled   *bool `json:"isParentGuardianOfDisabled,omitempty"`

	IsOnMedicare         *bool `json:"isOnMedicare,omitempty"`
	IsEligibleForNonMAGI *bool `json:"isEligibleForNonMAGI,omitempty"`
	IsDisabledVeteran    *bool `json:"isDisabledVeteran,omitempty"`
	IsMedicallyFrail     *bool `json:"isMedicallyFrail,omitempty"`

	IsOnSNAPOrTANFMeetingRequirements *bool `json:"isOnSNAPOrTANFMeetingRequirements,omitempty"`
	IsInRehabProgram                  *bool `json:"isInRehabProgram,omitempty"`

	IsIncarceratedOrRecentlyReleased *bool `json:"isIncarceratedOrRecentlyReleased,omitempty"`
	HasTribalStatus                  *bool `json:"hasTribalStatus,omitempty"`
}

// Merge copies every answered field of other over r.
func (r *ExemptionResponses) Merge(other ExemptionResponses) {
	if other.DateOfBirth != nil {
		r.DateOfBirth = other.DateOfBirth
	}
	mergeBool(&r.IsPregnantOrPostpartum, other.IsPregnantOrPostpartum)
	mergeBool(&r.HasDependentChild13OrYounger, other.HasDependentChild13OrYounger)
	mergeBool(&r.IsParentGuardianOfDisabled, other.IsParentGuardianOfDisabled)
	mergeBool(&r.IsOnMedicare, other.IsOnMedicare)
	mergeBool(&r.IsEligibleForNonMAGI, other.IsEligibleForNonMAGI)
	mergeBool(&r.IsDisabledVeteran, other.IsDisabledVeteran)
	mergeBool(&r.IsMedicallyFrail, other.IsMedicallyFrail)
	mergeBool(&r.IsOnSNAPOrTANFMeetingRequirements, other.IsOnSNAPOrTANFMeetingRequirements)
	mergeBool(&r.IsInRehabProgram, other.IsInRehabProgram)
	mergeBool(&r.IsIncarceratedOrRecentlyReleased, other.IsIncarceratedOrRecentlyReleased)
	mergeBool(&r.HasTribalStatus, other.HasTribalStatus)
}

// Clone returns a copy that shares no pointers with r.
func (r ExemptionResponses) Clone() ExemptionResponses {
	out := ExemptionResponses{}
	out.Merge(r)
	if r.DateOfBirth != nil {
		dob := *r.DateOfBirth
		out.DateOfBirth = &dob
	}
	return out
}

func mergeBool(dst **bool, src *bool) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

type ExemptionResult struct {
	IsExempt          bool              `json:"isExempt"`
	ExemptionCategory ExemptionCategory `json:"exemptionCategory,omitempty"`
	ExemptionReason   string            `json:"exemptionReason,omitempty"`
	Explanation       string            `json:"explanation"`
	NextSteps         string            `json:"nextSteps"`

	// Provisional marks a not-exempt result computed while some
	// predicate in the chain was still unanswered.
	Provisional bool `json:"provisional"`
}
