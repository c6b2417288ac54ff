package exemption

import (
	"time"

	"hourkeep/pkg/types"
)

const (
	// Ages at or below MaxYouthAge and at or above MinSeniorAge are exempt.
	MaxYouthAge  = 18
	MinSeniorAge = 65
)

const defaultNextSteps = "You don't need to track hours. You can still use this app if you want to track your activities."

type rule struct {
	question types.QuestionID
	category types.ExemptionCategory
	applies  func(r types.ExemptionResponses, asOf time.Time) (reason, explanation string, ok bool)
	next     string
}

// rules is the exemption priority chain. The first rule that applies
// decides the category and reason; nothing after it is looked at.
var rules = []rule{
	{
		question: types.QuestionDateOfBirth,
		category: types.ExemptionCategoryAge,
		applies: func(r types.ExemptionResponses, asOf time.Time) (string, string, bool) {
			if r.DateOfBirth == nil {
				return "", "", false
			}
			age := Age(*r.DateOfBirth, asOf)
			if age <= MaxYouthAge {
				return "18 years old or younger", "You're exempt from work requirements because you're 18 or younger.", true
			}
			if age >= MinSeniorAge {
				return "65 years old or older", "You're exempt from work requirements because you're 65 or older.", true
			}
			return "", "", false
		},
		next: defaultNextSteps,
	},
	{
		question: types.QuestionPregnant,
		category: types.ExemptionCategoryFamilyCaregiving,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsPregnantOrPostpartum },
			"Pregnant or recently gave birth",
			"You're exempt from work requirements because you're pregnant or recently gave birth."),
		next: "You don't need to track hours right now. You may need to check again after 60 days from giving birth.",
	},
	{
		question: types.QuestionDependentChild,
		category: types.ExemptionCategoryFamilyCaregiving,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.HasDependentChild13OrYounger },
			"Has dependent child 13 or younger",
			"You're exempt from work requirements because you live with a child age 13 or younger."),
		next: "You don't need to track hours. If your child turns 14 or your living situation changes, check again.",
	},
	{
		question: types.QuestionDisabledDependent,
		category: types.ExemptionCategoryFamilyCaregiving,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsParentGuardianOfDisabled },
			"Parent or guardian of someone with a disability",
			"You are exempt from work requirements because you are a parent or guardian of someone with a disability."),
		next: defaultNextSteps,
	},
	{
		question: types.QuestionMedicare,
		category: types.ExemptionCategoryHealthDisability,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsOnMedicare },
			"Has Medicare",
			"You're exempt from work requirements because you have Medicare."),
		next: defaultNextSteps,
	},
	{
		question: types.QuestionNonMAGI,
		category: types.ExemptionCategoryHealthDisability,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsEligibleForNonMAGI },
			"Gets Medicaid for disability or long-term care (non-MAGI Medicaid)",
			"You're exempt from work requirements because you get Medicaid for a disability or long-term care needs (non-MAGI Medicaid)."),
		next: defaultNextSteps,
	},
	{
		question: types.QuestionDisabledVeteran,
		category: types.ExemptionCategoryHealthDisability,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsDisabledVeteran },
			"Disabled veteran",
			"You're exempt from work requirements because you're a veteran with a 100% disability rating from the VA."),
		next: defaultNextSteps,
	},
	{
		question: types.QuestionMedicallyFrail,
		category: types.ExemptionCategoryHealthDisability,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsMedicallyFrail },
			"Has a serious health condition or disability",
			"You're exempt from work requirements because you have a serious health condition or disability (defined as medically frail or special needs)."),
		next: defaultNextSteps,
	},
	{
		question: types.QuestionSNAPOrTANF,
		category: types.ExemptionCategoryProgramParticipation,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsOnSNAPOrTANFMeetingRequirements },
			"Meeting work requirements for food stamps (SNAP) or cash assistance (TANF)",
			"You're exempt from Medicaid work requirements because you're already meeting work requirements for food stamps (SNAP) or cash assistance (TANF)."),
		next: "You don't need to track hours for Medicaid. Keep meeting your food stamps or cash assistance requirements.",
	},
	{
		question: types.QuestionRehab,
		category: types.ExemptionCategoryProgramParticipation,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsInRehabProgram },
			"In drug or alcohol treatment program",
			"You're exempt from work requirements because you're in a drug or alcohol treatment program."),
		next: "You don't need to track hours during treatment. Focus on your recovery.",
	},
	{
		question: types.QuestionIncarcerated,
		category: types.ExemptionCategoryOther,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.IsIncarceratedOrRecentlyReleased },
			"In jail/prison or recently released",
			"You're exempt from work requirements because you're currently in jail or prison, or were released in the last 3 months."),
		next: "You don't need to track hours during this time. You may need to check again 3 months after your release date.",
	},
	{
		question: types.QuestionTribalStatus,
		category: types.ExemptionCategoryOther,
		applies: flag(func(r types.ExemptionResponses) *bool { return r.HasTribalStatus },
			"Native American tribal member or IHS-eligible",
			"You're exempt from work requirements because you're a member of a Native American tribe or eligible for Indian Health Service."),
		next: defaultNextSteps,
	},
}

func flag(get func(types.ExemptionResponses) *bool, reason, explanation string) func(types.ExemptionResponses, time.Time) (string, string, bool) {
	return func(r types.ExemptionResponses, _ time.Time) (string, string, bool) {
		v := get(r)
		if v == nil || !*v {
			return "", "", false
		}
		return reason, explanation, true
	}
}

// Evaluate runs the exemption rule chain over responses. Unanswered
// questions are skipped, never read as "no". A not-exempt result is
// provisional until every question in the chain has been answered.
func Evaluate(responses types.ExemptionResponses, asOf time.Time) types.ExemptionResult {
	for _, rl := range rules {
		reason, explanation, ok := rl.applies(responses, asOf)
		if !ok {
			continue
		}
		return types.ExemptionResult{
			IsExempt:          true,
			ExemptionCategory: rl.category,
			ExemptionReason:   reason,
			Explanation:       explanation,
			NextSteps:         rl.next,
		}
	}

	return types.ExemptionResult{
		IsExempt:    false,
		Explanation: "Based on your answers, you need to meet work requirements to keep your Medicaid.",
		NextSteps:   "You need to do 80 hours per month of work, volunteering, or school. Use this app to track your hours each month.",
		Provisional: !Complete(responses),
	}
}

// Age returns the whole years between dob and asOf, rolling back a year
// when the birthday has not come round yet in asOf's year.
func Age(dob, asOf time.Time) int {
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age
}
