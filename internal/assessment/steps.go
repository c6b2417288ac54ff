package assessment

import (
	"hourkeep/internal/exemption"
)

type Step string

const (
	StepIntroduction             Step = "introduction"
	StepNotice                   Step = "notice"
	StepNoticeDetails            Step = "notice-details"
	StepNoticeFollowupWithNotice Step = "notice-followup-with-notice"
	StepNoticeFollowup           Step = "notice-followup"
	StepExemption                Step = "exemption"
	StepWorkJob                  Step = "work-job"
	StepWorkIncomeSeasonal       Step = "work-income-seasonal"
	StepWorkPayFrequency         Step = "work-pay-frequency"
	StepWorkIncome               Step = "work-income"
	StepWorkHours                Step = "work-hours"
	StepActivities               Step = "activities"
	StepActivitiesVolunteer      Step = "activities-volunteer"
	StepActivitiesSchool         Step = "activities-school"
	StepActivitiesWorkProgram    Step = "activities-work-program"
	StepComplete                 Step = "complete"
)

// visit is one entry on the back-navigation stack. Index is only
// meaningful for the exemption step.
type visit struct {
	step  Step
	index int
}

// stepPercent is the progress shown for every step outside the exemption
// screening. Values never decrease along any forward path.
var stepPercent = map[Step]int{
	StepIntroduction:             0,
	StepNotice:                   15,
	StepNoticeDetails:            20,
	StepNoticeFollowupWithNotice: 25,
	StepNoticeFollowup:           25,
	StepWorkJob:                  60,
	StepWorkIncomeSeasonal:       65,
	StepWorkPayFrequency:         65,
	StepWorkIncome:               70,
	StepWorkHours:                75,
	StepActivities:               80,
	StepActivitiesVolunteer:      85,
	StepActivitiesSchool:         88,
	StepActivitiesWorkProgram:    91,
	StepComplete:                 100,
}

const (
	exemptionPercentStart = 25
	exemptionPercentSpan  = 35
)

// Percent is the progress for step at the given exemption question
// index. It is for display only.
func Percent(step Step, index int) int {
	if step == StepExemption {
		count := exemption.Count()
		if index < 0 {
			index = 0
		}
		if index > count {
			index = count
		}
		return exemptionPercentStart + index*exemptionPercentSpan/count
	}
	return stepPercent[step]
}

// autosaved reports whether a draft sitting on step is worth persisting.
func (s Step) autosaved() bool {
	return s != StepIntroduction && s != StepComplete
}
