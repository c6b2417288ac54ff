package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hourkeep/internal/exemption"
	"hourkeep/internal/recommend"
	"hourkeep/internal/store"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/sirupsen/logrus"
)

func screenedNotExempt(dob time.Time) types.ExemptionResponses {
	no := utils.BoolPtr(false)
	return types.ExemptionResponses{
		DateOfBirth:                       utils.TimePtr(dob),
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

// demoResponses gives each demo profile a finished assessment that lands
// on a different compliance method.
func demoResponses(demo demoProfile) types.AssessmentResponses {
	responses := types.AssessmentResponses{
		ReceivedAgencyNotice: utils.BoolPtr(false),
		SkipToWorkQuestions:  utils.BoolPtr(false),
		Exemption:            screenedNotExempt(demo.DateOfBirth),
	}

	switch demo.DisplayName {
	case "Ava":
		responses.HasJob = utils.BoolPtr(true)
		responses.IsSeasonalWork = utils.BoolPtr(false)
		responses.PaymentFrequency = types.PayBiweekly
		responses.MonthlyIncome = types.Reported(recommend.MonthlyIncomeFromPaycheck(450, types.PayBiweekly))
		responses.MonthlyWorkHours = types.Reported(recommend.MonthlyHoursFromWeekly(25))
		responses.OtherActivities = &types.ActivitySet{}
	case "Liam":
		responses.HasJob = utils.BoolPtr(true)
		responses.IsSeasonalWork = utils.BoolPtr(false)
		responses.PaymentFrequency = types.PayWeekly
		responses.MonthlyIncome = types.Reported(recommend.MonthlyIncomeFromPaycheck(90, types.PayWeekly))
		responses.MonthlyWorkHours = types.Reported(recommend.MonthlyHoursFromWeekly(12))
		responses.OtherActivities = &types.ActivitySet{Volunteer: true}
		responses.VolunteerHoursPerMonth = types.Reported(20)
	case "Mia":
		responses.HasJob = utils.BoolPtr(true)
		responses.IsSeasonalWork = utils.BoolPtr(true)
		responses.SixMonthIncome = types.Reported(4200)
		responses.MonthlyIncome = types.Reported(recommend.SeasonalMonthlyAverage(4200))
		responses.MonthlyWorkHours = types.NotSure()
		responses.OtherActivities = &types.ActivitySet{}
	case "Elijah":
		responses.HasJob = utils.BoolPtr(false)
		responses.OtherActivities = &types.ActivitySet{School: true}
		responses.SchoolHoursPerMonth = types.Reported(40)
	}
	return responses
}

// SeedAssessments stores a finished assessment for every demo profile that
// has none yet.
func SeedAssessments(ctx context.Context, logger logrus.FieldLogger, results *store.ResultRepository) error {
	now := time.Now()
	seeded := 0
	for _, demo := range demoProfiles {
		_, err := results.LoadLatestResult(ctx, demo.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrResultNotFound) {
			return fmt.Errorf("failed to fetch demo result %s: %w", demo.ID, err)
		}

		responses := demoResponses(demo)
		rec := recommend.Recommend(responses, now)
		if _, err := results.SaveResult(ctx, demo.ID, responses, rec); err != nil {
			return fmt.Errorf("failed to seed demo result %s: %w", demo.ID, err)
		}

		logger.WithFields(logrus.Fields{
			"user_id": demo.ID,
			"method":  rec.PrimaryMethod,
			"exempt":  exemption.Evaluate(responses.Exemption, now).IsExempt,
		}).Debug("demo assessment seeded")
		seeded++
	}

	logger.WithField("count", seeded).Info("demo assessments seeded")
	return nil
}
