package assessment

import (
	"context"
	"errors"
	"time"

	"hourkeep/pkg/types"
)

// MergeResumed builds the starting draft for a returning user. An
// in-progress draft wins over the latest result, which wins over the
// profile's date of birth. Records are merged field by field, so a
// partial progress draft keeps the result's answers it does not have.
func MergeResumed(progress *types.AssessmentProgress, latest *types.AssessmentResult, dateOfBirth *time.Time) types.AssessmentResponses {
	var draft types.AssessmentResponses
	if dateOfBirth != nil {
		dob := *dateOfBirth
		draft.Exemption.DateOfBirth = &dob
	}
	if latest != nil {
		draft.Merge(latest.Responses)
	}
	if progress != nil {
		draft.Merge(progress.Responses)
	}
	return draft
}

// loadResumed reads what the user left behind. Read failures are logged
// and treated as "nothing saved": the user can always start over.
func (c *Controller) loadResumed(ctx context.Context, userID string) types.AssessmentResponses {
	logger := c.logger.WithField("user_id", userID)

	var dob *time.Time
	if c.profiles != nil {
		var err error
		dob, err = c.profiles.DateOfBirth(ctx, userID)
		if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
			logger.WithError(err).Warn("failed to load profile date of birth")
		}
	}

	latest, err := c.store.LoadLatestResult(ctx, userID)
	if err != nil {
		if !errors.Is(err, types.ErrResultNotFound) {
			logger.WithError(err).Warn("failed to load latest assessment result")
		}
		latest = nil
	}

	var progress *types.AssessmentProgress
	if c.opts.PersistProgress {
		progress, err = c.store.LoadProgress(ctx, userID)
		if err != nil {
			if !errors.Is(err, types.ErrProgressNotFound) {
				logger.WithError(err).Warn("failed to load assessment progress")
			}
			progress = nil
		}
	}

	return MergeResumed(progress, latest, dob)
}
