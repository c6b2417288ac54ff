// Package assessment drives one user through the exemption screening and
// the work situation questions, and persists the outcome.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hourkeep/internal/exemption"
	"hourkeep/internal/metrics"
	"hourkeep/internal/recommend"
	"hourkeep/pkg/types"

	"github.com/sirupsen/logrus"
)

// Store is the persistence the controller writes drafts and results to.
type Store interface {
	SaveProgress(ctx context.Context, userID string, step int, responses types.AssessmentResponses) (*types.AssessmentProgress, error)
	LoadProgress(ctx context.Context, userID string) (*types.AssessmentProgress, error)
	CompleteProgress(ctx context.Context, id string) error
	SaveResult(ctx context.Context, userID string, responses types.AssessmentResponses, rec types.Recommendation) (*types.AssessmentResult, error)
	LoadLatestResult(ctx context.Context, userID string) (*types.AssessmentResult, error)
}

// Profiles supplies the date of birth used to pre-fill the age question.
type Profiles interface {
	DateOfBirth(ctx context.Context, userID string) (*time.Time, error)
}

type Options struct {
	ShowIntroduction bool
	PersistProgress  bool
	AutosaveTimeout  time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// State is a read-only view of the controller for the UI.
type State struct {
	UserID         string                    `json:"userId"`
	Step           Step                      `json:"step"`
	QuestionIndex  int                       `json:"questionIndex"`
	Question       *exemption.Question       `json:"question,omitempty"`
	Percent        int                       `json:"percent"`
	CanGoBack      bool                      `json:"canGoBack"`
	Responses      types.AssessmentResponses `json:"responses"`
	Exemption      *types.ExemptionResult    `json:"exemption,omitempty"`
	Recommendation *types.Recommendation     `json:"recommendation,omitempty"`
	Result         *types.AssessmentResult   `json:"result,omitempty"`
}

// Controller is the assessment state machine for a single session. All
// methods are safe to call from multiple goroutines; calls are serialized.
type Controller struct {
	store    Store
	profiles Profiles
	logger   logrus.FieldLogger
	opts     Options
	saver    *autosaver

	mu      sync.Mutex
	started bool
	closed  bool
	userID  string
	step    Step
	index   int
	history []visit
	draft   types.AssessmentResponses

	exemptionResult *types.ExemptionResult

	// ready is set once the flow has reached a point where it finalizes.
	ready          bool
	recommendation *types.Recommendation
	result         *types.AssessmentResult
}

func NewController(store Store, profiles Profiles, logger logrus.FieldLogger, opts Options) *Controller {
	if opts.AutosaveTimeout <= 0 {
		opts.AutosaveTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		store:    store,
		profiles: profiles,
		logger:   logger,
		opts:     opts,
		saver:    newAutosaver(store, logger, opts.AutosaveTimeout),
	}
}

// StartOrResume begins an assessment for userID, pre-filled from any saved
// progress, the latest result and the profile.
func (c *Controller) StartOrResume(ctx context.Context, userID string) (State, error) {
	if userID == "" {
		return State{}, fmt.Errorf("%w: user id is required", types.ErrInvalidAnswer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return State{}, types.ErrNotStarted
	}

	// A restart must not let the previous session's autosave land after
	// the new draft is loaded.
	c.saver.halt()
	c.saver.resume()

	c.started = true
	c.userID = userID
	c.step = StepNotice
	if c.opts.ShowIntroduction {
		c.step = StepIntroduction
	}
	c.index = 0
	c.history = nil
	c.draft = c.loadResumed(ctx, userID)
	c.exemptionResult = nil
	c.ready = false
	c.recommendation = nil
	c.result = nil

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"step":    c.step,
	}).Debug("assessment started")

	return c.stateLocked(), nil
}

// AnswerExemption records the answer to the current screening question and
// moves on. An answer that makes the user exempt finalizes the assessment
// straight away.
func (c *Controller) AnswerExemption(ctx context.Context, id types.QuestionID, value any) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.stateLocked(), err
	}
	if c.step != StepExemption {
		return c.stateLocked(), fmt.Errorf("%w: the current step is %s", types.ErrWrongQuestion, c.step)
	}

	current, _ := exemption.QuestionAt(c.index)
	if current.ID != id {
		if exemption.IndexOf(id) < 0 {
			return c.stateLocked(), fmt.Errorf("%w: %q", types.ErrUnknownQuestion, id)
		}
		return c.stateLocked(), fmt.Errorf("%w: expected %q, got %q", types.ErrWrongQuestion, current.ID, id)
	}

	next := c.draft.Exemption.Clone()
	if err := exemption.Set(&next, id, value, c.opts.Now()); err != nil {
		return c.stateLocked(), err
	}
	c.draft.Exemption = next
	c.changed()

	err := c.continueExemption(ctx)
	return c.stateLocked(), err
}

// Advance moves past the current step using the answers already in the
// draft.
func (c *Controller) Advance(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.stateLocked(), err
	}

	err := c.advanceLocked(ctx)
	return c.stateLocked(), err
}

func (c *Controller) advanceLocked(ctx context.Context) error {
	d := &c.draft

	switch c.step {
	case StepIntroduction:
		c.push(StepNotice)

	case StepNotice:
		if d.ReceivedAgencyNotice == nil {
			return unanswered(c.step)
		}
		if *d.ReceivedAgencyNotice {
			c.push(StepNoticeDetails)
		} else {
			c.push(StepNoticeFollowup)
		}

	case StepNoticeDetails:
		c.push(StepNoticeFollowupWithNotice)

	case StepNoticeFollowup, StepNoticeFollowupWithNotice:
		if d.SkipToWorkQuestions == nil {
			return unanswered(c.step)
		}
		if *d.SkipToWorkQuestions {
			c.push(StepWorkJob)
		} else {
			c.push(StepExemption)
		}

	case StepExemption:
		question, _ := exemption.QuestionAt(c.index)
		if _, ok := exemption.Value(d.Exemption, question.ID); !ok {
			return unanswered(c.step)
		}
		return c.continueExemption(ctx)

	case StepWorkJob:
		if d.HasJob == nil {
			return unanswered(c.step)
		}
		// A resumed draft can still carry figures from another branch.
		if pruneWork(d) {
			c.changed()
		}
		switch {
		case d.Seasonal():
			c.push(StepWorkIncomeSeasonal)
		case d.Employed():
			c.push(StepWorkPayFrequency)
		default:
			c.push(StepActivities)
		}

	case StepWorkIncomeSeasonal:
		if !d.SixMonthIncome.Answered() {
			return unanswered(c.step)
		}
		c.push(StepWorkHours)

	case StepWorkPayFrequency:
		if d.PaymentFrequency == "" {
			return unanswered(c.step)
		}
		c.push(StepWorkIncome)

	case StepWorkIncome:
		if !d.MonthlyIncome.Answered() {
			return unanswered(c.step)
		}
		c.push(StepWorkHours)

	case StepWorkHours:
		if !d.MonthlyWorkHours.Answered() {
			return unanswered(c.step)
		}
		c.push(StepActivities)

	case StepActivities, StepActivitiesVolunteer, StepActivitiesSchool, StepActivitiesWorkProgram:
		if !c.activityAnswered() {
			return unanswered(c.step)
		}
		if next, ok := nextActivity(c.step, *d.OtherActivities); ok {
			c.push(next)
			return nil
		}
		c.ready = true
		_, err := c.finalizeLocked(ctx)
		return err
	}

	return nil
}

// GoBack returns to exactly the step the user came from.
func (c *Controller) GoBack(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.stateLocked(), err
	}

	if c.step == StepExemption && c.index > 0 {
		c.index--
	} else {
		if len(c.history) == 0 {
			return c.stateLocked(), types.ErrNoPreviousStep
		}
		last := c.history[len(c.history)-1]
		c.history = c.history[:len(c.history)-1]
		c.step = last.step
		c.index = last.index
	}

	c.ready = false
	c.changed()
	c.autosave()
	return c.stateLocked(), nil
}

// AnswerWorkSituation records one answer on the current step. It does not
// move the flow; call Advance for that.
func (c *Controller) AnswerWorkSituation(ctx context.Context, field Field, value any) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireActive(); err != nil {
		return c.stateLocked(), err
	}

	known, allowed := field.allowedOn(c.step)
	if !known {
		return c.stateLocked(), fmt.Errorf("%w: %q", types.ErrUnknownField, field)
	}
	if !allowed {
		return c.stateLocked(), fmt.Errorf("%w: %s is not asked on %s", types.ErrFieldNotOnStep, field, c.step)
	}

	next := c.draft.Clone()
	if err := field.apply(&next, value); err != nil {
		return c.stateLocked(), err
	}
	c.draft = next
	c.changed()
	c.autosave()

	return c.stateLocked(), nil
}

// Finalize computes and persists the recommendation. Once the assessment
// is complete it returns the same recommendation without touching the
// store again.
func (c *Controller) Finalize(ctx context.Context) (types.Recommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.closed {
		return types.Recommendation{}, types.ErrNotStarted
	}
	return c.finalizeLocked(ctx)
}

func (c *Controller) finalizeLocked(ctx context.Context) (types.Recommendation, error) {
	if c.step == StepComplete {
		return *c.recommendation, nil
	}
	if !c.ready {
		return types.Recommendation{}, types.ErrNotReady
	}

	logger := c.logger.WithFields(logrus.Fields{
		"user_id": c.userID,
		"step":    c.step,
	})

	if c.recommendation == nil {
		rec := recommend.Recommend(c.draft, c.opts.Now())
		c.recommendation = &rec
	}

	// No autosave may land once the result is being written; otherwise it
	// could recreate the progress record after it is completed.
	c.saver.halt()

	if c.result == nil {
		result, err := c.store.SaveResult(ctx, c.userID, c.draft.Clone(), *c.recommendation)
		if err != nil {
			metrics.FinalizeFailures.Inc()
			logger.WithError(err).Error("failed to save assessment result")
			c.saver.resume()
			c.autosave()
			return types.Recommendation{}, fmt.Errorf("%w: %w", types.ErrPersistFinalize, err)
		}
		c.result = result
	}

	if c.opts.PersistProgress {
		if err := c.completeProgress(ctx); err != nil {
			metrics.FinalizeFailures.Inc()
			logger.WithError(err).Error("failed to complete assessment progress")
			return types.Recommendation{}, fmt.Errorf("%w: %w", types.ErrPersistFinalize, err)
		}
	}

	c.history = append(c.history, visit{step: c.step, index: c.index})
	c.step = StepComplete
	c.ready = false

	metrics.AssessmentsFinalized.WithLabelValues(string(c.recommendation.PrimaryMethod)).Inc()
	logger.WithField("method", c.recommendation.PrimaryMethod).Info("assessment finalized")

	return *c.recommendation, nil
}

func (c *Controller) completeProgress(ctx context.Context) error {
	progress, err := c.store.LoadProgress(ctx, c.userID)
	if err != nil {
		if errors.Is(err, types.ErrProgressNotFound) {
			return nil
		}
		return err
	}
	return c.store.CompleteProgress(ctx, progress.ID)
}

// ProgressPercent is for display only; nothing in the flow reads it.
func (c *Controller) ProgressPercent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Percent(c.step, c.index)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) Responses() types.AssessmentResponses {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Flush blocks until queued autosaves have been written.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saver.flush()
}

// Close stops autosaving. Every later call that would change the draft
// fails with ErrNotStarted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.saver.halt()
}

func (c *Controller) requireActive() error {
	if !c.started || c.closed {
		return types.ErrNotStarted
	}
	if c.step == StepComplete {
		return types.ErrAssessmentComplete
	}
	return nil
}

func (c *Controller) continueExemption(ctx context.Context) error {
	answered := exemption.Answered(c.draft.Exemption, c.index)
	result := exemption.Evaluate(answered, c.opts.Now())
	c.exemptionResult = &result

	if result.IsExempt {
		c.ready = true
		_, err := c.finalizeLocked(ctx)
		return err
	}

	if c.index < exemption.Count()-1 {
		c.index++
		c.autosave()
		return nil
	}
	c.push(StepWorkJob)
	return nil
}

func (c *Controller) push(step Step) {
	c.history = append(c.history, visit{step: c.step, index: c.index})
	c.step = step
	c.index = 0
	c.autosave()
}

// changed drops anything derived from the draft as it stood before.
func (c *Controller) changed() {
	c.recommendation = nil
	c.result = nil
	if !c.closed {
		c.saver.resume()
	}
}

func (c *Controller) autosave() {
	if c.closed || !c.opts.PersistProgress || !c.step.autosaved() {
		return
	}
	c.saver.enqueue(snapshot{
		userID:    c.userID,
		step:      c.step,
		percent:   Percent(c.step, c.index),
		responses: c.draft.Clone(),
	})
}

func (c *Controller) activityAnswered() bool {
	switch c.step {
	case StepActivities:
		return c.draft.OtherActivities != nil
	case StepActivitiesVolunteer:
		return c.draft.VolunteerHoursPerMonth.Answered()
	case StepActivitiesSchool:
		return c.draft.SchoolHoursPerMonth.Answered()
	case StepActivitiesWorkProgram:
		return c.draft.WorkProgramHoursPerMonth.Answered()
	}
	return false
}

var activityOrder = []struct {
	step     Step
	selected func(types.ActivitySet) bool
}{
	{StepActivitiesVolunteer, func(a types.ActivitySet) bool { return a.Volunteer }},
	{StepActivitiesSchool, func(a types.ActivitySet) bool { return a.School }},
	{StepActivitiesWorkProgram, func(a types.ActivitySet) bool { return a.WorkProgram }},
}

// nextActivity returns the first selected activity detail step after
// current, in the fixed order volunteer, school, work program.
func nextActivity(current Step, selected types.ActivitySet) (Step, bool) {
	passed := current == StepActivities
	for _, activity := range activityOrder {
		if !passed {
			passed = activity.step == current
			continue
		}
		if activity.selected(selected) {
			return activity.step, true
		}
	}
	return "", false
}

func unanswered(step Step) error {
	return fmt.Errorf("%w: %s", types.ErrUnanswered, step)
}

func (c *Controller) stateLocked() State {
	state := State{
		UserID:        c.userID,
		Step:          c.step,
		QuestionIndex: c.index,
		Percent:       Percent(c.step, c.index),
		Responses:     c.draft.Clone(),
	}

	if c.step == StepExemption {
		if q, ok := exemption.QuestionAt(c.index); ok {
			state.Question = &q
		}
	}
	if c.step != StepComplete {
		state.CanGoBack = (c.step == StepExemption && c.index > 0) || len(c.history) > 0
	}
	if c.exemptionResult != nil {
		result := *c.exemptionResult
		state.Exemption = &result
	}
	if c.step == StepComplete {
		rec := *c.recommendation
		state.Recommendation = &rec
		state.Result = c.result
	}

	return state
}
