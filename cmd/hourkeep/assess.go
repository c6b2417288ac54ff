package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"hourkeep/internal/assessment"
	"hourkeep/internal/exemption"
	"hourkeep/internal/recommend"
	"hourkeep/internal/store"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var assessCommand = &cli.Command{
	Name:  "assess",
	Usage: "Walk through the assessment in the terminal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "profile",
			Usage: "Profile to assess; a new profile is created when empty",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Display name for a new profile",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	},
	Action: assess,
}

func assess(c *cli.Context) error {
	ctx := context.Background()

	config, logger, database, err := setup(ctx, c, false)
	if err != nil {
		return err
	}
	defer database.Close()

	color.NoColor = c.Bool("no-color") || !isTerminal(os.Stdout)

	profiles := store.NewProfileRepository(database)
	profileID := c.String("profile")
	if profileID == "" {
		profile := &types.Profile{DisplayName: utils.NilIfEmpty(c.String("name"))}
		if err := profiles.CreateProfile(ctx, profile); err != nil {
			return err
		}
		profileID = profile.ID
		fmt.Printf("Created profile %s\n", profileID)
	} else if _, err := profiles.Profile(ctx, profileID); err != nil {
		return err
	}

	controller := assessment.NewController(store.NewAssessmentStore(database), profiles, logger, assessment.Options{
		ShowIntroduction: config.ShowIntroduction,
		PersistProgress:  config.PersistProgress,
		AutosaveTimeout:  time.Duration(config.AutosaveTimeoutSec) * time.Second,
	})
	defer controller.Close()

	return newTerminal(os.Stdin, os.Stdout, controller).run(ctx, profileID)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	hintColor    = color.New(color.Faint)
	errorColor   = color.New(color.FgRed)
	goodColor    = color.New(color.FgGreen, color.Bold)
)

type prompt struct {
	field    assessment.Field
	question string
	hint     string
	list     bool
}

const hoursHint = "hours per month, like 20/week, or not sure"

var stepPrompts = map[assessment.Step][]prompt{
	assessment.StepNotice: {
		{field: assessment.FieldReceivedNotice, question: "Did you get a letter or notice about Medicaid work requirements?", hint: "yes or no"},
	},
	assessment.StepNoticeDetails: {
		{field: assessment.FieldNoticeMonths, question: "How many months does the notice say you need to show?", hint: "a number, blank to skip"},
		{field: assessment.FieldNoticeDeadline, question: "What is the deadline on the notice?", hint: "YYYY-MM-DD, blank to skip"},
	},
	assessment.StepNoticeFollowup: {
		{field: assessment.FieldCheckExemptions, question: "Do you want to check whether you might be exempt first?", hint: "yes or no"},
	},
	assessment.StepNoticeFollowupWithNotice: {
		{field: assessment.FieldCheckExemptions, question: "Before planning how to meet the requirement, do you want to check for exemptions?", hint: "yes or no"},
	},
	assessment.StepWorkJob: {
		{field: assessment.FieldJobStatus, question: "Do you have a job right now?", hint: "yes, yes-gig, yes-seasonal or no"},
	},
	assessment.StepWorkIncomeSeasonal: {
		{field: assessment.FieldSixMonthIncome, question: "About how much did you earn in total over the last 6 months?", hint: "dollars, or not sure"},
	},
	assessment.StepWorkPayFrequency: {
		{field: assessment.FieldPayFrequency, question: "How often do you get paid?", hint: "weekly, biweekly, monthly, varies or not-sure"},
	},
	assessment.StepWorkIncome: {
		{field: assessment.FieldMonthlyIncome, question: "About how much do you earn?", hint: "dollars per month, like 300/paycheck, or not sure"},
	},
	assessment.StepWorkHours: {
		{field: assessment.FieldMonthlyWorkHours, question: "About how many hours do you work?", hint: hoursHint},
	},
	assessment.StepActivities: {
		{field: assessment.FieldOtherActivities, question: "Do you volunteer, go to school, or take part in a work program?", hint: "volunteer, school, work-program separated by commas, or none", list: true},
	},
	assessment.StepActivitiesVolunteer: {
		{field: assessment.FieldVolunteerHours, question: "About how many hours do you volunteer?", hint: hoursHint},
	},
	assessment.StepActivitiesSchool: {
		{field: assessment.FieldSchoolHours, question: "About how many hours are you in school or training?", hint: hoursHint},
	},
	assessment.StepActivitiesWorkProgram: {
		{field: assessment.FieldWorkProgramHours, question: "About how many hours are you in a work program?", hint: hoursHint},
	},
}

var methodLabels = map[types.ComplianceMethod]string{
	types.MethodExemption:              "Exemption",
	types.MethodIncomeTracking:         "Income tracking",
	types.MethodSeasonalIncomeTracking: "Seasonal income tracking",
	types.MethodHourTracking:           "Hour tracking",
}

var errQuit = errors.New("quit")

// terminal drives a controller from line-oriented input. Typing "back"
// goes to the previous step and "quit" stops, keeping saved progress.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
	c   *assessment.Controller
}

func newTerminal(in io.Reader, out io.Writer, c *assessment.Controller) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out, c: c}
}

func (t *terminal) run(ctx context.Context, userID string) error {
	if _, err := t.c.StartOrResume(ctx, userID); err != nil {
		return err
	}

	for {
		state := t.c.State()
		if state.Step == assessment.StepComplete {
			t.printResult(state)
			return nil
		}

		err := t.step(ctx, state)
		switch {
		case errors.Is(err, errBack):
		case errors.Is(err, errQuit):
			t.c.Flush()
			fmt.Fprintln(t.out, "Your answers are saved. Run assess again to pick up where you left off.")
			return nil
		case errors.Is(err, types.ErrPersistFinalize):
			errorColor.Fprintln(t.out, "Your result could not be saved. Press enter to try again.")
		case err != nil:
			errorColor.Fprintln(t.out, err)
		}
	}
}

func (t *terminal) step(ctx context.Context, state assessment.State) error {
	headingColor.Fprintf(t.out, "\n[%3d%%] ", state.Percent)

	switch state.Step {
	case assessment.StepIntroduction:
		fmt.Fprintln(t.out, "This checks whether you are exempt from Medicaid work requirements and, if not, the simplest way to show you meet them.")
		if _, err := t.read(ctx, "Press enter to start"); err != nil {
			return err
		}
		_, err := t.c.Advance(ctx)
		return err

	case assessment.StepExemption:
		return t.exemptionStep(ctx, state)
	}

	for _, p := range stepPrompts[state.Step] {
		fmt.Fprintln(t.out, p.question)
		for {
			line, err := t.read(ctx, p.hint)
			if err != nil {
				return err
			}
			if line == "" {
				break
			}

			value, err := assessment.ParseAnswer(p.field, inputFromText(line, p.list))
			if err == nil {
				_, err = t.c.AnswerWorkSituation(ctx, p.field, value)
			}
			if err == nil {
				break
			}
			errorColor.Fprintln(t.out, err)
		}
	}

	_, err := t.c.Advance(ctx)
	return err
}

func (t *terminal) exemptionStep(ctx context.Context, state assessment.State) error {
	q := state.Question
	fmt.Fprintf(t.out, "%s: %s\n", exemption.CategoryLabel(q.Category), q.Text)
	if q.Help != "" {
		hintColor.Fprintln(t.out, q.Help)
	}

	hint := "yes or no"
	if q.Kind == exemption.KindDate {
		hint = "YYYY-MM-DD"
	}
	if current, ok := exemption.Value(state.Responses.Exemption, q.ID); ok {
		hint += fmt.Sprintf(", enter keeps %s", formatAnswer(current))
	}

	line, err := t.read(ctx, hint)
	if err != nil {
		return err
	}
	if line == "" {
		_, err = t.c.Advance(ctx)
		return err
	}

	value, err := assessment.ParseExemptionAnswer(q.ID, line)
	if err != nil {
		return err
	}
	_, err = t.c.AnswerExemption(ctx, q.ID, value)
	return err
}

// read prompts for one line. "back" moves the controller and is reported
// as errBack so the caller redraws the new step.
func (t *terminal) read(ctx context.Context, hint string) (string, error) {
	for {
		hintColor.Fprintf(t.out, "(%s) > ", hint)
		if !t.in.Scan() {
			if err := t.in.Err(); err != nil {
				return "", err
			}
			return "", errQuit
		}

		line := strings.TrimSpace(t.in.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			return "", errQuit
		case "back":
			if _, err := t.c.GoBack(ctx); err != nil {
				errorColor.Fprintln(t.out, err)
				continue
			}
			return "", errBack
		}
		return line, nil
	}
}

var errBack = errors.New("went back")

func (t *terminal) printResult(state assessment.State) {
	rec := *state.Recommendation
	responses := state.Responses

	fmt.Fprintln(t.out)
	if state.Exemption != nil && state.Exemption.IsExempt {
		goodColor.Fprintf(t.out, "You are likely exempt: %s\n", state.Exemption.ExemptionReason)
		fmt.Fprintln(t.out, state.Exemption.Explanation)
		fmt.Fprintln(t.out, state.Exemption.NextSteps)
		return
	}

	goodColor.Fprintf(t.out, "Recommended: %s\n", methodLabels[rec.PrimaryMethod])
	fmt.Fprintln(t.out, rec.Reasoning)
	fmt.Fprintln(t.out, recommend.Describe(rec, responses, rec.PrimaryMethod, false))
	fmt.Fprintf(t.out, "Status: %s, effort: %s\n", rec.ComplianceStatus, rec.EstimatedEffort)

	if len(rec.AlternativeMethods) == 0 {
		return
	}
	headingColor.Fprintln(t.out, "\nOther options")
	for _, method := range rec.AlternativeMethods {
		fmt.Fprintf(t.out, "- %s (%s): %s\n", methodLabels[method], recommend.StandingFor(method, responses), recommend.Describe(rec, responses, method, true))
	}
}

func inputFromText(text string, list bool) assessment.Input {
	in := assessment.Input{Value: text}
	lower := strings.ToLower(strings.TrimSpace(text))

	switch lower {
	case "not sure", "not-sure", "unsure":
		in.NotSure = true
	}
	if list {
		in.Activities = strings.Split(lower, ",")
	}
	if v, ok := strings.CutSuffix(lower, "/week"); ok {
		in.Value, in.Per = v, assessment.PerWeek
	}
	if v, ok := strings.CutSuffix(lower, "/paycheck"); ok {
		in.Value, in.Per = v, assessment.PerPaycheck
	}
	return in
}

func formatAnswer(v any) string {
	switch v := v.(type) {
	case time.Time:
		return v.Format("2006-01-02")
	case bool:
		if v {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}
