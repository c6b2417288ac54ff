package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"hourkeep/internal/assessment"
	"hourkeep/internal/db"
	"hourkeep/internal/store"
	"hourkeep/internal/utils"
	"hourkeep/pkg/types"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type terminalFixture struct {
	database *db.Database
	profiles *store.ProfileRepository
	store    *store.AssessmentStore
	userID   string
}

func newTerminalFixture(t *testing.T, dob time.Time) *terminalFixture {
	t.Helper()
	ctx := context.Background()
	color.NoColor = true

	database, err := db.OpenSQLite(ctx, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, store.Migrate(ctx, database))

	profiles := store.NewProfileRepository(database)
	profile := &types.Profile{DateOfBirth: utils.TimePtr(dob)}
	require.NoError(t, profiles.CreateProfile(ctx, profile))

	return &terminalFixture{
		database: database,
		profiles: profiles,
		store:    store.NewAssessmentStore(database),
		userID:   profile.ID,
	}
}

func (f *terminalFixture) run(t *testing.T, input string) string {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := assessment.NewController(f.store, f.profiles, logger, assessment.Options{ShowIntroduction: true, PersistProgress: true})
	defer c.Close()

	var out bytes.Buffer
	require.NoError(t, newTerminal(strings.NewReader(input), &out, c).run(context.Background(), f.userID))
	return out.String()
}

func TestTerminalIncomeTracking(t *testing.T) {
	f := newTerminalFixture(t, time.Date(1990, time.April, 2, 0, 0, 0, 0, time.UTC))

	out := f.run(t, strings.Join([]string{
		"",             // introduction
		"maybe",        // rejected
		"no",           // notice
		"no",           // skip the exemption check
		"yes",          // job
		"biweekly",     // pay frequency
		"300/paycheck", // 651/month
		"20/week",      // 87 hours/month
		"none",         // activities
	}, "\n")+"\n")

	assert.Contains(t, out, "invalid answer")
	assert.Contains(t, out, "Recommended: Income tracking")
	assert.Contains(t, out, "Hour tracking (qualifies)")

	result, err := f.store.LoadLatestResult(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, types.MethodIncomeTracking, result.Recommendation.PrimaryMethod)
	assert.Equal(t, 651, result.Responses.MonthlyIncome.Value)

	_, err = f.store.LoadProgress(context.Background(), f.userID)
	assert.ErrorIs(t, err, types.ErrProgressNotFound)
}

func TestTerminalQuitKeepsProgress(t *testing.T) {
	f := newTerminalFixture(t, time.Date(1990, time.April, 2, 0, 0, 0, 0, time.UTC))

	out := f.run(t, "\nno\nback\nyes\nquit\n")
	assert.Contains(t, out, "Your answers are saved")

	progress, err := f.store.LoadProgress(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, progress.Responses.ReceivedAgencyNotice)
	assert.True(t, *progress.Responses.ReceivedAgencyNotice, "the answer given after going back wins")
}

func TestTerminalExemptFromProfileAge(t *testing.T) {
	f := newTerminalFixture(t, time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC))

	// Enter on the date of birth question keeps the profile's date.
	out := f.run(t, "\nno\nyes\n\n")
	assert.Contains(t, out, "enter keeps 1950-01-01")
	assert.Contains(t, out, "You are likely exempt: 65 years old or older")
}

func TestInputFromText(t *testing.T) {
	assert.Equal(t, assessment.Input{Value: "20", Per: assessment.PerWeek}, inputFromText("20/week", false))
	assert.Equal(t, assessment.Input{Value: "Not Sure", NotSure: true}, inputFromText("Not Sure", false))
	assert.Equal(t, assessment.Input{Value: "school, volunteer", Activities: []string{"school", " volunteer"}}, inputFromText("school, volunteer", true))
}
