package assessment

import (
	"context"
	"errors"
	"sync"
	"time"

	"hourkeep/pkg/types"
)

var errDiskFull = errors.New("disk full")

type fakeStore struct {
	mu sync.Mutex

	progress map[string]types.AssessmentProgress
	results  map[string]types.AssessmentResult
	archived []types.AssessmentResult
	ops      []string

	failSaveProgress     bool
	failSaveResult       bool
	failCompleteProgress bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		progress: make(map[string]types.AssessmentProgress),
		results:  make(map[string]types.AssessmentResult),
	}
}

func (s *fakeStore) SaveProgress(_ context.Context, userID string, step int, responses types.AssessmentResponses) (*types.AssessmentProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "save-progress")
	if s.failSaveProgress {
		return nil, errDiskFull
	}

	progress, ok := s.progress[userID]
	if !ok {
		progress = types.AssessmentProgress{ID: "progress-" + userID, UserID: userID, StartedAt: time.Now()}
	}
	progress.CurrentStep = step
	progress.Responses = responses.Clone()
	progress.LastUpdatedAt = time.Now()
	s.progress[userID] = progress

	out := progress
	return &out, nil
}

func (s *fakeStore) LoadProgress(_ context.Context, userID string) (*types.AssessmentProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, ok := s.progress[userID]
	if !ok {
		return nil, types.ErrProgressNotFound
	}
	progress.Responses = progress.Responses.Clone()
	return &progress, nil
}

func (s *fakeStore) CompleteProgress(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "complete-progress")
	if s.failCompleteProgress {
		return errDiskFull
	}
	for userID, progress := range s.progress {
		if progress.ID == id {
			delete(s.progress, userID)
		}
	}
	return nil
}

func (s *fakeStore) SaveResult(_ context.Context, userID string, responses types.AssessmentResponses, rec types.Recommendation) (*types.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops = append(s.ops, "save-result")
	if s.failSaveResult {
		return nil, errDiskFull
	}

	if previous, ok := s.results[userID]; ok {
		s.archived = append(s.archived, previous)
	}
	result := types.AssessmentResult{
		ID:             "result-" + userID,
		UserID:         userID,
		CompletedAt:    time.Now(),
		Responses:      responses.Clone(),
		Recommendation: rec,
		Version:        1,
	}
	s.results[userID] = result
	return &result, nil
}

func (s *fakeStore) LoadLatestResult(_ context.Context, userID string) (*types.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[userID]
	if !ok {
		return nil, types.ErrResultNotFound
	}
	result.Responses = result.Responses.Clone()
	return &result, nil
}

func (s *fakeStore) setFailures(saveProgress, saveResult, completeProgress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaveProgress = saveProgress
	s.failSaveResult = saveResult
	s.failCompleteProgress = completeProgress
}

func (s *fakeStore) opsSnapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *fakeStore) hasProgress(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.progress[userID]
	return ok
}

func (s *fakeStore) count(op string) int {
	n := 0
	for _, o := range s.opsSnapshot() {
		if o == op {
			n++
		}
	}
	return n
}

type fakeProfiles map[string]time.Time

func (p fakeProfiles) DateOfBirth(_ context.Context, userID string) (*time.Time, error) {
	dob, ok := p[userID]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	return &dob, nil
}
