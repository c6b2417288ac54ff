package server

import (
	"errors"
	"net/http"

	"hourkeep/internal/assessment"
	"hourkeep/internal/exemption"
	"hourkeep/internal/recommend"
	"hourkeep/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

type questionView struct {
	exemption.Question
	CategoryLabel string `json:"categoryLabel"`
}

type methodView struct {
	Method   types.ComplianceMethod `json:"method"`
	Standing recommend.Standing     `json:"standing"`
	Message  string                 `json:"message"`
}

type resultView struct {
	Result       *types.AssessmentResult `json:"result"`
	Exemption    types.ExemptionResult   `json:"exemption"`
	Primary      methodView              `json:"primary"`
	Alternatives []methodView            `json:"alternatives"`
}

func newResultView(result *types.AssessmentResult) resultView {
	rec := result.Recommendation
	view := resultView{
		Result:    result,
		Exemption: exemption.Evaluate(result.Responses.Exemption, result.CompletedAt),
		Primary: methodView{
			Method:   rec.PrimaryMethod,
			Standing: recommend.StandingFor(rec.PrimaryMethod, result.Responses),
			Message:  recommend.Describe(rec, result.Responses, rec.PrimaryMethod, false),
		},
		Alternatives: make([]methodView, 0, len(rec.AlternativeMethods)),
	}

	for _, method := range rec.AlternativeMethods {
		view.Alternatives = append(view.Alternatives, methodView{
			Method:   method,
			Standing: recommend.StandingFor(method, result.Responses),
			Message:  recommend.Describe(rec, result.Responses, method, true),
		})
	}
	return view
}

func (s *Service) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	questions := exemption.Questions()
	out := make([]questionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionView{Question: q, CategoryLabel: exemption.CategoryLabel(q.Category)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// sessionController resolves the session's user and their controller,
// writing a 401 when there is no session.
func (s *Service) sessionController(w http.ResponseWriter, r *http.Request) (string, *assessment.Controller, bool) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return "", nil, false
	}
	return userID, s.controllerFor(userID), true
}

func (s *Service) writeState(w http.ResponseWriter, r *http.Request, state assessment.State, err error) {
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Service) handleStartAssessment(w http.ResponseWriter, r *http.Request) {
	userID, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	state, err := c.StartOrResume(r.Context(), userID)
	s.writeState(w, r, state, err)
}

func (s *Service) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	state := c.State()
	if state.UserID == "" {
		s.writeFailure(w, r, types.ErrNotStarted)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Service) handleAnswerExemption(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	var input exemptionAnswerForm
	if !s.decodeForm(w, r, &input) {
		return
	}

	id := types.QuestionID(flow.Param(r.Context(), "id"))
	value, err := assessment.ParseExemptionAnswer(id, input.Answer)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	state, err := c.AnswerExemption(r.Context(), id, value)
	s.writeState(w, r, state, err)
}

func (s *Service) handleAnswerField(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	var input answerForm
	if !s.decodeForm(w, r, &input) {
		return
	}

	field := assessment.Field(flow.Param(r.Context(), "field"))
	value, err := assessment.ParseAnswer(field, input.input())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	state, err := c.AnswerWorkSituation(r.Context(), field, value)
	s.writeState(w, r, state, err)
}

func (s *Service) handleAdvance(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	state, err := c.Advance(r.Context())
	s.writeState(w, r, state, err)
}

func (s *Service) handleGoBack(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	state, err := c.GoBack(r.Context())
	s.writeState(w, r, state, err)
}

func (s *Service) handleFinalize(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.sessionController(w, r)
	if !ok {
		return
	}

	if _, err := c.Finalize(r.Context()); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c.State())
}

func (s *Service) handleGetResult(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return
	}

	result, err := s.assessments.LoadLatestResult(r.Context(), userID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newResultView(result))
}

func (s *Service) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return
	}

	entries, err := s.assessments.LoadHistory(r.Context(), userID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if entries == nil {
		entries = []*types.AssessmentHistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleDeleteProgress discards the saved draft and the in-memory session
// so the next start begins from scratch.
func (s *Service) handleDeleteProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return
	}

	s.dropController(userID)

	err = s.assessments.DeleteProgress(r.Context(), userID)
	if err != nil && !errors.Is(err, types.ErrProgressNotFound) {
		s.writeFailure(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID}).Info("assessment progress discarded")
	w.WriteHeader(http.StatusNoContent)
}
