package server

import (
	"errors"
	"net/http"

	"hourkeep/pkg/types"

	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	s.writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID})
}

func (s *Service) internalServerError(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// writeFailure maps a domain error onto its status code. Anything
// unrecognised is logged and reported as a 500.
func (s *Service) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.internalServerError(w, r)
		return
	}
	if status == http.StatusServiceUnavailable {
		s.logger.WithError(err).WithField("path", r.URL.Path).Warn("assessment could not be saved")
	}
	s.writeError(w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrPersistFinalize):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrInvalidAnswer),
		errors.Is(err, types.ErrUnknownQuestion),
		errors.Is(err, types.ErrUnknownField),
		errors.Is(err, types.ErrUnanswered):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrWrongQuestion),
		errors.Is(err, types.ErrFieldNotOnStep),
		errors.Is(err, types.ErrNotStarted),
		errors.Is(err, types.ErrAssessmentComplete),
		errors.Is(err, types.ErrNotReady),
		errors.Is(err, types.ErrNoPreviousStep):
		return http.StatusConflict
	case errors.Is(err, types.ErrProfileNotFound),
		errors.Is(err, types.ErrProgressNotFound),
		errors.Is(err, types.ErrResultNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
