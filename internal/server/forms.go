package server

import (
	"net/http"

	"hourkeep/internal/assessment"
)

type exemptionAnswerForm struct {
	Answer string `form:"answer"`
}

type answerForm struct {
	Value      string   `form:"value"`
	NotSure    bool     `form:"not_sure"`
	Per        string   `form:"per"`
	Frequency  string   `form:"frequency"`
	Activities []string `form:"activities"`
}

func (f answerForm) input() assessment.Input {
	return assessment.Input{
		Value:      f.Value,
		NotSure:    f.NotSure,
		Per:        f.Per,
		Frequency:  f.Frequency,
		Activities: f.Activities,
	}
}

type profileForm struct {
	DisplayName string `form:"display_name"`
	DateOfBirth string `form:"date_of_birth"`
}

// decodeForm parses the request body and decodes it into dst, writing a
// 400 on failure.
func (s *Service) decodeForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid form payload")
		return false
	}

	if err := decoder.Decode(dst, r.Form); err != nil {
		s.logger.WithError(err).Debug("failed to decode form")
		s.writeError(w, r, http.StatusBadRequest, "invalid form payload")
		return false
	}
	return true
}
