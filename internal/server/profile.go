package server

import (
	"net/http"
	"strings"
	"time"

	"hourkeep/internal/utils"
	"hourkeep/pkg/types"
)

const dateLayout = "2006-01-02"

func (p profileForm) profile() (*types.Profile, bool) {
	profile := &types.Profile{DisplayName: utils.NilIfEmpty(strings.TrimSpace(p.DisplayName))}

	if dob := strings.TrimSpace(p.DateOfBirth); dob != "" {
		parsed, err := time.Parse(dateLayout, dob)
		if err != nil || parsed.After(time.Now()) {
			return nil, false
		}
		profile.DateOfBirth = &parsed
	}
	return profile, true
}

// handlePostProfile creates a local profile and opens a session for it.
func (s *Service) handlePostProfile(w http.ResponseWriter, r *http.Request) {
	var input profileForm
	if !s.decodeForm(w, r, &input) {
		return
	}

	profile, ok := input.profile()
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "date_of_birth must be a past date like 1990-04-02")
		return
	}

	if err := s.profiles.CreateProfile(r.Context(), profile); err != nil {
		s.logger.WithError(err).Error("failed to create profile")
		s.internalServerError(w, r)
		return
	}

	if err := s.setSession(w, profile.ID); err != nil {
		s.logger.WithError(err).Error("failed to issue session")
		s.internalServerError(w, r)
		return
	}

	s.logger.WithField("user_id", profile.ID).Info("profile created")
	s.writeJSON(w, http.StatusCreated, profile)
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return
	}

	profile, err := s.profiles.Profile(r.Context(), userID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Service) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "session required")
		return
	}

	var input profileForm
	if !s.decodeForm(w, r, &input) {
		return
	}

	profile, ok := input.profile()
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, "date_of_birth must be a past date like 1990-04-02")
		return
	}
	profile.ID = userID

	if err := s.profiles.UpsertProfile(r.Context(), profile); err != nil {
		s.logger.WithError(err).Error("failed to update profile")
		s.internalServerError(w, r)
		return
	}

	updated, err := s.profiles.Profile(r.Context(), userID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}
