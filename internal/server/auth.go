package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hourkeep/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const sessionIssuer = "hourkeep"

type sessionForm struct {
	ProfileID string `form:"profile_id"`
}

// handlePostSession opens a session for an existing local profile. There
// are no passwords: the profile only ever lives on this device.
func (s *Service) handlePostSession(w http.ResponseWriter, r *http.Request) {
	var input sessionForm
	if !s.decodeForm(w, r, &input) {
		return
	}
	input.ProfileID = strings.TrimSpace(input.ProfileID)
	if input.ProfileID == "" {
		s.writeError(w, r, http.StatusBadRequest, "profile_id is required")
		return
	}

	profile, err := s.profiles.Profile(r.Context(), input.ProfileID)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			s.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		s.logger.WithError(err).Error("failed to load profile for session")
		s.internalServerError(w, r)
		return
	}

	if err := s.setSession(w, profile.ID); err != nil {
		s.logger.WithError(err).Error("failed to issue session")
		s.internalServerError(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if userID, err := s.userIDFromContext(r.Context()); err == nil {
		s.dropController(userID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// setSession signs an HS256 token for profileID and stores it in an
// encrypted cookie.
func (s *Service) setSession(w http.ResponseWriter, profileID string) error {
	now := time.Now()
	maxAge := time.Duration(s.config.SessionMaxAgeSec) * time.Second

	token, err := jwt.NewBuilder().
		Issuer(sessionIssuer).
		Subject(profileID).
		IssuedAt(now).
		Expiration(now.Add(maxAge)).
		Build()
	if err != nil {
		return err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.signingKey))
	if err != nil {
		return err
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, string(signed))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})
	return nil
}

// secureCookies is false in development, where the UI is served over
// plain http on localhost.
func (s *Service) secureCookies() bool {
	return s.config.Environment != "development"
}
