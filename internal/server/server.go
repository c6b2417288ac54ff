// Package server is the local HTTP API the on-device UI talks to.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hourkeep/internal/assessment"
	"hourkeep/internal/db"
	"hourkeep/internal/metrics"
	"hourkeep/internal/store"
	"hourkeep/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger      *logrus.Logger
	config      *types.Config
	database    *db.Database
	profiles    *store.ProfileRepository
	assessments *store.AssessmentStore

	cookie     *securecookie.SecureCookie
	signingKey []byte

	mu          sync.Mutex
	controllers map[string]*assessment.Controller

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	database *db.Database,
	profiles *store.ProfileRepository,
	assessments *store.AssessmentStore,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := sessionKey(config.CookieHashKey, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie hash key: %w", err)
	}
	blockKey, err := sessionKey(config.CookieBlockKey, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie block key: %w", err)
	}
	signingKey := []byte(config.SessionSecret)
	if len(signingKey) == 0 {
		logger.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
		signingKey = securecookie.GenerateRandomKey(32)
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(config.SessionMaxAgeSec)

	s := &Service{
		logger:      logger,
		config:      config,
		database:    database,
		profiles:    profiles,
		assessments: assessments,

		cookie:     cookie,
		signingKey: signingKey,

		controllers: make(map[string]*assessment.Controller),

		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", config.ServerHost, config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

// sessionKey decodes a base64 key, or generates one of size bytes when the
// key is not configured.
func sessionKey(encoded string, size int) ([]byte, error) {
	if encoded == "" {
		return securecookie.GenerateRandomKey(size), nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

// Stop drains in-flight requests and then closes every open assessment so
// pending autosaves are written.
func (s *Service) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, c := range s.controllers {
		c.Flush()
		c.Close()
		delete(s.controllers, userID)
	}

	return err
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.RequestIDMiddleware)
	r.Use(s.LoggingMiddleware)
	if s.config.MetricsEnabled {
		r.Use(metrics.Middleware(endpointLabel))
		r.Handle("/metrics", metrics.Handler(), http.MethodGet)
	}

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/exemptions/questions", s.handleGetQuestions, http.MethodGet)

	r.HandleFunc("/profiles", s.handlePostProfile, http.MethodPost)
	r.HandleFunc("/session", s.handlePostSession, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireSession)

		r.HandleFunc("/session", s.handleDeleteSession, http.MethodDelete)
		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile", s.handlePutProfile, http.MethodPut)

		r.HandleFunc("/assessment", s.handleStartAssessment, http.MethodPost)
		r.HandleFunc("/assessment", s.handleGetAssessment, http.MethodGet)
		r.HandleFunc("/assessment/exemption/:id", s.handleAnswerExemption, http.MethodPost)
		r.HandleFunc("/assessment/answers/:field", s.handleAnswerField, http.MethodPost)
		r.HandleFunc("/assessment/advance", s.handleAdvance, http.MethodPost)
		r.HandleFunc("/assessment/back", s.handleGoBack, http.MethodPost)
		r.HandleFunc("/assessment/finalize", s.handleFinalize, http.MethodPost)
		r.HandleFunc("/assessment/result", s.handleGetResult, http.MethodGet)
		r.HandleFunc("/assessment/history", s.handleGetHistory, http.MethodGet)
		r.HandleFunc("/assessment/progress", s.handleDeleteProgress, http.MethodDelete)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.database.PingContext(ctx); err != nil {
		s.logger.WithError(err).Error("health check failed")
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// controllerFor returns the user's assessment controller, creating it on
// first use.
func (s *Service) controllerFor(userID string) *assessment.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[userID]; ok {
		return c
	}

	c := assessment.NewController(s.assessments, s.profiles, s.logger.WithField("user_id", userID), assessment.Options{
		ShowIntroduction: s.config.ShowIntroduction,
		PersistProgress:  s.config.PersistProgress,
		AutosaveTimeout:  time.Duration(s.config.AutosaveTimeoutSec) * time.Second,
	})
	s.controllers[userID] = c
	return c
}

// dropController closes and forgets the user's controller, if any.
func (s *Service) dropController(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[userID]; ok {
		c.Close()
		delete(s.controllers, userID)
	}
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
