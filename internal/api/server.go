// Package api exposes the dialogue engine over HTTP. Sessions are held
// in memory and addressed by id; each advance or select call returns
// the presentation events it produced.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/pkg/ports"
	"github.com/parleyio/parley/pkg/session"
)

// Engine is the slice of the dialogue engine the HTTP layer needs.
type Engine interface {
	Start(name string) (*session.Session, error)
	Validate(name string) ([]error, error)
	List() ([]string, error)
}

// Server routes HTTP requests to an Engine and a session Manager.
type Server struct {
	engine   Engine
	sessions *session.Manager
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the HTTP handler for the engine.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/dialogues", s.listDialogues)
	r.Get("/dialogues/{name}/validate", s.validateDialogue)
	r.Post("/dialogues/{name}/sessions", s.createSession)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Get("/{id}", s.getSession)
		r.Delete("/{id}", s.deleteSession)
		r.Post("/{id}/advance", s.advance)
		r.Post("/{id}/select", s.selectOption)
	})

	return r
}

type sessionState struct {
	ID             string `json:"id"`
	Finished       bool   `json:"finished"`
	AwaitingChoice bool   `json:"awaitingChoice"`
}

type eventsResponse struct {
	Events []session.Event `json:"events"`
	State  sessionState    `json:"state"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDialogues(w http.ResponseWriter, _ *http.Request) {
	names, err := s.engine.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"dialogues": names})
}

func (s *Server) validateDialogue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	problems, err := s.engine.Validate(name)
	if err != nil {
		s.writeLoadError(w, name, err)
		return
	}

	messages := make([]string, 0, len(problems))
	for _, p := range problems {
		messages = append(messages, p.Error())
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"valid":    len(messages) == 0,
		"problems": messages,
	})
}

// createSession starts a session on the named dialogue and plays it
// forward to its first pause, so the response carries the opening lines.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sess, err := s.engine.Start(name)
	if err != nil {
		s.writeLoadError(w, name, err)
		return
	}

	id := s.sessions.Add(sess)
	s.logger.Info("session created", "session", id, "dialogue", name)

	events, err := s.drain(sess)
	if err != nil {
		s.sessions.Remove(id)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, eventsResponse{Events: events, State: s.state(id, sess)})
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.sessions.List()})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(id, sess))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.sessions.Get(id); err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.sessions.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	events, err := s.drain(sess)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, eventsResponse{Events: events, State: s.state(id, sess)})
}

func (s *Server) selectOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	var body struct {
		Option int `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if !sess.AwaitingChoice() {
		s.writeError(w, http.StatusConflict, errors.New("session is not awaiting a choice"))
		return
	}

	events, err := sess.Select(body.Option)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, eventsResponse{Events: events, State: s.state(id, sess)})
}

// drain performs one Advance and normalizes a nil batch, so clients
// always see an events array.
func (s *Server) drain(sess *session.Session) ([]session.Event, error) {
	events, err := sess.Advance()
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []session.Event{}
	}
	return events, nil
}

func (s *Server) state(id string, sess *session.Session) sessionState {
	return sessionState{
		ID:             id,
		Finished:       sess.Finished(),
		AwaitingChoice: sess.AwaitingChoice(),
	}
}

func (s *Server) writeLoadError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, ports.ErrGraphNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("dialogue %q not found", name))
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
