// Package server hosts the form page over HTTP. Submits are processed on the
// server: the posted values are loaded into a rendered page, the submission
// controller runs against it and the updated page is returned.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-xzqh/pkg/dom"
	"github.com/goliatone/go-xzqh/pkg/form"
	"github.com/goliatone/go-xzqh/pkg/generate"
	"github.com/goliatone/go-xzqh/pkg/render"
	"github.com/goliatone/go-xzqh/pkg/submission"
)

// DefaultPrefix is the mount point of the form routes.
const DefaultPrefix = "/xzqh"

const maxEventBytes = 64 << 10

// MsgBusy is shown when another submission holds the controller.
const MsgBusy = "已有请求正在处理，请稍候"

// Submitter runs one submission attempt.
type Submitter interface {
	Submit(ctx context.Context, view submission.View, presenter submission.Presenter) (submission.Outcome, error)
}

// Option configures a Server.
type Option func(*Server)

// WithPrefix mounts the routes under prefix. An empty prefix keeps
// DefaultPrefix; "/" mounts at the root.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = normalizePrefix(prefix)
	}
}

func normalizePrefix(prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		return DefaultPrefix
	}
	trimmed := strings.Trim(strings.TrimSpace(prefix), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

// StylesheetPath is where a server mounted at prefix serves the page
// stylesheet.
func StylesheetPath(prefix string) string {
	return strings.TrimRight(normalizePrefix(prefix), "/") + "/static/" + render.StylesheetName
}

// WithLogger attaches a logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server serves the form page, the submit endpoint and the event endpoint.
type Server struct {
	submitter Submitter
	renderer  *render.Renderer
	prefix    string
	logger    logrus.FieldLogger
	router    chi.Router
}

// New constructs a Server.
func New(submitter Submitter, renderer *render.Renderer, options ...Option) (*Server, error) {
	if submitter == nil || renderer == nil {
		return nil, errors.New("server: submitter and renderer are required")
	}
	s := &Server{
		submitter: submitter,
		renderer:  renderer,
		prefix:    DefaultPrefix,
		logger:    discardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Route(s.prefix, s.RegisterHTTP)
	s.router = r
	return s, nil
}

// RegisterHTTP mounts the form routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/", s.handlePage)
	r.Post("/", s.handleSubmit)
	r.Post("/events", s.handleEvent)
	r.Get("/contract.yaml", s.handleContract)
	r.Handle("/static/*", http.StripPrefix(s.path("/static/"), http.FileServerFS(render.StaticFS())))
}

func (s *Server) path(suffix string) string {
	return strings.TrimRight(s.prefix, "/") + suffix
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	page, err := s.renderer.RenderPage(render.PageView{
		Action:      s.prefix,
		State:       form.Init(),
		Interactive: true,
	})
	if err != nil {
		s.logger.WithError(err).Error("server: render page")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	html, err := s.renderer.RenderPage(render.PageView{Action: s.prefix, State: state, Interactive: true})
	if err != nil {
		s.logger.WithError(err).Error("server: render page")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	page, err := dom.Load(bytes.NewReader(html), dom.WithResultRenderer(s.renderer))
	if err != nil {
		s.logger.WithError(err).Error("server: load page")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if _, err := s.submitter.Submit(r.Context(), page, page); err != nil {
		if !errors.Is(err, submission.ErrSubmissionInFlight) {
			s.logger.WithError(err).Error("server: submit")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		status = http.StatusConflict
		_ = page.Notify(MsgBusy)
	}

	out, err := page.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeHTML(w, status, []byte(out))
}

// EventRequest is the body of POST /events. A missing state means the
// initial state.
type EventRequest struct {
	State *form.FormState `json:"state,omitempty"`
	Event form.Event      `json:"event"`
}

// EventResponse carries the recomputed state.
type EventResponse struct {
	State form.FormState `json:"state"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("server: decode event: %w", err))
		return
	}
	state := form.Init()
	if req.State != nil {
		state = *req.State
	}
	next, err := form.Dispatch(state, req.Event)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, EventResponse{State: next})
}

func (s *Server) handleContract(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(generate.EmbeddedContract())
}

// stateFromForm rebuilds the control state from a posted form. End options
// always include the posted end year so an inverted range reaches the
// validator unchanged. Levels and the parent radio go through the level
// controller so the province rule still applies.
func stateFromForm(r *http.Request) (form.FormState, error) {
	if err := r.ParseForm(); err != nil {
		return form.FormState{}, fmt.Errorf("server: parse form: %w", err)
	}
	start, err := form.ParseYear(r.PostForm.Get("startYear"))
	if err != nil {
		return form.FormState{}, fmt.Errorf("server: startYear: %w", err)
	}
	end, err := form.ParseYear(r.PostForm.Get("endYear"))
	if err != nil {
		return form.FormState{}, fmt.Errorf("server: endYear: %w", err)
	}

	for _, year := range []int{start, end} {
		if year < form.MinYear || year > form.MaxYear {
			return form.FormState{}, fmt.Errorf("server: year %d outside %d-%d", year, form.MinYear, form.MaxYear)
		}
	}

	// Browsers post checked boxes in document order.
	var levels form.LevelSet
	var order []form.Level
	for _, raw := range r.PostForm["level[]"] {
		level, err := form.ParseLevel(raw)
		if err != nil {
			return form.FormState{}, fmt.Errorf("server: level: %w", err)
		}
		levels = levels.With(level, true)
		order = append(order, level)
	}

	state := form.FormState{
		StartYear:    start,
		EndYear:      end,
		StartOptions: form.StartYearOptions(),
		EndOptions:   form.EndYearOptions(min(start, end)),
		LevelOrder:   form.ControlOrder(order),
		Parent:       form.ParentMatch{Choice: form.ParseChoice(r.PostForm.Get("parentMatch"))},
	}
	return form.ApplyLevels(state, levels), nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(started),
		}).Info("server: request")
	})
}

func writeHTML(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
