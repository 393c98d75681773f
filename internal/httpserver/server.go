// Package httpserver exposes sessions, placement and the leaderboard over
// JSON/HTTP.
//
//   - GET  /health
//   - POST /sessions           → start a game, returns a bearer token
//   - POST /session/problem    → next problem + fall speed (auth)
//   - POST /session/solved     → score an on-screen problem (auth)
//   - POST /session/escaped    → ships got past the player (auth)
//   - GET  /session            → pacing snapshot (auth)
//   - POST /geometry/spawn     → spawn point via the min-distance schedule
//   - POST /geometry/hit       → line vs padded rectangle
//   - GET  /leaderboard
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/xtding233/codefall/internal/auth"
	"github.com/xtding233/codefall/internal/geometry"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/session"
)

// Server bundles the router and its dependencies.
type Server struct {
	r      *chi.Mux
	mgr    *session.Manager
	tokens *auth.Signer
	rng    geometry.RandomSource
	now    func() time.Time
}

// New constructs a Server, installs middleware and registers routes.
// tokens signs and checks session tokens.
func New(mgr *session.Manager, tokens *auth.Signer) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		mgr:    mgr,
		tokens: tokens,
		rng:    pacing.DefaultRNG(),
		now:    time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Post("/sessions", s.handleCreateSession)
	s.r.Route("/session", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleSnapshot)
		r.Post("/problem", s.handleNextProblem)
		r.Post("/solved", s.handleSolved)
		r.Post("/escaped", s.handleEscaped)
	})
	s.mountGeometry(s.r)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Handler exposes the router (tests, http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}
