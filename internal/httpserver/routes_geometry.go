package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xtding233/codefall/internal/arena"
	"github.com/xtding233/codefall/internal/geometry"
)

func (s *Server) mountGeometry(r chi.Router) {
	r.Route("/geometry", func(r chi.Router) {
		r.Post("/spawn", s.handleSpawn)
		r.Post("/hit", s.handleHit)
	})
}

// Each placement attempt scans every existing rect, so requests are bounded.
const (
	maxSpawnAttempts  = 10
	maxSpawnDistances = 8
	maxSpawnExisting  = 64
)

// spawnReq fields left zero fall back to the configured spawn settings.
type spawnReq struct {
	ContainerWidth  float64              `json:"containerWidth"`
	ContainerHeight float64              `json:"containerHeight"`
	Width           float64              `json:"width"`
	Height          float64              `json:"height"`
	Existing        []geometry.Rectangle `json:"existing"`
	MinDistances    []float64            `json:"minDistances"`
	MaxAttempts     int                  `json:"maxAttempts"`
}
type spawnRes struct {
	geometry.Point
	MinDistance float64 `json:"minDistance"`
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req spawnReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	switch {
	case req.MaxAttempts > maxSpawnAttempts:
		writeError(w, http.StatusBadRequest, "maxAttempts too large")
		return
	case len(req.MinDistances) > maxSpawnDistances:
		writeError(w, http.StatusBadRequest, "too many minDistances")
		return
	case len(req.Existing) > maxSpawnExisting:
		writeError(w, http.StatusBadRequest, "too many existing rects")
		return
	}
	cfg := s.mgr.Params().Spawn
	if req.ContainerWidth <= 0 {
		req.ContainerWidth = cfg.Width
	}
	if req.ContainerHeight <= 0 {
		req.ContainerHeight = cfg.Height
	}
	if len(req.MinDistances) == 0 {
		req.MinDistances = cfg.MinDistances
	}
	if req.MaxAttempts <= 0 {
		req.MaxAttempts = min(cfg.PlacementAttempts, maxSpawnAttempts)
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "width and height must be > 0")
		return
	}
	for _, d := range req.MinDistances {
		p, ok := geometry.FindNonOverlappingPosition(req.ContainerWidth, req.ContainerHeight,
			req.Width, req.Height, req.Existing, d, req.MaxAttempts, s.rng)
		if ok {
			writeJSON(w, http.StatusOK, spawnRes{Point: p, MinDistance: d})
			return
		}
	}
	writeError(w, http.StatusConflict, "no_room")
}

type hitReq struct {
	Line geometry.Line      `json:"line"`
	Rect geometry.Rectangle `json:"rect"`
	// Padded grows Rect by the enemy hitbox padding first.
	Padded bool `json:"padded"`
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req hitReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rect := req.Rect
	if req.Padded {
		rect = rect.Expand(arena.HitboxPadding)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hit": geometry.DoesLineIntersectRectangle(req.Line, rect)})
}
