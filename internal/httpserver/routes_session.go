package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type createSessionReq struct {
	Player string `json:"player"`
}
type createSessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	req.Player = strings.TrimSpace(req.Player)
	if len(req.Player) > 32 {
		writeError(w, http.StatusBadRequest, "player name must be at most 32 chars")
		return
	}
	sess, err := s.mgr.Create(req.Player)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	tok, exp, err := s.tokens.Sign(sess.ID(), s.now(), s.mgr.Params().TokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusCreated, createSessionRes{SessionID: sess.ID(), Token: tok, ExpiresAt: exp})
}

func (s *Server) handleNextProblem(w http.ResponseWriter, r *http.Request) {
	is, err := currentSession(r).NextProblem(s.now())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, is)
}

type solvedReq struct {
	ProblemID *int `json:"problemId"`
}

func (s *Server) handleSolved(w http.ResponseWriter, r *http.Request) {
	var req solvedReq
	if err := decode(r, &req); err != nil || req.ProblemID == nil {
		writeError(w, http.StatusBadRequest, "problemId required")
		return
	}
	aw, err := currentSession(r).Solved(*req.ProblemID, s.now())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aw)
}

type escapedReq struct {
	ProblemIDs []int `json:"problemIds"`
}

func (s *Server) handleEscaped(w http.ResponseWriter, r *http.Request) {
	var req escapedReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := currentSession(r).Escaped(r.Context(), req.ProblemIDs, s.now())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentSession(r).Snapshot())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be 1..100")
			return
		}
		limit = n
	}
	runs, err := s.mgr.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
