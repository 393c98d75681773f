package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xtding233/codefall/internal/auth"
	"github.com/xtding233/codefall/internal/config"
	"github.com/xtding233/codefall/internal/geometry"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/problem"
	"github.com/xtding233/codefall/internal/session"
	"github.com/xtding233/codefall/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := problem.Default()
	if err != nil {
		t.Fatal(err)
	}
	mgr := session.NewManager(cat, config.DefaultParams(), store.NewMemoryStore()).
		WithRNG(func() pacing.RandomSource { return pacing.NewSeededRNG(5) })
	s := New(mgr, auth.NewSigner("test-secret"))
	s.rng = pacing.NewSeededRNG(9)
	return s
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"ok\":true}\n" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/sessions", "", map[string]string{"player": "ann"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[createSessionRes](t, rec)
	if created.Token == "" || created.SessionID == "" {
		t.Fatalf("create response = %+v", created)
	}
	tok := created.Token

	rec = do(t, s, http.MethodPost, "/session/problem", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("problem = %d %s", rec.Code, rec.Body.String())
	}
	issued := decodeBody[session.Issued](t, rec)
	if issued.Problem.Question == "" || issued.Speed <= 0 {
		t.Fatalf("issued = %+v", issued)
	}

	rec = do(t, s, http.MethodPost, "/session/solved", tok, map[string]int{"problemId": issued.Problem.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("solved = %d %s", rec.Code, rec.Body.String())
	}
	if aw := decodeBody[session.Award](t, rec); aw.Score != 2*issued.Problem.Difficulty {
		t.Fatalf("award = %+v", aw)
	}

	rec = do(t, s, http.MethodPost, "/session/solved", tok, map[string]int{"problemId": issued.Problem.ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-solve = %d, want 409", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/session/solved", tok, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("solve without id = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/session", tok, nil)
	snap := decodeBody[session.Snapshot](t, rec)
	if snap.ID != created.SessionID || snap.Player != "ann" || len(snap.History) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	var res session.EscapeResult
	for i := 0; i < 3; i++ {
		do(t, s, http.MethodPost, "/session/problem", tok, nil)
		rec = do(t, s, http.MethodPost, "/session/escaped", tok, map[string][]int{"problemIds": {}})
		if rec.Code != http.StatusOK {
			t.Fatalf("escaped = %d %s", rec.Code, rec.Body.String())
		}
		res = decodeBody[session.EscapeResult](t, rec)
	}
	if !res.GameOver || res.Lives != 0 {
		t.Fatalf("after three escapes: %+v", res)
	}
	rec = do(t, s, http.MethodPost, "/session/problem", tok, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("problem after game over = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/leaderboard?limit=5", "", nil)
	runs := decodeBody[[]store.Run](t, rec)
	if len(runs) != 1 || runs[0].SessionID != created.SessionID || runs[0].Player != "ann" {
		t.Fatalf("leaderboard = %+v", runs)
	}
}

func TestAuthRejections(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/session", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/session", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}

	other := auth.NewSigner("other-secret")
	forged, _, err := other.Sign("whatever", time.Now(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if rec := do(t, s, http.MethodGet, "/session", forged, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign signature = %d", rec.Code)
	}

	expired, _, _ := s.tokens.Sign("whatever", time.Now().Add(-2*time.Hour), time.Hour)
	if rec := do(t, s, http.MethodGet, "/session", expired, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired = %d", rec.Code)
	}

	unknown, _, _ := s.tokens.Sign("no-such-session", time.Now(), time.Hour)
	if rec := do(t, s, http.MethodGet, "/session", unknown, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session = %d, want 404", rec.Code)
	}
}

func TestGeometrySpawn(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/geometry/spawn", "", spawnReq{Width: 200, Height: 115})
	if rec.Code != http.StatusOK {
		t.Fatalf("spawn = %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		X, Y        float64
		MinDistance float64
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Y != -115 || res.X < 20 || res.X > 800-200-20 || res.MinDistance != 120 {
		t.Fatalf("spawn = %+v", res)
	}

	packed := spawnReq{
		ContainerWidth: 100, Width: 60, Height: 115,
		Existing:     []geometry.Rectangle{{X: 20}},
		MinDistances: []float64{40},
		MaxAttempts:  1,
	}
	if rec := do(t, s, http.MethodPost, "/geometry/spawn", "", packed); rec.Code != http.StatusConflict {
		t.Fatalf("packed spawn = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/geometry/spawn", "", spawnReq{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("zero-size spawn = %d, want 400", rec.Code)
	}
}

func TestGeometrySpawnRejectsOversizedRequests(t *testing.T) {
	s := newTestServer(t)
	many := make([]geometry.Rectangle, maxSpawnExisting+1)
	cases := map[string]spawnReq{
		"attempts":  {Width: 60, Height: 115, MaxAttempts: 2_000_000_000},
		"distances": {Width: 60, Height: 115, MinDistances: make([]float64, maxSpawnDistances+1)},
		"existing":  {Width: 60, Height: 115, Existing: many},
	}
	for name, req := range cases {
		if rec := do(t, s, http.MethodPost, "/geometry/spawn", "", req); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: code = %d, want 400", name, rec.Code)
		}
	}
	ok := spawnReq{Width: 60, Height: 115, MaxAttempts: maxSpawnAttempts, Existing: many[:maxSpawnExisting]}
	if rec := do(t, s, http.MethodPost, "/geometry/spawn", "", ok); rec.Code == http.StatusBadRequest {
		t.Fatalf("request at the limits rejected: %s", rec.Body.String())
	}
}

func TestFieldFullIsConflict(t *testing.T) {
	s := newTestServer(t)
	created := decodeBody[createSessionRes](t, do(t, s, http.MethodPost, "/sessions", "", map[string]string{"player": "cap"}))
	limit := s.mgr.Params().Spawn.MaxEnemies
	var rec *httptest.ResponseRecorder
	for i := 0; i <= limit; i++ {
		rec = do(t, s, http.MethodPost, "/session/problem", created.Token, nil)
		if rec.Code != http.StatusOK {
			break
		}
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("spawn past the cap = %d %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[map[string]string](t, rec)["error"]; got != "field_full" && got != "no_room" {
		t.Fatalf("error = %q", got)
	}
}

func TestGeometryHit(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{
		"line": map[string]any{"start": map[string]float64{"x": 90, "y": 150}, "end": map[string]float64{"x": 90, "y": 170}},
		"rect": map[string]float64{"x": 100, "y": 100, "width": 200, "height": 115},
	}
	rec := do(t, s, http.MethodPost, "/geometry/hit", "", body)
	if got := decodeBody[map[string]bool](t, rec); got["hit"] {
		t.Fatalf("unpadded rect should be missed")
	}
	body["padded"] = true
	rec = do(t, s, http.MethodPost, "/geometry/hit", "", body)
	if got := decodeBody[map[string]bool](t, rec); !got["hit"] {
		t.Fatalf("padded rect should be hit")
	}
}

func TestLeaderboardBadLimit(t *testing.T) {
	if rec := do(t, newTestServer(t), http.MethodGet, "/leaderboard?limit=0", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("limit=0 = %d", rec.Code)
	}
}
