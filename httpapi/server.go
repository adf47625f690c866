/*------------------------------------------------------------------------------
* server.go : HTTP query API server
*
*          go-chi/chi router + go-chi/cors wrapping the same evaluation
*          engine the batch CLI drives, over an HTTP surface instead of a
*          one-shot file pipeline.
*-----------------------------------------------------------------------------*/

package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"gahm"
	"gahm/archive"
	"gahm/atcf"
	"gahm/config"
	"gahm/preprocess"
	"gahm/pressure"
	"gahm/vortex"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// Server holds the in-process prepared-track cache and optional archive
// collaborator backing the sec 11 query API.
type Server struct {
	cfg   config.Config
	mu    sync.RWMutex
	cache map[string]*gahm.Track
	store archive.RelationalStore
}

// NewServer builds a Server from a loaded Config; a configured Postgres DSN
// opens the relational archive, best-effort. A failed connection degrades
// to cache-only operation rather than failing startup: the archive is an
// optional persistence layer, never a correctness dependency.
func NewServer(cfg config.Config) *Server {
	s := &Server{cfg: cfg, cache: make(map[string]*gahm.Track)}
	if cfg.Archive.PostgresDSN != "" {
		store, err := archive.OpenPostgresStore(context.Background(), cfg.Archive.PostgresDSN)
		if err != nil {
			log.Printf("httpapi: relational archive unavailable: %v", err)
		} else {
			s.store = store
		}
	}
	return s
}

// Router builds the chi mux for this server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Get("/healthz", s.handleHealthz)
	r.Post("/tracks", s.handleCreateTrack)
	r.Post("/tracks/{runID}/evaluate", s.handleEvaluate)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type createTrackRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

type createTrackResponse struct {
	RunID string `json:"run_id"`
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var req createTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &gahm.ParseError{Msg: "malformed request body: " + err.Error()})
		return
	}

	var track *gahm.Track
	var err error
	switch {
	case req.Path != "":
		track, err = atcf.LoadFile(req.Path)
	case req.Text != "":
		track, err = atcf.Load(strings.NewReader(req.Text))
	default:
		err = &gahm.UsageError{Msg: "request must set path or text"}
	}
	if err != nil {
		writeError(w, err)
		return
	}

	opts := preprocess.Options{
		WindReductionFactor:  s.cfg.WindReductionFactor,
		PressureMethod:       pressure.Method(s.cfg.PressureMethodValue()),
		BackgroundPressureMb: s.cfg.BackgroundPressureMbar,
	}
	track, err = preprocess.Run(track, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	runID := uuid.New().String()
	s.mu.Lock()
	s.cache[runID] = track
	s.mu.Unlock()

	if s.store != nil {
		pt := &archive.PreparedTrack{
			Run: archive.RunRecord{
				RunID: runID, TrackBasin: track.Snaps[0].Basin, TrackStormID: track.Snaps[0].StormID,
				LoadedAt: time.Now(), PreprocessedAt: time.Now(),
			},
			Track: track,
		}
		if err := s.store.SaveTrack(r.Context(), runID, pt); err != nil {
			log.Printf("httpapi: archive save failed for run %s: %v", runID, err)
		}
	}

	writeJSON(w, http.StatusOK, createTrackResponse{RunID: runID})
}

type evaluateRequest struct {
	Time   string       `json:"time"` // RFC3339
	Points []pointInput `json:"points"`
}

type pointInput struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type solutionOutput struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
	P float64 `json:"p"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &gahm.ParseError{Msg: "malformed request body: " + err.Error()})
		return
	}
	t, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		writeError(w, &gahm.ParseError{Msg: "malformed time: " + err.Error()})
		return
	}
	date := gahm.NewDate(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), float64(t.Second()))

	track, err := s.lookupTrack(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}

	points := make([]gahm.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = gahm.Point{X: p.Lon, Y: p.Lat}
	}

	eval, err := vortex.New(track)
	if err != nil {
		writeError(w, err)
		return
	}
	defer eval.Close()

	solutions := eval.SolveBatch(date, points)
	out := make([]solutionOutput, len(solutions))
	for i, sol := range solutions {
		out[i] = solutionOutput{U: sol.U, V: sol.V, P: sol.P}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupTrack(ctx context.Context, runID string) (*gahm.Track, error) {
	s.mu.RLock()
	track, ok := s.cache[runID]
	s.mu.RUnlock()
	if ok {
		return track, nil
	}
	if s.store == nil {
		return nil, &gahm.UsageError{Msg: "unknown run id " + runID}
	}
	pt, err := s.store.LoadTrack(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[runID] = pt.Track
	s.mu.Unlock()
	return pt.Track, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if _, ok := err.(*gahm.IOError); ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
