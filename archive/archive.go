/*------------------------------------------------------------------------------
* archive.go : track/solution archive interfaces + in-memory fake
*
*
*          The core solve/evaluate path never imports this package (mirrors
*          the loader/sink's own treatment of persistence as an external
*          collaborator specified only at its interface); the relational and
*          document backends are optional, swappable collaborators behind
*          these two narrow interfaces.
*-----------------------------------------------------------------------------*/

package archive

import (
	"context"
	"sync"
	"time"

	"gahm"
	"gahm/owi"
)

// RunRecord is the archive metadata row for one loaded/preprocessed track.
type RunRecord struct {
	RunID          string
	TrackBasin     string
	TrackStormID   int
	LoadedAt       time.Time
	PreprocessedAt time.Time
	ConfigSnapshot string // serialized config.Config at the time of the run
}

// PreparedTrack bundles a RunRecord with the Track it describes, the unit
// the relational archive saves and loads.
type PreparedTrack struct {
	Run   RunRecord
	Track *gahm.Track
}

// GridSolutionDocument is one evaluated timestep's full grid solution, the
// unit the document archive saves and loads.
type GridSolutionDocument struct {
	RunID string
	Date  gahm.Date
	Grid  owi.Grid
	U, V, P []float64
}

// RelationalStore persists PreparedTracks keyed by run ID.
type RelationalStore interface {
	SaveTrack(ctx context.Context, runID string, pt *PreparedTrack) error
	LoadTrack(ctx context.Context, runID string) (*PreparedTrack, error)
}

// DocumentStore persists per-timestep grid solutions keyed by (run ID, date).
type DocumentStore interface {
	SaveSolution(ctx context.Context, runID string, date gahm.Date, grid owi.Grid, solutions []gahm.Solution) error
	LoadSolution(ctx context.Context, runID string, date gahm.Date) (*GridSolutionDocument, error)
}

// InMemoryStore satisfies both RelationalStore and DocumentStore without a
// live database, the fake the sec 8 archive round-trip test runs against.
type InMemoryStore struct {
	mu        sync.RWMutex
	tracks    map[string]*PreparedTrack
	solutions map[string]*GridSolutionDocument
}

// NewInMemoryStore constructs an empty fake archive.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tracks:    make(map[string]*PreparedTrack),
		solutions: make(map[string]*GridSolutionDocument),
	}
}

func (m *InMemoryStore) SaveTrack(_ context.Context, runID string, pt *PreparedTrack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pt
	m.tracks[runID] = &cp
	return nil
}

func (m *InMemoryStore) LoadTrack(_ context.Context, runID string) (*PreparedTrack, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pt, ok := m.tracks[runID]
	if !ok {
		return nil, &gahm.UsageError{Msg: "no track archived under run id " + runID}
	}
	cp := *pt
	return &cp, nil
}

func solutionKey(runID string, date gahm.Date) string {
	return runID + "|" + date.String()
}

func (m *InMemoryStore) SaveSolution(_ context.Context, runID string, date gahm.Date, grid owi.Grid, solutions []gahm.Solution) error {
	u := make([]float64, len(solutions))
	v := make([]float64, len(solutions))
	p := make([]float64, len(solutions))
	for i, s := range solutions {
		u[i], v[i], p[i] = s.U, s.V, s.P
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solutions[solutionKey(runID, date)] = &GridSolutionDocument{RunID: runID, Date: date, Grid: grid, U: u, V: v, P: p}
	return nil
}

func (m *InMemoryStore) LoadSolution(_ context.Context, runID string, date gahm.Date) (*GridSolutionDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.solutions[solutionKey(runID, date)]
	if !ok {
		return nil, &gahm.UsageError{Msg: "no solution archived for run " + runID + " at " + date.String()}
	}
	cp := *doc
	return &cp, nil
}
