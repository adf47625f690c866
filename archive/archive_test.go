package archive_test

import (
	"context"
	"testing"
	"time"

	"gahm"
	"gahm/archive"
	"gahm/owi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreTrackRoundTrip(t *testing.T) {
	store := archive.NewInMemoryStore()
	ctx := context.Background()

	track := &gahm.Track{Snaps: []*gahm.Snap{{
		Date: gahm.NewDate(2005, 8, 29, 0, 0, 0), Basin: "AL", StormID: 9,
		VmaxMS: 60, CentralPressureMb: 950, BackgroundPressureMb: 1013,
	}}}
	pt := &archive.PreparedTrack{
		Run:   archive.RunRecord{RunID: "run-1", TrackBasin: "AL", TrackStormID: 9, LoadedAt: time.Now()},
		Track: track,
	}

	require.NoError(t, store.SaveTrack(ctx, "run-1", pt))
	loaded, err := store.LoadTrack(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, pt.Track.Snaps[0].Basin, loaded.Track.Snaps[0].Basin)
	assert.Equal(t, pt.Track.Snaps[0].StormID, loaded.Track.Snaps[0].StormID)
}

func TestInMemoryStoreLoadTrackMissingRunIsUsageError(t *testing.T) {
	store := archive.NewInMemoryStore()
	_, err := store.LoadTrack(context.Background(), "missing")
	assert.Error(t, err)
	_, ok := err.(*gahm.UsageError)
	assert.True(t, ok)
}

func TestInMemoryStoreSolutionRoundTrip(t *testing.T) {
	store := archive.NewInMemoryStore()
	ctx := context.Background()
	date := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	grid := owi.Grid{NLon: 1, NLat: 1, DX: 1, DY: 1, SWLon: -90, SWLat: 20}
	solutions := []gahm.Solution{{U: 1, V: 2, P: 3}}

	require.NoError(t, store.SaveSolution(ctx, "run-1", date, grid, solutions))
	doc, err := store.LoadSolution(ctx, "run-1", date)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, doc.U)
	assert.Equal(t, []float64{2}, doc.V)
	assert.Equal(t, []float64{3}, doc.P)
}
