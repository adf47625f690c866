package owi_test

import (
	"os"
	"path/filepath"
	"testing"

	"gahm"
	"gahm/owi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() owi.Grid {
	return owi.Grid{NLon: 2, NLat: 2, DX: 0.5, DY: 0.5, SWLon: -90, SWLat: 20}
}

func TestWriteTimestepEnforcesCadenceAndEndDate(t *testing.T) {
	dir := t.TempDir()
	start := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	end := gahm.NewDate(2005, 8, 29, 12, 0, 0)
	grid := testGrid()

	sink, err := owi.New(filepath.Join(dir, "out.pre"), filepath.Join(dir, "out.win"), grid, start, end, 6*3600)
	require.NoError(t, err)

	solutions := make([]gahm.Solution, grid.NLon*grid.NLat)
	require.NoError(t, sink.WriteTimestep(start, solutions))

	// out-of-cadence write (skips a step)
	err = sink.WriteTimestep(end, solutions)
	assert.Error(t, err)
	_, ok := err.(*gahm.UsageError)
	assert.True(t, ok)

	// correct next step succeeds
	require.NoError(t, sink.WriteTimestep(start.Add(6*3600), solutions))

	// write past declared end
	err = sink.WriteTimestep(end.Add(6*3600), solutions)
	assert.Error(t, err)

	require.NoError(t, sink.Close())

	// write after close
	err = sink.WriteTimestep(end, solutions)
	assert.Error(t, err)
}

func TestWriteTimestepProducesNonEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	pPath, wPath := filepath.Join(dir, "out.pre"), filepath.Join(dir, "out.win")
	start := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	grid := testGrid()

	sink, err := owi.New(pPath, wPath, grid, start, start, 3600)
	require.NoError(t, err)
	solutions := make([]gahm.Solution, grid.NLon*grid.NLat)
	require.NoError(t, sink.WriteTimestep(start, solutions))
	require.NoError(t, sink.Close())

	pInfo, err := os.Stat(pPath)
	require.NoError(t, err)
	wInfo, err := os.Stat(wPath)
	require.NoError(t, err)
	assert.Greater(t, pInfo.Size(), int64(0))
	assert.Greater(t, wInfo.Size(), int64(0))
}
