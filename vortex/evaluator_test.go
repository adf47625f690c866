package vortex_test

import (
	"testing"

	"gahm"
	"gahm/preprocess"
	"gahm/vortex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isotachAllRadii(r float64, windSpeedMS float64, isRMW bool) gahm.Isotach {
	var iso gahm.Isotach
	iso.WindSpeed = windSpeedMS
	iso.IsRMWRing = isRMW
	for i := 0; i < gahm.NumQuadrants; i++ {
		iso.Quadrants.Set(i, gahm.Quadrant{RadiusM: r})
	}
	return iso
}

func axisymmetricTrack(t *testing.T) *gahm.Track {
	t.Helper()
	track := &gahm.Track{}
	base := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	for h := 0; h < 2; h++ {
		s := &gahm.Snap{
			Date: base.Add(float64(h) * 6 * 3600), Basin: "AL", StormID: 9, StormName: "KATRINA",
			Position: gahm.Point{X: -89.0 - float64(h)*0.3, Y: 25.0 + float64(h)*0.3},
			CentralPressureMb: 930, BackgroundPressureMb: 1013,
			VmaxKt: 120, VmaxMS: 120 * gahm.KnotsToMetersPerSecond, RMWNominalM: 20 * gahm.NauticalMilesToMeters,
			Isotachs: []gahm.Isotach{
				isotachAllRadii(20*gahm.NauticalMilesToMeters, 0, true),
				isotachAllRadii(150*gahm.NauticalMilesToMeters, 34*gahm.KnotsToMetersPerSecond, false),
			},
		}
		require.NoError(t, track.AddSnap(s))
	}
	out, err := preprocess.Run(track, preprocess.DefaultOptions())
	require.NoError(t, err)
	return out
}

func TestEvaluatorRejectsUnpreprocessedTrack(t *testing.T) {
	_, err := vortex.New(&gahm.Track{})
	assert.Error(t, err)
	_, ok := err.(*gahm.UsageError)
	assert.True(t, ok)
}

func TestEvaluatorWindDecaysWithDistance(t *testing.T) {
	track := axisymmetricTrack(t)
	eval, err := vortex.New(track)
	require.NoError(t, err)
	defer eval.Close()

	center := track.Snaps[0].Position
	near := gahm.Point{X: center.X + 0.3, Y: center.Y}
	far := gahm.Point{X: center.X + 3.0, Y: center.Y}

	t0 := track.Snaps[0].Date
	solNear := eval.Solve(t0, near)
	solFar := eval.Solve(t0, far)

	speedNear := sqMag(solNear.U, solNear.V)
	speedFar := sqMag(solFar.U, solFar.V)
	assert.Greater(t, speedNear, speedFar)
}

func TestEvaluatorEyeClamp(t *testing.T) {
	track := axisymmetricTrack(t)
	eval, err := vortex.New(track)
	require.NoError(t, err)
	defer eval.Close()

	sol := eval.Solve(track.Snaps[0].Date, track.Snaps[0].Position)
	assert.Equal(t, 0.0, sol.U)
	assert.Equal(t, 0.0, sol.V)
}

func TestEvaluatorBatchMatchesSinglePointSolve(t *testing.T) {
	track := axisymmetricTrack(t)
	eval, err := vortex.New(track)
	require.NoError(t, err)
	defer eval.Close()

	center := track.Snaps[0].Position
	points := []gahm.Point{
		{X: center.X + 0.5, Y: center.Y},
		{X: center.X - 0.5, Y: center.Y + 0.2},
		{X: center.X, Y: center.Y + 0.8},
	}
	t0 := track.Snaps[0].Date
	batch := eval.SolveBatch(t0, points)
	require.Len(t, batch, len(points))
	for i, p := range points {
		single := eval.Solve(t0, p)
		assert.InDelta(t, single.U, batch[i].U, 1e-9)
		assert.InDelta(t, single.V, batch[i].V, 1e-9)
		assert.InDelta(t, single.P, batch[i].P, 1e-9)
	}
}

func TestEvaluatorClampsBeforeFirstAndAfterLastSnap(t *testing.T) {
	track := axisymmetricTrack(t)
	eval, err := vortex.New(track)
	require.NoError(t, err)
	defer eval.Close()

	before := track.Snaps[0].Date.Add(-3600)
	after := track.Snaps[len(track.Snaps)-1].Date.Add(3600)
	p := gahm.Point{X: track.Snaps[0].Position.X + 1, Y: track.Snaps[0].Position.Y}

	assert.NotPanics(t, func() { eval.Solve(before, p) })
	assert.NotPanics(t, func() { eval.Solve(after, p) })

	first, last := track.Snaps[0].Date, track.Snaps[len(track.Snaps)-1].Date
	assert.Equal(t, eval.Solve(first, p), eval.Solve(before, p))
	assert.Equal(t, eval.Solve(last, p), eval.Solve(after, p))
}

func sqMag(u, v float64) float64 {
	return u*u + v*v
}
