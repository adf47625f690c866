package solver_test

import (
	"testing"

	"gahm/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveConvergesOnAchievableIsotach(t *testing.T) {
	in := solver.Input{
		ObservedRadiusM:      200000, // 200 km
		IsotachSpeedBL:       17.0,   // 34 kt in m/s, boundary-layer frame
		VmaxBL:               55.0,
		CentralPressureMb:    950,
		BackgroundPressureMb: 1013,
		LatitudeDeg:          25.0,
	}
	res := solver.Solve(in)
	require.True(t, res.Converged)
	assert.Greater(t, res.RMW, 0.0)
	assert.Less(t, res.RMW, in.ObservedRadiusM)
	assert.Greater(t, res.B, 0.0)
	assert.LessOrEqual(t, res.Iterations, 100)
}

func TestSolveFallsBackOnUnachievableIsotach(t *testing.T) {
	in := solver.Input{
		ObservedRadiusM:      500000,
		IsotachSpeedBL:       900.0, // physically unreachable at this radius
		VmaxBL:               55.0,
		CentralPressureMb:    950,
		BackgroundPressureMb: 1013,
		LatitudeDeg:          25.0,
	}
	res := solver.Solve(in)
	assert.False(t, res.Converged)
	assert.Equal(t, in.ObservedRadiusM, res.RMW)
}

func TestSolveHandlesEquatorialLatitudeWithoutPanicking(t *testing.T) {
	in := solver.Input{
		ObservedRadiusM:      150000,
		IsotachSpeedBL:       17.0,
		VmaxBL:               50.0,
		CentralPressureMb:    960,
		BackgroundPressureMb: 1013,
		LatitudeDeg:          0.0,
	}
	assert.NotPanics(t, func() { solver.Solve(in) })
}
