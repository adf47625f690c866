package preprocess_test

import (
	"testing"

	"gahm"
	"gahm/preprocess"

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

func twoSnapTrack(t *testing.T) *gahm.Track {
	t.Helper()
	s0 := &gahm.Snap{
		Date: gahm.NewDate(2005, 8, 29, 0, 0, 0), Basin: "AL", StormID: 9, StormName: "KATRINA",
		Position: gahm.Point{X: -89.0, Y: 25.0}, CentralPressureMb: 920, BackgroundPressureMb: 1013,
		VmaxKt: 140, VmaxMS: 140 * gahm.KnotsToMetersPerSecond, RMWNominalM: 15 * gahm.NauticalMilesToMeters,
		Isotachs: []gahm.Isotach{
			isotachAllRadii(15*gahm.NauticalMilesToMeters, 0, true),
			isotachAllRadii(150*gahm.NauticalMilesToMeters, 34*gahm.KnotsToMetersPerSecond, false),
		},
	}
	s1 := &gahm.Snap{
		Date: gahm.NewDate(2005, 8, 29, 6, 0, 0), Basin: "AL", StormID: 9, StormName: "KATRINA",
		Position: gahm.Point{X: -89.5, Y: 25.5}, CentralPressureMb: 910, BackgroundPressureMb: 1013,
		VmaxKt: 150, VmaxMS: 150 * gahm.KnotsToMetersPerSecond, RMWNominalM: 14 * gahm.NauticalMilesToMeters,
		Isotachs: []gahm.Isotach{
			isotachAllRadii(14*gahm.NauticalMilesToMeters, 0, true),
			isotachAllRadii(160*gahm.NauticalMilesToMeters, 34*gahm.KnotsToMetersPerSecond, false),
		},
	}
	track := &gahm.Track{}
	require.NoError(t, track.AddSnap(s0))
	require.NoError(t, track.AddSnap(s1))
	return track
}

func TestRunProducesConvergedQuadrants(t *testing.T) {
	track := twoSnapTrack(t)
	out, err := preprocess.Run(track, preprocess.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, out.IsPreprocessed())

	for _, s := range out.Snaps {
		assert.Greater(t, s.Translation.Speed, 0.0)
		for _, iso := range s.Isotachs {
			for i := 0; i < gahm.NumQuadrants; i++ {
				q := iso.Quadrants.At(i)
				assert.Greater(t, q.RMW, 0.0)
				assert.True(t, q.Converged)
			}
		}
	}
}

func TestImputeQuadrantRadiiFillsMissingFromNeighbors(t *testing.T) {
	track := &gahm.Track{}
	s := &gahm.Snap{
		Date: gahm.NewDate(2005, 8, 29, 0, 0, 0), VmaxMS: 60, CentralPressureMb: 960, BackgroundPressureMb: 1013,
		RMWNominalM: 20000,
	}
	var iso gahm.Isotach
	iso.WindSpeed = 17
	iso.Quadrants.Set(gahm.QuadNE, gahm.Quadrant{RadiusM: 100000})
	iso.Quadrants.Set(gahm.QuadSE, gahm.Quadrant{RadiusM: 0})
	iso.Quadrants.Set(gahm.QuadSW, gahm.Quadrant{RadiusM: 120000})
	iso.Quadrants.Set(gahm.QuadNW, gahm.Quadrant{RadiusM: 110000})
	s.Isotachs = []gahm.Isotach{iso}
	require.NoError(t, track.AddSnap(s))

	_, err := preprocess.Run(track, preprocess.DefaultOptions())
	require.NoError(t, err)

	filled := track.Snaps[0].Isotachs[0].Quadrants.At(gahm.QuadSE)
	assert.Greater(t, filled.RadiusM, 0.0)
}

func TestStationaryStormClampsMinimumTranslation(t *testing.T) {
	track := &gahm.Track{}
	p := gahm.Point{X: -89.0, Y: 25.0}
	for h := 0; h < 3; h++ {
		s := &gahm.Snap{
			Date: gahm.NewDate(2005, 8, 29, h*6, 0, 0), Position: p,
			VmaxMS: 50, CentralPressureMb: 960, BackgroundPressureMb: 1013, RMWNominalM: 20000,
			Isotachs: []gahm.Isotach{isotachAllRadii(20000, 0, true)},
		}
		require.NoError(t, track.AddSnap(s))
	}
	out, err := preprocess.Run(track, preprocess.DefaultOptions())
	require.NoError(t, err)
	for _, s := range out.Snaps {
		assert.InDelta(t, gahm.StationaryStormClampKt*gahm.KnotsToMetersPerSecond, s.Translation.Speed, 1e-9)
	}
}
