package gahm_test

import (
	"testing"

	"gahm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAddSnapMergesDuplicateDates(t *testing.T) {
	d := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	track := &gahm.Track{}

	s1 := &gahm.Snap{Date: d, VmaxMS: 50, CentralPressureMb: 950, BackgroundPressureMb: 1013,
		Isotachs: []gahm.Isotach{{WindSpeed: 0}}}
	s2 := &gahm.Snap{Date: d, VmaxMS: 50, CentralPressureMb: 950, BackgroundPressureMb: 1013,
		Isotachs: []gahm.Isotach{{WindSpeed: 17}}}

	require.NoError(t, track.AddSnap(s1))
	require.NoError(t, track.AddSnap(s2))

	require.Len(t, track.Snaps, 1)
	assert.Len(t, track.Snaps[0].Isotachs, 2)
}

func TestTrackAddSnapKeepsDateOrder(t *testing.T) {
	track := &gahm.Track{}
	mk := func(h int) *gahm.Snap {
		return &gahm.Snap{
			Date: gahm.NewDate(2005, 8, 29, h, 0, 0), VmaxMS: 50,
			CentralPressureMb: 950, BackgroundPressureMb: 1013,
		}
	}
	require.NoError(t, track.AddSnap(mk(12)))
	require.NoError(t, track.AddSnap(mk(0)))
	require.NoError(t, track.AddSnap(mk(6)))

	require.Len(t, track.Snaps, 3)
	assert.True(t, track.Snaps[0].Date.Before(track.Snaps[1].Date))
	assert.True(t, track.Snaps[1].Date.Before(track.Snaps[2].Date))
}

func TestTrackValidateRejectsNonMonotonicDates(t *testing.T) {
	track := &gahm.Track{Snaps: []*gahm.Snap{
		{Date: gahm.NewDate(2005, 8, 29, 12, 0, 0), VmaxMS: 50, CentralPressureMb: 950, BackgroundPressureMb: 1013},
		{Date: gahm.NewDate(2005, 8, 29, 12, 0, 0), VmaxMS: 50, CentralPressureMb: 950, BackgroundPressureMb: 1013},
	}}
	err := track.Validate()
	assert.Error(t, err)
	_, ok := err.(*gahm.InvariantError)
	assert.True(t, ok)
}

func TestSnapValidateRejectsBadPressureOrdering(t *testing.T) {
	s := &gahm.Snap{VmaxMS: 50, CentralPressureMb: 1013, BackgroundPressureMb: 1000}
	assert.Error(t, s.Validate())
}

func TestMarkPreprocessedFreezesTrack(t *testing.T) {
	track := &gahm.Track{}
	require.NoError(t, track.AddSnap(&gahm.Snap{
		Date: gahm.NewDate(2005, 8, 29, 0, 0, 0), VmaxMS: 50, CentralPressureMb: 950, BackgroundPressureMb: 1013,
	}))
	track.MarkPreprocessed()
	assert.True(t, track.IsPreprocessed())
	err := track.AddSnap(&gahm.Snap{Date: gahm.NewDate(2005, 8, 30, 0, 0, 0)})
	assert.Error(t, err)
	_, ok := err.(*gahm.UsageError)
	assert.True(t, ok)
}

func TestStormTranslationUVAndInterpolation(t *testing.T) {
	north := gahm.StormTranslation{Speed: 10, Direction: 0}
	u, v := north.UV()
	assert.InDelta(t, 0.0, u, 1e-9)
	assert.InDelta(t, 10.0, v, 1e-9)

	east := gahm.StormTranslation{Speed: 10, Direction: gahm.Pi / 2}
	mid := gahm.InterpolateTranslation(north, east, 0.5)
	assert.InDelta(t, 10.0, mid.Speed, 1e-9)
}
