package atcf_test

import (
	"strings"
	"testing"

	"gahm/atcf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(basin, stormID, date, tau, lat, lon, vmax, pressure, isotach, radNE, radSE, radSW, radNW, rmw, name string) string {
	f := make([]string, 28)
	f[0], f[1], f[2], f[5] = basin, stormID, date, tau
	f[6], f[7] = lat, lon
	f[8], f[9] = vmax, pressure
	f[11] = isotach
	f[13], f[14], f[15], f[16] = radNE, radSE, radSW, radNW
	f[19] = rmw
	f[27] = name
	return strings.Join(f, ",")
}

func TestLoadParsesRMWAndIsotachRecords(t *testing.T) {
	lines := []string{
		fields("AL", "09", "2005082912", "0", "251N", "0890W", "150", "902", "0", "15", "15", "15", "15", "15", "KATRINA"),
		fields("AL", "09", "2005082912", "0", "251N", "0890W", "150", "902", "64", "40", "40", "35", "35", "15", "KATRINA"),
		fields("AL", "09", "2005082912", "0", "251N", "0890W", "150", "902", "34", "150", "150", "120", "120", "15", "KATRINA"),
	}
	track, err := atcf.Load(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	require.Len(t, track.Snaps, 1)

	snap := track.Snaps[0]
	assert.Equal(t, "AL", snap.Basin)
	assert.Equal(t, 9, snap.StormID)
	assert.Equal(t, "KATRINA", snap.StormName)
	assert.InDelta(t, -89.0, snap.Position.X, 1e-9)
	assert.InDelta(t, 25.1, snap.Position.Y, 1e-9)
	assert.Len(t, snap.Isotachs, 3)
}

func TestLoadRejectsShortLines(t *testing.T) {
	_, err := atcf.Load(strings.NewReader("AL,09,2005082912"))
	assert.Error(t, err)
}

func TestLoadRejectsInconsistentStormID(t *testing.T) {
	lines := []string{
		fields("AL", "09", "2005082912", "0", "251N", "0890W", "150", "902", "0", "15", "15", "15", "15", "15", "KATRINA"),
		fields("AL", "10", "2005082918", "0", "260N", "0895W", "150", "902", "0", "15", "15", "15", "15", "15", "KATRINA"),
	}
	_, err := atcf.Load(strings.NewReader(strings.Join(lines, "\n")))
	assert.Error(t, err)
}
