package gahm_test

import (
	"testing"

	"gahm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateEpochRoundTrip(t *testing.T) {
	d := gahm.NewDate(2005, 8, 29, 12, 0, 0)
	y, mo, day, h, mi, sec := d.Epoch()
	assert.Equal(t, 2005, y)
	assert.Equal(t, 8, mo)
	assert.Equal(t, 29, day)
	assert.Equal(t, 12, h)
	assert.Equal(t, 0, mi)
	assert.Equal(t, 0.0, sec)
}

func TestDateArithmetic(t *testing.T) {
	d0 := gahm.NewDate(2005, 8, 29, 0, 0, 0)
	d1 := d0.Add(6 * 3600)
	assert.True(t, d1.After(d0))
	assert.Equal(t, 6*3600.0, d1.Sub(d0))
	assert.True(t, d0.Before(d1))
}

func TestATCFDateToken(t *testing.T) {
	d, err := gahm.ATCFDateToken("2005082912", 6)
	require.NoError(t, err)
	y, mo, day, h, _, _ := d.Epoch()
	assert.Equal(t, 2005, y)
	assert.Equal(t, 8, mo)
	assert.Equal(t, 29, day)
	assert.Equal(t, 18, h)
}

func TestATCFDateTokenMalformed(t *testing.T) {
	_, err := gahm.ATCFDateToken("not-a-date", 0)
	assert.Error(t, err)
}
