package pressure_test

import (
	"testing"

	"gahm/pressure"

	"github.com/stretchr/testify/assert"
)

func TestEstimateMonotonicInVmax(t *testing.T) {
	for _, m := range []pressure.Method{pressure.Dvorak, pressure.AH77, pressure.KnaffZehr} {
		weak := pressure.Estimate(m, pressure.Input{VmaxKt: 40})
		strong := pressure.Estimate(m, pressure.Input{VmaxKt: 140})
		assert.Less(t, strong, weak, "method %s should yield lower pressure for stronger wind", m)
	}
}

func TestASGS2012Gate(t *testing.T) {
	weakStorm := pressure.Estimate(pressure.ASGS2012, pressure.Input{VmaxKt: 30, GlobalVmaxKt: 30})
	weakStormFromMajor := pressure.Estimate(pressure.ASGS2012, pressure.Input{VmaxKt: 30, GlobalVmaxKt: 130})
	assert.NotEqual(t, weakStorm, weakStormFromMajor)
}

func TestTwoSlopeBelowThresholdReturnsPrevPressureVerbatim(t *testing.T) {
	p := pressure.Estimate(pressure.TwoSlope, pressure.Input{VmaxKt: 20, PrevPressureMb: 990})
	assert.Equal(t, 990.0, p)
}

func TestTwoSlopeAtOrAboveThresholdExtrapolatesWithNoPriorSnap(t *testing.T) {
	p := pressure.Estimate(pressure.TwoSlope, pressure.Input{VmaxKt: 60})
	assert.Greater(t, p, 900.0)
	assert.Less(t, p, 1013.0)
}

func TestDefaultMethodIsTwoSlope(t *testing.T) {
	assert.Equal(t, pressure.TwoSlope, pressure.DefaultMethod)
}
