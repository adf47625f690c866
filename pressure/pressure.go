/*------------------------------------------------------------------------------
* pressure.go : curve-fit central-pressure estimators
*
*          A small named-method registry selected by a string enum, the
*          way option tables elsewhere in this codebase map a config string
*          to a handler. Method is a Go string-backed enum.
*-----------------------------------------------------------------------------*/

package pressure

import "math"

// Method names a central-pressure estimator.
type Method string

const (
	Dvorak        Method = "dvorak"
	AH77          Method = "ah77"
	KnaffZehr     Method = "knaff_zehr"
	ASGS2012      Method = "asgs2012"
	CourtneyKnaff Method = "courtney_knaff"
	TwoSlope      Method = "two_slope"
)

// DefaultMethod is the estimator used when none is configured.
const DefaultMethod = TwoSlope

// Input bundles everything any of the six methods might need; fields unused
// by a given method are ignored.
type Input struct {
	VmaxKt         float64 // sustained wind, knots
	GlobalVmaxKt   float64 // the track's all-time-max Vmax, knots (ASGS2012 gate)
	LatitudeDeg    float64 // CourtneyKnaff
	ForwardSpeedKt float64 // CourtneyKnaff
	PrevVmaxKt     float64 // ASGS2012/TwoSlope, 0 if no previous snap
	PrevPressureMb float64 // ASGS2012/TwoSlope, 0 if no previous snap
}

// Estimate returns the central pressure in mbar for the given method.
func Estimate(m Method, in Input) float64 {
	switch m {
	case Dvorak:
		return dvorak(in.VmaxKt)
	case AH77:
		return ah77(in.VmaxKt)
	case KnaffZehr:
		return knaffZehr(in.VmaxKt)
	case ASGS2012:
		return asgs2012(in)
	case CourtneyKnaff:
		return courtneyKnaff(in)
	case TwoSlope:
		return twoSlope(in)
	default:
		return twoSlope(in)
	}
}

func dvorak(vKt float64) float64 {
	return 1015.0 - math.Pow(vKt/3.92, 1.0/0.644)
}

func ah77(vKt float64) float64 {
	return 1010.0 - math.Pow(vKt/3.40, 1.0/0.644)
}

func knaffZehr(vKt float64) float64 {
	return 1010.0 - math.Pow(vKt/2.30, 1.0/0.760)
}

// computeInitialPressureEstimate extrapolates a pressure from the previous
// snap's Vmax/pressure and the current Vmax, falling back to the Dvorak
// curve fit of the previous Vmax when no previous pressure is on record.
func computeInitialPressureEstimate(windSpeedKt, lastVmaxKt, lastPressureMb float64) float64 {
	ourLastPressure := lastPressureMb
	if lastPressureMb == 0.0 && lastVmaxKt != 0.0 {
		ourLastPressure = dvorak(lastVmaxKt)
	}

	p := ourLastPressure
	switch {
	case windSpeedKt > lastVmaxKt:
		p = 1040.0 - 0.877*windSpeedKt
	case windSpeedKt < lastVmaxKt:
		p = 1000.0 - 0.65*windSpeedKt
		if p < ourLastPressure {
			p = ourLastPressure + 0.65*(lastVmaxKt-windSpeedKt)
		}
	}
	return p
}

// asgs2012 uses the previous-snap extrapolation above 35 kt, and switches
// between Dvorak and AH77 at or below it, gated by the track's global
// (all-time) Vmax.
func asgs2012(in Input) float64 {
	p := computeInitialPressureEstimate(in.VmaxKt, in.PrevVmaxKt, in.PrevPressureMb)
	if in.VmaxKt <= 35.0 {
		if in.GlobalVmaxKt > 39.0 {
			p = dvorak(in.VmaxKt)
		} else {
			p = ah77(in.VmaxKt)
		}
	}
	return p
}

// courtneyKnaff follows Courtney and Knaff 2009: a storm-size correction
// (via the Knaff-Zehr 2007 RMW fit and a v500/v500c ratio) applied on top
// of a translation-speed-scaled pressure deficit, with a latitude-gated
// coefficient set.
func courtneyKnaff(in Input) float64 {
	const backgroundPressure = 1013.0
	v := in.VmaxKt
	fwd := in.ForwardSpeedKt
	lat := in.LatitudeDeg

	vsrm1 := v * 1.5 * math.Pow(fwd, 0.63)
	rmax := 66.785 - 0.09102*v + 1.0619*(lat-25.0)

	v500 := v * math.Pow(66.785-0.09102*v+1.0619*(lat-25)/500,
		0.1147+0.0055*v-0.001*(lat-25))
	v500c := v * math.Pow(rmax/500, 0.1147+0.0055*v-0.001*(lat-25.0))

	s := math.Max(v500/v500c, 0.4)

	var dp float64
	if lat < 18.0 {
		dp = 5.962 - 0.267*vsrm1 - math.Pow(vsrm1/18.26, 2.0) - 6.8*s
	} else {
		dp = 23.286 - 0.483*vsrm1 - math.Pow(vsrm1/24.254, 2.0) - 12.587*s - 0.483*lat
	}
	return dp + backgroundPressure
}

// twoSlope returns the previous snap's pressure verbatim below 30 kt (to
// avoid a discontinuity when a storm is weakening), otherwise the same
// previous-snap extrapolation asgs2012 uses above its threshold.
func twoSlope(in Input) float64 {
	if in.VmaxKt < 30.0 {
		return in.PrevPressureMb
	}
	return computeInitialPressureEstimate(in.VmaxKt, in.PrevVmaxKt, in.PrevPressureMb)
}
