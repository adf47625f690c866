/*------------------------------------------------------------------------------
* compose.go : quadrant/isotach/time parameter-pack composition
*
*          Quadrant and isotach selection/blending, split into three small,
*          independently testable composition steps instead of one nested
*          loop.
*-----------------------------------------------------------------------------*/

package vortex

import (
	"math"
	"sort"

	"gahm"
)

// quadrantBracket returns the two quadrants bracketing azimuth a (forward
// azimuth from point to storm center, radians in [0, 2*pi)) and the angular
// offset from qLeft's canonical center, in [0, pi/2).
func quadrantBracket(a float64) (qLeft, qRight int, delta float64) {
	const bin = (math.Pi / 2)
	shifted := gahm.NormalizeAngle(a - gahm.QuadrantCenterAzimuthDeg[gahm.QuadNE]*gahm.D2R)
	idx := int(math.Floor(shifted / bin))
	delta = shifted - float64(idx)*bin
	qLeft = ((idx % gahm.NumQuadrants) + gahm.NumQuadrants) % gahm.NumQuadrants
	qRight = (qLeft + 1) % gahm.NumQuadrants
	return
}

// isotachEntry is one (radius, pack) sample for a single quadrant of a
// single snap, ordered for the radial bracket search in (e).
type isotachEntry struct {
	radius float64
	pack   gahm.VortexParameterPack
}

// radialSamples builds the radius-ascending view of a snap's isotachs for
// one quadrant. The isotachs are stored in ascending-wind-speed order, but
// wind speed and radius are inversely related, so the samples are
// re-sorted by radius here, which is the operative axis for the bracket
// search below.
func radialSamples(s *gahm.Snap, q int) []isotachEntry {
	out := make([]isotachEntry, 0, len(s.Isotachs))
	for i := range s.Isotachs {
		quad := s.Isotachs[i].Quadrants.At(q)
		out = append(out, isotachEntry{
			radius: quad.RadiusM,
			pack: gahm.VortexParameterPack{
				RMW:            quad.RMW,
				VmaxBL:         quad.VmaxBL,
				IsotachSpeedBL: quad.IsotachBL,
				B:              quad.B,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].radius < out[j].radius })
	return out
}

// isotachComposite finds the bracketing pair of radial samples for distance
// d and linearly interpolates the parameter pack between them. Distances
// inside the innermost sample or outside the outermost clamp to the
// nearest sample.
func isotachComposite(s *gahm.Snap, q int, d float64) gahm.VortexParameterPack {
	samples := radialSamples(s, q)
	if len(samples) == 1 {
		return samples[0].pack
	}
	if d <= samples[0].radius {
		return samples[0].pack
	}
	last := len(samples) - 1
	if d >= samples[last].radius {
		return samples[last].pack
	}
	for j := 0; j < last; j++ {
		if samples[j].radius <= d && d < samples[j+1].radius {
			span := samples[j+1].radius - samples[j].radius
			w := 0.0
			if span > 0 {
				w = (d - samples[j].radius) / span
			}
			return lerpPack(samples[j].pack, samples[j+1].pack, w)
		}
	}
	return samples[last].pack
}

func lerpPack(a, b gahm.VortexParameterPack, w float64) gahm.VortexParameterPack {
	return gahm.VortexParameterPack{
		RMW:            a.RMW + (b.RMW-a.RMW)*w,
		VmaxBL:         a.VmaxBL + (b.VmaxBL-a.VmaxBL)*w,
		IsotachSpeedBL: a.IsotachSpeedBL + (b.IsotachSpeedBL-a.IsotachSpeedBL)*w,
		B:              a.B + (b.B-a.B)*w,
	}
}

// idwPack combines the qLeft/qRight packs with inverse-square-distance
// weights on the angular offset delta in [0, pi/2) from qLeft's center,
// snapping outright to qLeft below 1 degree and to qRight above 89 degrees.
func idwPack(left, right gahm.VortexParameterPack, delta float64) gahm.VortexParameterPack {
	const span = math.Pi / 2
	const snapLow = 1.0 * gahm.D2R
	const snapHigh = 89.0 * gahm.D2R
	if delta < snapLow {
		return left
	}
	if delta > snapHigh {
		return right
	}
	distLeft, distRight := delta, span-delta
	wLeft, wRight := 1.0/(distLeft*distLeft), 1.0/(distRight*distRight)
	sum := wLeft + wRight
	wLeft, wRight = wLeft/sum, wRight/sum
	return gahm.VortexParameterPack{
		RMW:            left.RMW*wLeft + right.RMW*wRight,
		VmaxBL:         left.VmaxBL*wLeft + right.VmaxBL*wRight,
		IsotachSpeedBL: left.IsotachSpeedBL*wLeft + right.IsotachSpeedBL*wRight,
		B:              left.B*wLeft + right.B*wRight,
	}
}

// composeParameterPack runs the full composition: isotach (radial, linear)
// -> quadrant (angular, IDW) -> time (linear).
func (e *Evaluator) composeParameterPack(st stormState, azimuth, d float64) gahm.VortexParameterPack {
	qLeft, qRight, delta := quadrantBracket(azimuth)

	left0 := isotachComposite(st.s0, qLeft, d)
	right0 := isotachComposite(st.s0, qRight, d)
	composed0 := idwPack(left0, right0, delta)

	if st.s1 == st.s0 {
		return composed0
	}

	left1 := isotachComposite(st.s1, qLeft, d)
	right1 := isotachComposite(st.s1, qRight, d)
	composed1 := idwPack(left1, right1, delta)

	return lerpPack(composed0, composed1, st.wTime)
}
