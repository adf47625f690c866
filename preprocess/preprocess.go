/*------------------------------------------------------------------------------
* preprocess.go : track preprocessing pipeline
*
*          Missing-pressure estimation, translation velocity, quadrant
*          radius imputation, boundary-layer conversion and solver
*          invocation, implemented as a sequence of small functions over
*          gahm.Track, each of which updates the Track's snaps in place.
*-----------------------------------------------------------------------------*/

package preprocess

import (
	"math"

	"gahm"
	"gahm/pressure"
	"gahm/solver"

	"github.com/samber/lo"
)

// Options configures the preprocessing pass; the zero value uses the
// documented defaults.
type Options struct {
	WindReductionFactor  float64
	PressureMethod       pressure.Method
	BackgroundPressureMb float64
}

// DefaultOptions returns the documented default preprocessing options.
func DefaultOptions() Options {
	return Options{
		WindReductionFactor:  gahm.DefaultWindReductionFactor,
		PressureMethod:       pressure.DefaultMethod,
		BackgroundPressureMb: gahm.DefaultBackgroundMb,
	}
}

// Run preprocesses a freshly loaded Track in place, in a fixed pipeline
// order, and returns the same Track marked preprocessed.
func Run(track *gahm.Track, opts Options) (*gahm.Track, error) {
	defaults := DefaultOptions()
	if opts.WindReductionFactor == 0 {
		opts.WindReductionFactor = defaults.WindReductionFactor
	}
	if opts.PressureMethod == "" {
		opts.PressureMethod = defaults.PressureMethod
	}
	if opts.BackgroundPressureMb == 0 {
		opts.BackgroundPressureMb = defaults.BackgroundPressureMb
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	computeTranslation(track)
	fillMissingPressures(track, opts)
	imputeQuadrantRadii(track)
	computeBoundaryLayerVmax(track, opts)
	prepareIsotachSpeeds(track, opts)
	invokeSolver(track)

	if err := track.Validate(); err != nil {
		return nil, err
	}
	track.MarkPreprocessed()
	return track, nil
}

// fillMissingPressures estimates a central pressure for any snap whose
// CentralPressureMb is unset (<=0).
func fillMissingPressures(track *gahm.Track, opts Options) {
	globalVmaxKt := lo.Reduce(track.Snaps, func(acc float64, s *gahm.Snap, _ int) float64 {
		return math.Max(acc, s.VmaxKt)
	}, 0.0)

	var prevMb, prevVmaxKt float64
	for _, s := range track.Snaps {
		if s.CentralPressureMb <= 0 {
			in := pressure.Input{
				VmaxKt:         s.VmaxKt,
				GlobalVmaxKt:   globalVmaxKt,
				LatitudeDeg:    s.Position.Y,
				ForwardSpeedKt: s.Translation.Speed / gahm.KnotsToMetersPerSecond,
				PrevVmaxKt:     prevVmaxKt,
				PrevPressureMb: prevMb,
			}
			s.CentralPressureMb = pressure.Estimate(opts.PressureMethod, in)
		}
		if s.BackgroundPressureMb <= 0 {
			s.BackgroundPressureMb = opts.BackgroundPressureMb
		}
		prevMb = s.CentralPressureMb
		prevVmaxKt = s.VmaxKt
	}
}

// imputeQuadrantRadii fills missing (zero) quadrant radii of each isotach
// by how many are present: with three, a missing quadrant takes the mean
// of its two neighbours; with two, the mean of the two present; with one,
// that one value; with none, the snap's nominal RMW.
func imputeQuadrantRadii(track *gahm.Track) {
	for _, s := range track.Snaps {
		for isoIdx := range s.Isotachs {
			iso := &s.Isotachs[isoIdx]
			present := 0
			for i := 0; i < gahm.NumQuadrants; i++ {
				if iso.Quadrants.At(i).RadiusM > 0 {
					present++
				}
			}
			switch present {
			case 4:
				// unchanged
			case 3:
				for i := 0; i < gahm.NumQuadrants; i++ {
					if iso.Quadrants.At(i).RadiusM <= 0 {
						left, right := iso.Quadrants.Neighbors(i)
						q := iso.Quadrants.At(i)
						q.RadiusM = (left.RadiusM + right.RadiusM) / 2.0
						iso.Quadrants.Set(i, q)
					}
				}
			case 2:
				sum, n := 0.0, 0
				for i := 0; i < gahm.NumQuadrants; i++ {
					if r := iso.Quadrants.At(i).RadiusM; r > 0 {
						sum += r
						n++
					}
				}
				mean := sum / float64(n)
				for i := 0; i < gahm.NumQuadrants; i++ {
					if iso.Quadrants.At(i).RadiusM <= 0 {
						q := iso.Quadrants.At(i)
						q.RadiusM = mean
						iso.Quadrants.Set(i, q)
					}
				}
			case 1:
				var value float64
				for i := 0; i < gahm.NumQuadrants; i++ {
					if r := iso.Quadrants.At(i).RadiusM; r > 0 {
						value = r
					}
				}
				for i := 0; i < gahm.NumQuadrants; i++ {
					if iso.Quadrants.At(i).RadiusM <= 0 {
						q := iso.Quadrants.At(i)
						q.RadiusM = value
						iso.Quadrants.Set(i, q)
					}
				}
			case 0:
				for i := 0; i < gahm.NumQuadrants; i++ {
					q := iso.Quadrants.At(i)
					q.RadiusM = s.RMWNominalM
					iso.Quadrants.Set(i, q)
				}
			}
		}
	}
}

// computeTranslation assigns each snap's translation velocity from the
// previous snap's position delta.
func computeTranslation(track *gahm.Track) {
	if len(track.Snaps) == 0 {
		return
	}
	for i := 1; i < len(track.Snaps); i++ {
		prev, cur := track.Snaps[i-1], track.Snaps[i]
		dt := cur.Date.Sub(prev.Date)
		midLat := (prev.Position.Y + cur.Position.Y) / 2.0
		r := gahm.EarthRadiusAt(midLat)

		dx := (cur.Position.X - prev.Position.X) * gahm.D2R * r * math.Cos(midLat*gahm.D2R)
		dy := (cur.Position.Y - prev.Position.Y) * gahm.D2R * r

		ut := dx / dt
		vt := dy / dt
		speed := math.Hypot(ut, vt)
		direction := math.Atan2(ut, vt)
		direction = gahm.NormalizeAngle(direction)

		minSpeed := gahm.StationaryStormClampKt * gahm.KnotsToMetersPerSecond
		if speed < minSpeed {
			speed = minSpeed
			direction = prev.Translation.Direction
		}
		cur.Translation = gahm.StormTranslation{Speed: speed, Direction: direction}
	}
	track.Snaps[0].Translation = track.Snaps[min(1, len(track.Snaps)-1)].Translation
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// computeBoundaryLayerVmax converts each snap's reported Vmax to the
// boundary-layer frame.
func computeBoundaryLayerVmax(track *gahm.Track, opts Options) {
	for _, s := range track.Snaps {
		s.VmaxBLMS = (s.VmaxMS - s.Translation.Speed) / opts.WindReductionFactor
	}
}

// prepareIsotachSpeeds computes each non-RMW isotach's per-quadrant relative
// boundary-layer isotach speed.
func prepareIsotachSpeeds(track *gahm.Track, opts Options) {
	for _, s := range track.Snaps {
		ut, vt := s.Translation.UV()
		for isoIdx := range s.Isotachs {
			iso := &s.Isotachs[isoIdx]
			if iso.IsRMWRing {
				continue
			}
			for i := 0; i < gahm.NumQuadrants; i++ {
				az := gahm.QuadrantCenterAzimuthDeg[i] * gahm.D2R
				projection := ut*math.Sin(az) + vt*math.Cos(az)
				q := iso.Quadrants.At(i)
				q.IsotachBL = (iso.WindSpeed - projection) / opts.WindReductionFactor
				iso.Quadrants.Set(i, q)
			}
		}
	}
}

// invokeSolver runs the GAHM solver for every (snap, isotach, quadrant).
// The RMW isotach is axisymmetric by definition and is never solved; it is
// filled directly from the snap's nominal values.
func invokeSolver(track *gahm.Track) {
	for _, s := range track.Snaps {
		b0 := 0.0
		if s.BackgroundPressureMb > s.CentralPressureMb {
			b0 = s.VmaxBLMS * s.VmaxBLMS * gahm.AirDensity * gahm.EulerE / (100.0 * (s.BackgroundPressureMb - s.CentralPressureMb))
		}
		for isoIdx := range s.Isotachs {
			iso := &s.Isotachs[isoIdx]
			for i := 0; i < gahm.NumQuadrants; i++ {
				q := iso.Quadrants.At(i)
				if iso.IsRMWRing {
					q.RMW = s.RMWNominalM
					q.VmaxBL = s.VmaxBLMS
					q.B = b0
					q.Converged = true
					iso.Quadrants.Set(i, q)
					continue
				}
				res := solver.Solve(solver.Input{
					ObservedRadiusM:      q.RadiusM,
					IsotachSpeedBL:       q.IsotachBL,
					VmaxBL:               s.VmaxBLMS,
					CentralPressureMb:    s.CentralPressureMb,
					BackgroundPressureMb: s.BackgroundPressureMb,
					LatitudeDeg:          s.Position.Y,
				})
				q.RMW = res.RMW
				q.B = res.B
				q.VmaxBL = s.VmaxBLMS
				q.Converged = res.Converged
				iso.Quadrants.Set(i, q)
			}
		}
	}
}
