/*------------------------------------------------------------------------------
* evaluator.go : vortex evaluator
*
*          Temporal bracketing, quadrant/isotach interpolation, the
*          closed-form GAHM evaluation, and the friction-inflow/translation
*          assembly. The Evaluator holds a non-owning reference to an
*          immutable Track. Batched evaluation fans out across a bounded
*          worker pool (alitto/pond): the per-point path is pure and
*          embarrassingly parallel once the current storm state is computed
*          once per call.
*-----------------------------------------------------------------------------*/

package vortex

import (
	"math"
	"runtime"
	"sync"

	"gahm"

	"github.com/alitto/pond"
)

// Evaluator answers (u, v, p) queries against an immutable, preprocessed
// Track.
type Evaluator struct {
	track *gahm.Track
	pool  *pond.WorkerPool
}

// New wraps a preprocessed Track. It is a UsageError to pass a Track that
// has not been run through preprocess.Run.
func New(track *gahm.Track) (*Evaluator, error) {
	if track == nil || !track.IsPreprocessed() {
		return nil, &gahm.UsageError{Msg: "evaluator requires a preprocessed track"}
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return &Evaluator{
		track: track,
		pool:  pond.New(n, 0, pond.MinWorkers(n)),
	}, nil
}

// Close releases the evaluator's worker pool.
func (e *Evaluator) Close() { e.pool.StopAndWait() }

// stormState is the interpolated current position/translation/pressure at a
// query time.
type stormState struct {
	s0, s1      *gahm.Snap
	wTime       float64
	position    gahm.Point
	translation gahm.StormTranslation
	centralMb   float64
	backgroundMb float64
	rmwTrueM    float64
}

// bracket locates the pair of snaps bracketing t and the interpolated storm
// state.
func (e *Evaluator) bracket(t gahm.Date) stormState {
	snaps := e.track.Snaps
	n := len(snaps)

	var s0, s1 *gahm.Snap
	var w float64

	switch {
	case !t.After(snaps[0].Date):
		s0, s1, w = snaps[0], snaps[0], 0
	case !snaps[n-1].Date.After(t):
		s0, s1, w = snaps[n-1], snaps[n-1], 1
	default:
		for i := 0; i < n-1; i++ {
			if !snaps[i].Date.After(t) && t.Before(snaps[i+1].Date) {
				s0, s1 = snaps[i], snaps[i+1]
				w = t.Sub(s0.Date) / s1.Date.Sub(s0.Date)
				break
			}
		}
		if s0 == nil { // defensive; bracket search above is exhaustive for this case
			s0, s1, w = snaps[n-1], snaps[n-1], 1
		}
	}

	return stormState{
		s0: s0, s1: s1, wTime: w,
		position:     gahm.Lerp(s0.Position, s1.Position, w),
		translation:  gahm.InterpolateTranslation(s0.Translation, s1.Translation, w),
		centralMb:    s0.CentralPressureMb + (s1.CentralPressureMb-s0.CentralPressureMb)*w,
		backgroundMb: s0.BackgroundPressureMb + (s1.BackgroundPressureMb-s0.BackgroundPressureMb)*w,
		rmwTrueM:     s0.RMWNominalM + (s1.RMWNominalM-s0.RMWNominalM)*w,
	}
}

// Solve answers one query point at time t.
func (e *Evaluator) Solve(t gahm.Date, point gahm.Point) gahm.Solution {
	st := e.bracket(t)
	return e.solveAt(st, point)
}

// SolveBatch answers a point cloud at time t, fanning the pure per-point
// work out across the worker pool.
func (e *Evaluator) SolveBatch(t gahm.Date, points []gahm.Point) []gahm.Solution {
	st := e.bracket(t)
	out := make([]gahm.Solution, len(points))
	var wg sync.WaitGroup
	wg.Add(len(points))
	for i := range points {
		i := i
		e.pool.Submit(func() {
			defer wg.Done()
			out[i] = e.solveAt(st, points[i])
		})
	}
	wg.Wait()
	return out
}

func (e *Evaluator) solveAt(st stormState, point gahm.Point) gahm.Solution {
	d := gahm.GreatCircleDistance(point, st.position)
	a := gahm.ForwardAzimuth(point, st.position)

	if d < gahm.EyeClampNmi*gahm.NauticalMilesToMeters {
		return gahm.Solution{U: 0, V: 0, P: st.centralMb * gahm.MillibarToPascal}
	}
	if d < 1.0 {
		d = 1.0 // numerical hardening: never divide by d==0
	}

	pack := e.composeParameterPack(st, a, d)
	pack.RMWTrue = st.rmwTrueM

	fp := gahm.Coriolis(point.Y)
	if fp == 0 {
		fp = gahm.Coriolis(0.01)
	}

	b := pack.B
	if b < gahm.SolverMinB {
		b = gahm.SolverMinB
	}
	ro := pack.VmaxBL / (fp * pack.RMW)
	alphaB := math.Pow(pack.RMW/d, b)
	phi := 1.0 + 1.0/(ro*b*(1.0+1.0/ro))

	inner := pack.VmaxBL*pack.VmaxBL*(1.0+1.0/ro)*math.Exp(phi*(1.0-alphaB))*alphaB + math.Pow(d*fp/2.0, 2.0)
	v := math.Sqrt(math.Max(inner, 0)) - d*fp/2.0

	pMb := st.centralMb + (st.backgroundMb-st.centralMb)*math.Exp(-phi*alphaB)

	ur := v * math.Cos(a)
	vr := -v * math.Sin(a)

	beta := frictionInflowAngle(d, pack.RMWTrue) * sign(point.Y)
	cb, sb := math.Cos(beta), math.Sin(beta)
	ur, vr = ur*cb-vr*sb, ur*sb+vr*cb

	ut, vt := st.translation.UV()
	scale := 0.0
	if pack.VmaxBL != 0 {
		scale = v / pack.VmaxBL
	}
	ur += ut * scale
	vr += vt * scale

	const oneToTen = gahm.DefaultOneToTenFactor
	ur *= oneToTen
	vr *= oneToTen

	return gahm.Solution{U: ur, V: vr, P: pMb * gahm.MillibarToPascal}
}

// frictionInflowAngle returns the piecewise inflow-angle band, magnitude
// only (the cyclonic sign is applied by the caller via sign(latitude)).
func frictionInflowAngle(d, rmwTrue float64) float64 {
	switch {
	case d < rmwTrue:
		return 10 * gahm.D2R
	case d < 1.2*rmwTrue:
		return (10 + 75*(d/rmwTrue-1)) * gahm.D2R
	default:
		return 25 * gahm.D2R
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
