/*------------------------------------------------------------------------------
* solver.go : per-quadrant GAHM nonlinear solver
*
*          The analytic gradient-wind function and its derivative, plus the
*          outer fixed-point loop over B, modeled as a pure function over an
*          explicit Input/Result pair rather than a stateful solver object.
*          The B iteration runs inline in Solve; there is no separate
*          step function or generic fixed-point driver.
*-----------------------------------------------------------------------------*/

package solver

import (
	"math"

	"gahm"
)

// Input is everything one quadrant-of-one-isotach solve needs.
type Input struct {
	ObservedRadiusM      float64 // R
	IsotachSpeedBL       float64 // V_iso, relative boundary-layer isotach speed, m/s
	VmaxBL               float64 // m/s
	CentralPressureMb    float64
	BackgroundPressureMb float64
	LatitudeDeg          float64
}

// Result is the solved {RMW, B, phi_shape} plus convergence bookkeeping.
type Result struct {
	RMW         float64
	B           float64
	PhiShape    float64
	Converged   bool
	Iterations  int
}

func rossby(v, r, f float64) float64 { return v / (f * r) }

// hollandB0 is the standard (non-GAHM) Holland B.
func hollandB0(vmaxBL, p0Mb, pInfMb float64) float64 {
	return vmaxBL * vmaxBL * gahm.AirDensity * gahm.EulerE / (100.0 * (pInfMb - p0Mb))
}

// phiShape computes the GAHM shape parameter phi_shape(Vmax_bl, RMW, B).
func phiShape(vmaxBL, rmw, b, f float64) float64 {
	ro := rossby(vmaxBL, rmw, f)
	return 1.0 + 1.0/(ro*b*(1.0+1.0/ro))
}

// gahmB recomputes B from the current shape parameter, B_g(phi_shape).
func gahmB(vmaxBL, rmw, p0Mb, pInfMb, f, phi float64) float64 {
	b0 := hollandB0(vmaxBL, p0Mb, pInfMb)
	ro := rossby(vmaxBL, rmw, f)
	return b0 * (1.0 + 1.0/ro) * math.Exp(phi-1.0) / phi
}

// gradientWind evaluates V_g(r) - V_iso for the inner Newton-Raphson solve.
func gradientWind(r, rmw, b, phi, vmaxBL, f, vIso float64) float64 {
	alpha := rmw / r
	alphaB := math.Pow(alpha, b)
	ro := rossby(vmaxBL, rmw, f)
	inner := vmaxBL*vmaxBL*(1.0+1.0/ro)*math.Exp(phi*(1.0-alphaB))*alphaB + math.Pow(r*f/2.0, 2.0)
	return math.Sqrt(math.Max(inner, 0)) - r*f/2.0 - vIso
}

// gradientWindDerivative is the analytic d/d(rmw) of gradientWind.
func gradientWindDerivative(rmw, isoRadius, vmaxBL, f, b, phi float64) float64 {
	f3 := math.Pow(rmw/isoRadius, b)
	f4 := math.Pow(rmw/isoRadius, b-1.0)
	f1 := math.Exp(-phi * (f3 - 1))
	f2 := (f*rmw)/vmaxBL + 1
	a := f * vmaxBL * f1 * f3
	bTerm := (b * vmaxBL * vmaxBL * f1 * f2 * f4) / isoRadius
	c := (b * phi * vmaxBL * vmaxBL * f1 * f2 * f3 * f4) / isoRadius
	d := 2.0 * math.Sqrt((f*f*isoRadius*isoRadius)/4.0+(vmaxBL*vmaxBL*f1*f2*f3))
	if d == 0 {
		return math.NaN()
	}
	return (a + bTerm - c) / d
}

// estimateRMW is the Willoughby-style initial guess.
func estimateRMW(dpMb, latDeg, isoRadius float64) float64 {
	r1 := math.Exp(3.015 - 6.291e-5*dpMb*dpMb + 0.337*latDeg)
	r2 := 0.99 * isoRadius
	guess := math.Min(r1, r2)
	if guess >= isoRadius {
		guess = isoRadius / 2.0
	}
	if guess < gahm.SolverMinRMW {
		guess = gahm.SolverMinRMW
	}
	return guess
}

const innerMaxIter = 200
const innerTol = 1e-10

// solveInnerRMW runs Newton-Raphson bounded to [lower, upper], bisecting any
// step that would leave the bracket, and
// reports whether it bracketed a root at all.
func solveInnerRMW(guess, lower, upper, isoRadius, vIso, vmaxBL, f, b, phi float64) (float64, bool) {
	x := guess
	lo, hi := lower, upper

	// verify a root can plausibly exist: V_g must be able to reach V_iso
	// for some rmw in (lower, upper); otherwise there is nothing to bracket.
	maxAchievable := gradientWind(isoRadius, upper*0.999, b, phi, vmaxBL, f, 0)
	if vIso > maxAchievable+1e-6 {
		return 0, false
	}

	for i := 0; i < innerMaxIter; i++ {
		fx := gradientWind(isoRadius, x, b, phi, vmaxBL, f, vIso)
		if math.Abs(fx) < innerTol*math.Max(1, vIso) {
			return x, true
		}
		fpx := gradientWindDerivative(x, isoRadius, vmaxBL, f, b, phi)
		var next float64
		if fpx == 0 || math.IsNaN(fpx) || math.IsInf(fpx, 0) {
			next = (lo + hi) / 2
		} else {
			next = x - fx/fpx
		}
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2
		}
		// maintain a bracket for the bisection fallback
		if fx > 0 {
			hi = x
		} else {
			lo = x
		}
		if math.Abs(next-x) < 1e-9 {
			return next, true
		}
		x = next
	}
	return x, true
}

// Solve runs the outer B fixed-point loop, producing {RMW, B, phi_shape}
// for one quadrant of one non-RMW isotach.
func Solve(in Input) Result {
	f := gahm.Coriolis(in.LatitudeDeg)
	if f == 0 {
		f = gahm.Coriolis(0.01) // avoid division by zero at the equator
	}
	dp := in.BackgroundPressureMb - in.CentralPressureMb
	guess := estimateRMW(dp, in.LatitudeDeg, in.ObservedRadiusM)

	b := hollandB0(in.VmaxBL, in.CentralPressureMb, in.BackgroundPressureMb)
	if b < gahm.SolverMinB {
		b = gahm.SolverMinB
	}
	phi := 1.0
	rmw := guess

	for it := 0; it < gahm.SolverMaxOuterIter; it++ {
		newRMW, ok := solveInnerRMW(guess, gahm.SolverMinRMW, in.ObservedRadiusM, in.ObservedRadiusM, in.IsotachSpeedBL, in.VmaxBL, f, b, phi)
		if !ok {
			return Result{
				RMW:        in.ObservedRadiusM,
				B:          hollandB0(in.VmaxBL, in.CentralPressureMb, in.BackgroundPressureMb),
				PhiShape:   1.0,
				Converged:  false,
				Iterations: it,
			}
		}
		rmw = newRMW

		phi = phiShape(in.VmaxBL, rmw, b, f)
		newB := gahmB(in.VmaxBL, rmw, in.CentralPressureMb, in.BackgroundPressureMb, f, phi)
		if math.IsNaN(newB) || math.IsInf(newB, 0) {
			return Result{
				RMW:        in.ObservedRadiusM,
				B:          hollandB0(in.VmaxBL, in.CentralPressureMb, in.BackgroundPressureMb),
				PhiShape:   1.0,
				Converged:  false,
				Iterations: it,
			}
		}
		if math.Abs(newB-b) < gahm.SolverOuterTolerance {
			return Result{RMW: rmw, B: newB, PhiShape: phi, Converged: true, Iterations: it + 1}
		}
		b = newB
		if b < gahm.SolverMinB {
			b = gahm.SolverMinB
		}
	}
	// did not converge within the outer cap: emit the last iterate.
	return Result{RMW: rmw, B: b, PhiShape: phi, Converged: false, Iterations: gahm.SolverMaxOuterIter}
}
