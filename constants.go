/*------------------------------------------------------------------------------
* constants.go : physical and model constants for the GAHM vortex pipeline
*
*          Grouped in one constant block the way the rest of this codebase
*          keeps its conversion factors and physical constants together.
*-----------------------------------------------------------------------------*/

package gahm

import "math"

// angle / geometry
const (
	Pi  float64 = math.Pi
	D2R         = Pi / 180.0 /* deg to rad */
	R2D         = 180.0 / Pi /* rad to deg */
)

// Earth and rotation constants.
const (
	EarthOmega   float64 = 7.292115e-5 /* earth angular velocity (rad/s) */
	EarthRadiusEq float64 = 6378137.0    /* WGS84 equatorial radius (m) */
	EarthRadiusPo float64 = 6356752.3    /* WGS84 polar radius (m) */
)

// Atmospheric constants used by the Holland/GAHM profile.
const (
	AirDensity          float64 = 1.293 /* rho_air, kg/m^3 */
	EulerE              float64 = math.E
	DefaultBackgroundMb float64 = 1013.0 /* default p_infinity (mbar) */
)

// Model tunables. The wind reduction factor is overridable via config (see
// package config) through preprocess.Options; the vortex evaluator always
// applies DefaultOneToTenFactor and does not read Config.OneToTenFactor.
const (
	DefaultWindReductionFactor float64 = 0.9    /* boundary-layer <-> 10 m factor */
	DefaultOneToTenFactor      float64 = 0.8928 /* sustained -> 10-min/10-m factor */
)

// Quadrant indices, fixed order NE, SE, SW, NW.
const (
	QuadNE = 0
	QuadSE = 1
	QuadSW = 2
	QuadNW = 3
	NumQuadrants = 4
)

// QuadrantCenterAzimuthDeg is the canonical compass center of each quadrant slot.
var QuadrantCenterAzimuthDeg = [NumQuadrants]float64{45, 135, 225, 315}

// Solver tolerances and iteration caps.
const (
	SolverOuterTolerance = 1e-6
	SolverMaxOuterIter   = 100
	SolverMinRMW         = 1.0 // meters
	SolverMinB           = 0.5
)

// EyeClampNmi is the radius inside which the evaluator forces a calm eye.
const EyeClampNmi = 1.0

// StationaryStormClampKt is the minimum translation speed a snap may carry.
const StationaryStormClampKt = 1.0
