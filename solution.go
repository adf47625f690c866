/*------------------------------------------------------------------------------
* solution.go : per-query vortex parameter pack and evaluated solution
*
*          A small result struct per query: the evaluated wind/pressure
*          triple, plus the composed parameter pack that produced it.
*-----------------------------------------------------------------------------*/

package gahm

// VortexParameterPack is the ephemeral, per-query composed parameter set fed
// to the analytic GAHM evaluation.
type VortexParameterPack struct {
	RMW            float64 // composed radius to max winds, meters
	RMWTrue        float64 // uncomposed "true" RMW used for the friction-inflow radius band
	VmaxBL         float64 // composed boundary-layer Vmax, m/s
	IsotachSpeedBL float64 // composed relative boundary-layer isotach speed, m/s
	B              float64 // composed Holland B
}

// Solution is one point's evaluated wind vector and pressure.
type Solution struct {
	U, V float64 // m/s
	P    float64 // Pa
}
