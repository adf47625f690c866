/*------------------------------------------------------------------------------
* track.go : in-memory storm track model
*
*          A top-level container owning an ordered slice of per-epoch
*          records: Track -> Snap -> Isotach -> Quadrant.
*-----------------------------------------------------------------------------*/

package gahm

import (
	"math"
	"sort"
)

// StormTranslation is the storm's translation (motion) velocity at a snap.
type StormTranslation struct {
	Speed     float64 // m/s, >= 0
	Direction float64 // radians, [0, 2*Pi), compass bearing (0 = north)
}

// UV returns the translation's (u, v) = (eastward, northward) components.
func (t StormTranslation) UV() (u, v float64) {
	return t.Speed * math.Sin(t.Direction), t.Speed * math.Cos(t.Direction)
}

// InterpolateTranslation interpolates speed linearly and direction angularly
//.
func InterpolateTranslation(a, b StormTranslation, w float64) StormTranslation {
	return StormTranslation{
		Speed:     a.Speed + (b.Speed-a.Speed)*w,
		Direction: LerpAngle(a.Direction, b.Direction, w),
	}
}

// Quadrant holds one isotach's per-quadrant observed radius and the solved
// GAHM parameters for that quadrant.
type Quadrant struct {
	RadiusM    float64 // observed isotach radius, meters (0 = missing, pre-imputation)
	RMW        float64 // solved radius to max winds for this quadrant, meters
	B          float64 // solved Holland B for this quadrant
	VmaxBL     float64 // solved boundary-layer Vmax for this quadrant, m/s
	IsotachBL  float64 // relative boundary-layer isotach speed used by the solver, m/s
	Converged  bool    // false if the solver fell back
}

// Isotach is one reported wind-speed ring with its four quadrant radii.
type Isotach struct {
	WindSpeed  float64 // m/s; 0 only for a never-populated placeholder, not valid input
	IsRMWRing  bool    // true for the innermost, axisymmetric RMW isotach
	Quadrants  QuadrantArray[Quadrant]
}

// Snap is one track report.
type Snap struct {
	Date                Date
	Basin               string
	StormID              int
	StormName           string
	Position            Point
	CentralPressureMb   float64
	BackgroundPressureMb float64
	VmaxKt              float64 // as reported, knots -> converted to m/s at load time stored in VmaxMS
	VmaxMS              float64
	RMWNominalM         float64
	VmaxBLMS            float64
	Translation         StormTranslation
	Isotachs            []Isotach // ascending by WindSpeed; see Validate
}

// Validate checks the Snap's required invariants.
func (s *Snap) Validate() error {
	if s.CentralPressureMb >= s.BackgroundPressureMb {
		return &InvariantError{Msg: "central pressure must be < background pressure"}
	}
	if s.VmaxMS <= 0 {
		return &InvariantError{Msg: "Vmax must be > 0"}
	}
	for i := 1; i < len(s.Isotachs); i++ {
		if s.Isotachs[i].WindSpeed < s.Isotachs[i-1].WindSpeed {
			return &InvariantError{Msg: "isotachs must be ordered ascending by wind speed"}
		}
	}
	for _, iso := range s.Isotachs {
		if iso.WindSpeed > s.VmaxMS+1e-6 {
			return &InvariantError{Msg: "isotach wind speed must be <= Vmax"}
		}
	}
	return nil
}

// Track is a time-ordered sequence of Snaps.
type Track struct {
	Snaps        []*Snap
	preprocessed bool
}

// AddSnap inserts a Snap in date order, merging (appending isotachs) into an
// existing Snap with an equal Date, which is merged rather than duplicated.
// Isotachs are kept sorted ascending by WindSpeed regardless of the order
// they arrive in, since the source format lists them in file order, not
// wind-speed order (and the RMW ring, carried at Vmax, always sorts last).
func (t *Track) AddSnap(s *Snap) error {
	if t.preprocessed {
		return &UsageError{Msg: "cannot mutate a preprocessed Track"}
	}
	for _, existing := range t.Snaps {
		if existing.Date.Equal(s.Date) {
			existing.Isotachs = append(existing.Isotachs, s.Isotachs...)
			sortIsotachsByWindSpeed(existing.Isotachs)
			return nil
		}
	}
	sortIsotachsByWindSpeed(s.Isotachs)
	t.Snaps = append(t.Snaps, s)
	sort.Slice(t.Snaps, func(i, j int) bool { return t.Snaps[i].Date.Before(t.Snaps[j].Date) })
	return nil
}

func sortIsotachsByWindSpeed(isotachs []Isotach) {
	sort.Slice(isotachs, func(i, j int) bool { return isotachs[i].WindSpeed < isotachs[j].WindSpeed })
}

// Validate checks Track-level invariants: strictly increasing dates and
// every Snap's own invariants.
func (t *Track) Validate() error {
	for i, s := range t.Snaps {
		if i > 0 && !t.Snaps[i-1].Date.Before(s.Date) {
			return &InvariantError{Msg: "track dates must be strictly monotonic"}
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MarkPreprocessed freezes the Track against further mutation.
func (t *Track) MarkPreprocessed() { t.preprocessed = true }

// IsPreprocessed reports whether MarkPreprocessed has been called.
func (t *Track) IsPreprocessed() bool { return t.preprocessed }
