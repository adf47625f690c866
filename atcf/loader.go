/*------------------------------------------------------------------------------
* loader.go : ATCF-like best-track text loader
*
*          Open file, scan line by line, split into fixed-position fields,
*          build up an in-memory record, fatal on a malformed non-empty
*          line. The track format is flat CSV, so the scanner is a single
*          comma-split pass per line.
*-----------------------------------------------------------------------------*/

package atcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gahm"
	"github.com/pkg/errors"
)

const minFields = 28

// field indices, positional after trimming.
const (
	fieldBasin    = 0
	fieldStormID  = 1
	fieldDate     = 2
	fieldTau      = 5
	fieldLat      = 6
	fieldLon      = 7
	fieldVmax     = 8
	fieldPressure = 9
	fieldIsotach  = 11
	fieldRadNE    = 13
	fieldRadSE    = 14
	fieldRadSW    = 15
	fieldRadNW    = 16
	fieldRMW      = 19
	fieldName     = 27
)

// LoadFile parses a best-track file at path into a Track.
func LoadFile(path string) (*gahm.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &gahm.IOError{Op: "open " + path, Err: err}
	}
	defer f.Close()
	return Load(f)
}

// Load parses a best-track stream into a Track.
func Load(r io.Reader) (*gahm.Track, error) {
	track := &gahm.Track{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var basin string
	var stormID int
	haveID := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		snap, iso, quadIdx, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}

		if !haveID {
			basin, stormID, haveID = snap.Basin, snap.StormID, true
		} else if snap.Basin != basin || snap.StormID != stormID {
			return nil, &gahm.ParseError{Line: lineNo, Msg: fmt.Sprintf(
				"inconsistent basin/id: expected %s%d, got %s%d", basin, stormID, snap.Basin, snap.StormID)}
		}

		if err := mergeIsotach(track, snap, iso, quadIdx); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &gahm.IOError{Op: "read", Err: err}
	}
	if len(track.Snaps) == 0 {
		return nil, &gahm.ParseError{Msg: "no parseable snaps in track"}
	}
	return track, nil
}

// parseLine parses one CSV line into a standalone Snap carrying exactly one
// Isotach with all four quadrant radii set, for the caller to fold into the
// Track (mirrors the "one line per (snap, isotach) pair" contract of
// the file format's field layout).
func parseLine(line string, lineNo int) (*gahm.Snap, gahm.Isotach, int, error) {
	raw := strings.Split(line, ",")
	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	if len(fields) < minFields {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: fmt.Sprintf(
			"expected at least %d fields, got %d", minFields, len(fields))}
	}

	tau, err := parseFloat(fields[fieldTau])
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed forecast-hour field: " + err.Error()}
	}
	date, err := gahm.ATCFDateToken(fields[fieldDate], tau)
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: err.Error()}
	}

	lat, err := parseLatLon(fields[fieldLat], 'N', 'S')
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed latitude: " + err.Error()}
	}
	lon, err := parseLatLon(fields[fieldLon], 'E', 'W')
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed longitude: " + err.Error()}
	}

	vmaxKt, err := parseFloat(fields[fieldVmax])
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed Vmax: " + err.Error()}
	}
	pressureMb, err := parseFloat(fields[fieldPressure])
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed pressure: " + err.Error()}
	}
	isotachKt, err := parseFloat(fields[fieldIsotach])
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed isotach speed: " + err.Error()}
	}
	rmwNmi, err := parseFloat(fields[fieldRMW])
	if err != nil {
		return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed RMW: " + err.Error()}
	}

	stormID, err := strconv.Atoi(strings.TrimLeft(fields[fieldStormID], "0"))
	if err != nil {
		if fields[fieldStormID] == "" {
			return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "missing storm id"}
		}
		stormID = 0
	}

	var radii [4]float64
	for i, fi := range []int{fieldRadNE, fieldRadSE, fieldRadSW, fieldRadNW} {
		r, err := parseFloat(fields[fi])
		if err != nil {
			return nil, gahm.Isotach{}, 0, &gahm.ParseError{Line: lineNo, Msg: "malformed isotach radius: " + err.Error()}
		}
		radii[i] = r * gahm.NauticalMilesToMeters
	}

	storm := strings.TrimSpace(fields[fieldName])

	snap := &gahm.Snap{
		Date:                 date,
		Basin:                strings.ToUpper(strings.TrimSpace(fields[fieldBasin])),
		StormID:              stormID,
		StormName:            storm,
		Position:             gahm.Point{X: lon, Y: lat},
		CentralPressureMb:    pressureMb,
		BackgroundPressureMb: gahm.DefaultBackgroundMb,
		VmaxKt:               vmaxKt,
		VmaxMS:               vmaxKt * gahm.KnotsToMetersPerSecond,
		RMWNominalM:          rmwNmi * gahm.NauticalMilesToMeters,
	}

	var iso gahm.Isotach
	iso.IsRMWRing = isotachKt == 0
	if iso.IsRMWRing {
		// no isotach speed given: the ring is carried at Vmax with all four
		// quadrant radii pinned to the nominal RMW, not the (typically blank)
		// radius fields.
		iso.WindSpeed = vmaxKt * gahm.KnotsToMetersPerSecond
		rmwM := rmwNmi * gahm.NauticalMilesToMeters
		for i := range radii {
			iso.Quadrants.Set(i, gahm.Quadrant{RadiusM: rmwM})
		}
	} else {
		iso.WindSpeed = isotachKt * gahm.KnotsToMetersPerSecond
		for i, r := range radii {
			iso.Quadrants.Set(i, gahm.Quadrant{RadiusM: r})
		}
	}

	return snap, iso, 0, nil
}

// mergeIsotach folds one parsed (snap header, isotach) pair into the Track,
// merging into an existing Snap with an equal Date.
func mergeIsotach(track *gahm.Track, snap *gahm.Snap, iso gahm.Isotach, _ int) error {
	snap.Isotachs = []gahm.Isotach{iso}
	if err := track.AddSnap(snap); err != nil {
		return errors.Wrap(err, "merging track snap")
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseLatLon parses a tenths-of-degree token with a trailing hemisphere
// letter, e.g. "251N" -> 25.1, "700W" -> -70.0.
func parseLatLon(tok string, pos, neg byte) (float64, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("empty coordinate field")
	}
	suffix := tok[len(tok)-1]
	numPart := tok
	sign := 1.0
	if suffix == pos {
		numPart = tok[:len(tok)-1]
	} else if suffix == neg {
		numPart = tok[:len(tok)-1]
		sign = -1.0
	}
	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, err
	}
	return sign * v / 10.0, nil
}
