/*------------------------------------------------------------------------------
* date.go : monotonic instant with second resolution
*
*          A plain UTC-seconds-since-epoch instant; no leap-second or
*          timezone database lookups are needed at the hourly resolution the
*          track format carries.
*-----------------------------------------------------------------------------*/

package gahm

import (
	"fmt"
	"math"
)

// Date is a monotonic instant with second resolution, expressed as whole
// seconds since the Unix epoch plus a sub-second fraction. Two Dates compare
// by Time then Sec.
type Date struct {
	Time int64   // whole seconds since 1970-01-01T00:00:00Z
	Sec  float64 // fractional second in [0, 1)
}

var daysBeforeMonth = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// NewDate builds a Date from a calendar day/time, using the proleptic
// Gregorian calendar (valid 1970-2100).
func NewDate(year, month, day, hour, minute int, sec float64) Date {
	days := 0
	for y := 1970; y < year; y++ {
		if isLeap(y) {
			days += 366
		} else {
			days += 365
		}
	}
	days += daysBeforeMonth[month-1]
	if month > 2 && isLeap(year) {
		days++
	}
	days += day - 1

	whole := math.Floor(sec)
	return Date{
		Time: int64(days)*86400 + int64(hour)*3600 + int64(minute)*60 + int64(whole),
		Sec:  sec - whole,
	}
}

// Epoch returns the calendar day/time {year, month, day, hour, min, sec}.
func (d Date) Epoch() (year, month, day, hour, minute int, sec float64) {
	days := d.Time / 86400
	rem := d.Time - days*86400
	if rem < 0 {
		rem += 86400
		days--
	}
	hour = int(rem / 3600)
	minute = int((rem % 3600) / 60)
	secWhole := int(rem % 60)

	y := 1970
	for {
		var yearDays int64 = 365
		if isLeap(y) {
			yearDays = 366
		}
		if days < yearDays {
			break
		}
		days -= yearDays
		y++
	}
	year = y
	month = 1
	for m := 11; m >= 0; m-- {
		start := int64(daysBeforeMonth[m])
		if m > 1 && isLeap(year) {
			start++
		}
		if days >= start {
			month = m + 1
			day = int(days-start) + 1
			break
		}
	}
	sec = float64(secWhole) + d.Sec
	return
}

// ToSeconds returns whole seconds since epoch, truncating the sub-second
// fraction.
func (d Date) ToSeconds() int64 { return d.Time }

// DateFromSeconds is date_to_seconds's inverse.
func DateFromSeconds(sec int64) Date { return Date{Time: sec} }

// Before, After, Equal order two Dates.
func (d Date) Before(o Date) bool {
	if d.Time != o.Time {
		return d.Time < o.Time
	}
	return d.Sec < o.Sec
}
func (d Date) After(o Date) bool  { return o.Before(d) }
func (d Date) Equal(o Date) bool  { return d.Time == o.Time && d.Sec == o.Sec }

// Sub returns d - o in fractional seconds.
func (d Date) Sub(o Date) float64 {
	return float64(d.Time-o.Time) + (d.Sec - o.Sec)
}

// Add returns d shifted by a signed number of seconds (may be fractional).
func (d Date) Add(secOffset float64) Date {
	total := float64(d.Time) + d.Sec + secOffset
	whole := math.Floor(total)
	return Date{Time: int64(whole), Sec: total - whole}
}

func (d Date) String() string {
	y, mo, da, h, mi, s := d.Epoch()
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%06.3fZ", y, mo, da, h, mi, s)
}

// ATCFDateToken parses the YYYYMMDDHH best-track date field plus a forecast
// hour offset tau into a Date.
func ATCFDateToken(token string, tauHours float64) (Date, error) {
	if len(token) < 10 {
		return Date{}, fmt.Errorf("gahm: malformed date token %q", token)
	}
	var y, mo, da, h int
	if _, err := fmt.Sscanf(token[0:4], "%d", &y); err != nil {
		return Date{}, fmt.Errorf("gahm: malformed date token %q: %w", token, err)
	}
	if _, err := fmt.Sscanf(token[4:6], "%d", &mo); err != nil {
		return Date{}, fmt.Errorf("gahm: malformed date token %q: %w", token, err)
	}
	if _, err := fmt.Sscanf(token[6:8], "%d", &da); err != nil {
		return Date{}, fmt.Errorf("gahm: malformed date token %q: %w", token, err)
	}
	if _, err := fmt.Sscanf(token[8:10], "%d", &h); err != nil {
		return Date{}, fmt.Errorf("gahm: malformed date token %q: %w", token, err)
	}
	if mo < 1 || mo > 12 || da < 1 || da > 31 {
		return Date{}, fmt.Errorf("gahm: malformed date token %q", token)
	}
	base := NewDate(y, mo, da, h, 0, 0)
	return base.Add(tauHours * 3600.0), nil
}
