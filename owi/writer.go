/*------------------------------------------------------------------------------
* writer.go : Oceanweather WIN/PRE text output sink
*
*          A stateful sink wrapping two *os.File handles, rejecting writes
*          after close and enforcing monotonic record cadence: reject, don't
*          silently coerce, the same posture UsageError takes everywhere
*          else in this module.
*-----------------------------------------------------------------------------*/

package owi

import (
	"bufio"
	"fmt"
	"os"

	"gahm"
)

// Grid is the fixed structured grid the evaluator's point cloud is laid out
// on, row-major from the southwest corner.
type Grid struct {
	NLon, NLat int
	DX, DY     float64
	SWLon, SWLat float64
}

// Points returns the grid's query points in row-major order (south to
// north, west to east), matching the record layout the sink emits.
func (g Grid) Points() []gahm.Point {
	pts := make([]gahm.Point, 0, g.NLon*g.NLat)
	for j := 0; j < g.NLat; j++ {
		lat := g.SWLat + float64(j)*g.DY
		for i := 0; i < g.NLon; i++ {
			lon := g.SWLon + float64(i)*g.DX
			pts = append(pts, gahm.Point{X: lon, Y: lat})
		}
	}
	return pts
}

func (g Grid) cellCount() int { return g.NLon * g.NLat }

// Sink is the Output Sink external contract.
type Sink interface {
	WriteTimestep(date gahm.Date, solutions []gahm.Solution) error
	Close() error
}

// OceanweatherSink writes the two-file Oceanweather WIN/PRE text format.
type OceanweatherSink struct {
	grid      Grid
	start, end gahm.Date
	stepSec   float64

	pressure *bufio.Writer
	wind     *bufio.Writer
	pf, wf   *os.File

	lastDate *gahm.Date
	closed   bool
}

// New opens the pressure and wind files and writes their header lines
//.
func New(pressurePath, windPath string, grid Grid, start, end gahm.Date, stepSec float64) (*OceanweatherSink, error) {
	pf, err := os.Create(pressurePath)
	if err != nil {
		return nil, &gahm.IOError{Op: "create " + pressurePath, Err: err}
	}
	wf, err := os.Create(windPath)
	if err != nil {
		pf.Close()
		return nil, &gahm.IOError{Op: "create " + windPath, Err: err}
	}

	s := &OceanweatherSink{
		grid: grid, start: start, end: end, stepSec: stepSec,
		pressure: bufio.NewWriter(pf), wind: bufio.NewWriter(wf),
		pf: pf, wf: wf,
	}

	header := fmt.Sprintf("Oceanweather WIN/PRE Format                            %s     %s\n",
		formatHour(start), formatHour(end))
	if _, err := s.pressure.WriteString(header); err != nil {
		s.Close()
		return nil, &gahm.IOError{Op: "write pressure header", Err: err}
	}
	if _, err := s.wind.WriteString(header); err != nil {
		s.Close()
		return nil, &gahm.IOError{Op: "write wind header", Err: err}
	}
	return s, nil
}

// WriteTimestep emits one record to both files, enforcing the sec 4.7
// contract: no writes after close, strict date+step cadence, never past end.
func (s *OceanweatherSink) WriteTimestep(date gahm.Date, solutions []gahm.Solution) error {
	if s.closed {
		return &gahm.UsageError{Msg: "write after sink close"}
	}
	if len(solutions) != s.grid.cellCount() {
		return &gahm.UsageError{Msg: fmt.Sprintf(
			"solution count %d does not match grid cell count %d", len(solutions), s.grid.cellCount())}
	}
	if date.After(s.end) {
		return &gahm.UsageError{Msg: "write past declared end date"}
	}
	if s.lastDate != nil {
		expected := s.lastDate.Add(s.stepSec)
		if !date.Equal(expected) {
			return &gahm.UsageError{Msg: "write out of cadence: expected " + expected.String() + ", got " + date.String()}
		}
	} else if !date.Equal(s.start) {
		return &gahm.UsageError{Msg: "first write does not match declared start date"}
	}

	recordHeader := fmt.Sprintf("iLat=%4diLong=%4dDX=%6.4fDY=%6.4fSWLat=%7.4fSWLon=%8.4fDT=%s\n",
		s.grid.NLat, s.grid.NLon, s.grid.DX, s.grid.DY, s.grid.SWLat, s.grid.SWLon, formatMinute(date))

	pressureVals := make([]float64, len(solutions))
	uVals := make([]float64, len(solutions))
	vVals := make([]float64, len(solutions))
	for i, sol := range solutions {
		pressureVals[i] = sol.P / gahm.MillibarToPascal
		uVals[i] = sol.U
		vVals[i] = sol.V
	}

	if _, err := s.pressure.WriteString(recordHeader); err != nil {
		return &gahm.IOError{Op: "write pressure record header", Err: err}
	}
	if err := writeRows(s.pressure, pressureVals); err != nil {
		return err
	}
	if _, err := s.wind.WriteString(recordHeader); err != nil {
		return &gahm.IOError{Op: "write wind record header", Err: err}
	}
	if err := writeRows(s.wind, uVals); err != nil {
		return err
	}
	if err := writeRows(s.wind, vVals); err != nil {
		return err
	}

	d := date
	s.lastDate = &d
	return nil
}

// Close flushes and closes both files; further writes return UsageError.
func (s *OceanweatherSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var firstErr error
	if s.pressure != nil {
		if err := s.pressure.Flush(); err != nil && firstErr == nil {
			firstErr = &gahm.IOError{Op: "flush pressure", Err: err}
		}
	}
	if s.wind != nil {
		if err := s.wind.Flush(); err != nil && firstErr == nil {
			firstErr = &gahm.IOError{Op: "flush wind", Err: err}
		}
	}
	if s.pf != nil {
		s.pf.Close()
	}
	if s.wf != nil {
		s.wf.Close()
	}
	return firstErr
}

func writeRows(w *bufio.Writer, values []float64) error {
	const perLine = 8
	for i, v := range values {
		if _, err := fmt.Fprintf(w, "%10.4f", v); err != nil {
			return &gahm.IOError{Op: "write data value", Err: err}
		}
		if (i+1)%perLine == 0 || i == len(values)-1 {
			if _, err := w.WriteString("\n"); err != nil {
				return &gahm.IOError{Op: "write newline", Err: err}
			}
		}
	}
	return nil
}

func formatHour(d gahm.Date) string {
	y, mo, day, h, _, _ := d.Epoch()
	return fmt.Sprintf("%04d%02d%02d%02d", y, mo, day, h)
}

func formatMinute(d gahm.Date) string {
	y, mo, day, h, mi, _ := d.Epoch()
	return fmt.Sprintf("%04d%02d%02d%02d%02d", y, mo, day, h, mi)
}
