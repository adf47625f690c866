/*------------------------------------------------------------------------------
* main.go : batch CLI
*
*          A single binary with subcommands wired through urfave/cli/v2
*          rather than hand-rolled flag parsing.
*-----------------------------------------------------------------------------*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gahm"
	"gahm/atcf"
	"gahm/config"
	"gahm/owi"
	"gahm/preprocess"
	"gahm/pressure"
	"gahm/httpapi"
	"gahm/vortex"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gahmcli",
		Usage: "GAHM parametric tropical-cyclone wind/pressure field solver",
		Commands: []*cli.Command{
			loadCommand(),
			runCommand(),
			serveCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gahmcli:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the pipeline's named error kinds to the documented process
// exit codes: 0 success, 1 malformed inputs, 2 I/O failure.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *gahm.IOError:
		return 2
	case *gahm.ParseError, *gahm.InvariantError, *gahm.UsageError:
		return 1
	default:
		return 1
	}
}

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "parse and validate a best-track file, print a summary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "track", Required: true},
		},
		Action: func(c *cli.Context) error {
			track, err := atcf.LoadFile(c.String("track"))
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d snaps for %s%d (%s)\n",
				len(track.Snaps), track.Snaps[0].Basin, track.Snaps[0].StormID, track.Snaps[0].StormName)
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "load, preprocess, evaluate across a time range, write Oceanweather output",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "track", Required: true},
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "pressure-out", Value: "gahm.pre"},
			&cli.StringFlag{Name: "wind-out", Value: "gahm.win"},
			&cli.Float64Flag{Name: "step-seconds", Value: 3600},
			&cli.IntFlag{Name: "grid-nlon", Value: 50},
			&cli.IntFlag{Name: "grid-nlat", Value: 50},
			&cli.Float64Flag{Name: "grid-dx", Value: 0.1},
			&cli.Float64Flag{Name: "grid-dy", Value: 0.1},
			&cli.Float64Flag{Name: "grid-sw-lon", Value: -100},
			&cli.Float64Flag{Name: "grid-sw-lat", Value: 10},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Default()
			if p := c.String("config"); p != "" {
				var err error
				cfg, err = config.Load(p)
				if err != nil {
					return err
				}
			}

			track, err := atcf.LoadFile(c.String("track"))
			if err != nil {
				return err
			}
			opts := preprocess.Options{
				WindReductionFactor:  cfg.WindReductionFactor,
				PressureMethod:       pressure.Method(cfg.PressureMethodValue()),
				BackgroundPressureMb: cfg.BackgroundPressureMbar,
			}
			track, err = preprocess.Run(track, opts)
			if err != nil {
				return err
			}

			for _, s := range track.Snaps {
				for _, iso := range s.Isotachs {
					for i := 0; i < gahm.NumQuadrants; i++ {
						if !iso.Quadrants.At(i).Converged {
							fmt.Fprintf(os.Stderr, "warning: non-converged solve at %s quadrant %d\n", s.Date.String(), i)
						}
					}
				}
			}

			eval, err := vortex.New(track)
			if err != nil {
				return err
			}
			defer eval.Close()

			grid := owi.Grid{
				NLon: c.Int("grid-nlon"), NLat: c.Int("grid-nlat"),
				DX: c.Float64("grid-dx"), DY: c.Float64("grid-dy"),
				SWLon: c.Float64("grid-sw-lon"), SWLat: c.Float64("grid-sw-lat"),
			}
			points := grid.Points()

			start, end := track.Snaps[0].Date, track.Snaps[len(track.Snaps)-1].Date
			sink, err := owi.New(c.String("pressure-out"), c.String("wind-out"), grid, start, end, c.Float64("step-seconds"))
			if err != nil {
				return err
			}
			defer sink.Close()

			step := c.Float64("step-seconds")
			for t := start; !t.After(end); t = t.Add(step) {
				solutions := eval.SolveBatch(t, points)
				if err := sink.WriteTimestep(t, solutions); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP query API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "gahm.yaml"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Default()
			if _, err := os.Stat(c.String("config")); err == nil {
				var loadErr error
				cfg, loadErr = config.Load(c.String("config"))
				if loadErr != nil {
					return loadErr
				}
			}
			server := httpapi.NewServer(cfg)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			httpServer := &http.Server{Addr: cfg.Server.ListenAddr, Handler: server.Router()}
			fmt.Printf("gahmserve listening on %s\n", cfg.Server.ListenAddr)
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return &gahm.IOError{Op: "serve http", Err: err}
			}
			return nil
		},
	}
}
