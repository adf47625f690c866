/*------------------------------------------------------------------------------
* main.go : standalone query API server binary
*
*          Thin wrapper around gahm/httpapi; gahmcli's "serve" subcommand
*          wires the identical server for operators who prefer one binary.
*-----------------------------------------------------------------------------*/

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gahm/config"
	"gahm/httpapi"
)

func main() {
	configPath := flag.String("config", "gahm.yaml", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gahmserve:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	server := httpapi.NewServer(cfg)
	httpServer := &http.Server{Addr: cfg.Server.ListenAddr, Handler: server.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("gahmserve listening on %s\n", cfg.Server.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintln(os.Stderr, "gahmserve:", err)
		os.Exit(2)
	}
}
