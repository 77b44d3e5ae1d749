// cmd/api/main.go
//
// code.gov API – process entry point.
//
// Startup sequence
// ----------------
//
//  1. Install a console bootstrap logger so resolution spans are visible.
//
//  2. Detect the hosting platform (Cloud Foundry VCAP_* or local).
//
//  3. Resolve the configuration record once (`.env` is read in local mode
//     only) and cache it for the rest of the process.
//
//  4. Swap in the daily rotating logger at the resolved level.
//
//  5. Build the router (docs, metadata, health, metrics) and serve until
//     SIGINT or SIGTERM, then drain for server.ShutdownTimeout.
//
// Any resolution error is fatal: the process never serves with a partial or
// guessed configuration.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/codegov-api/internal/config"
	"github.com/yanizio/codegov-api/internal/logger"
	"github.com/yanizio/codegov-api/internal/metadata"
	"github.com/yanizio/codegov-api/internal/platform"
	"github.com/yanizio/codegov-api/internal/search"
	"github.com/yanizio/codegov-api/internal/server"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	boot := logger.Bootstrap()

	binding, err := platform.Detect(os.LookupEnv)
	if err != nil {
		boot.Fatalw("platform detection failed", "err", err)
	}
	if cf, ok := binding.(*platform.CloudFoundry); ok {
		boot.Infow("platform detected", "platform", "cloudfoundry", "app", cf.Name())
	}

	cfg, err := config.Load(config.EnvironmentName(os.LookupEnv), binding)
	if err != nil {
		boot.Fatalw("configuration failed", "err", err)
	}

	logOut, err := logger.New(cfg.Root, cfg.ZapLevel(), runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	handler := server.Router(cfg, server.Deps{
		Metadata: metadata.NewCache(metadata.NewLoader(), metadata.DefaultTTL),
		Search:   search.NewProbe(cfg.SearchURI),
	})
	srv := server.New(server.Addr(cfg.Port), handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("server exited")
}
