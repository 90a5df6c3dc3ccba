/*
Package main
File: main.go
Description: Server entry point. Loads the universe catalog, starts the
real-time WebSocket hub and serves the game API to the browser front end.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/galaxies-frontier/internal/api"
	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

func main() {
	addr := flag.String("addr", ":8081", "HTTP listen address")
	universePath := flag.String("universe", "", "universe YAML file (default: built-in catalog)")
	seed := flag.Uint64("seed", 0, "seed for the first game (0: from the clock)")
	size := flag.Int("size", 50, "number of systems in the first game")
	shape := flag.String("shape", string(game.ShapeBalanced), "galaxy shape: balanced, wide or tall")
	logFile := flag.String("log", "", "write logs to this file instead of stdout")
	debug := flag.Bool("debug", false, "debug logging on stdout (file logs are always debug)")
	flag.Parse()

	if *debug {
		log.SetOutput(os.Stdout, slog.LevelDebug)
	}
	if *logFile != "" {
		if err := log.SetFileOutput(*logFile); err != nil {
			log.Error("open log file", "path", *logFile, "error", err)
			os.Exit(1)
		}
		defer log.Close()
	}

	// 1. Load the static universe configuration
	universe, err := loadUniverse(*universePath)
	if err != nil {
		log.Error("config fail", "error", err)
		os.Exit(1)
	}

	// 2. Start the real-time WebSocket hub
	hub := api.NewHub()
	go hub.Run()
	defer hub.Stop()

	// 3. Create the first session so the front end has something to render
	server := api.NewServer(universe, hub)
	world, err := server.NewGame(game.NewGameOptions{Size: *size, Shape: game.GalaxyShape(*shape), Seed: *seed})
	if err != nil {
		log.Error("generate galaxy", "error", err)
		os.Exit(1)
	}
	if r := world.Galaxy.Report; r.Generated < r.Requested {
		log.Warn("galaxy smaller than requested", "requested", r.Requested, "generated", r.Generated)
	}

	// 4. Hot-reload: SIGHUP re-reads the universe for the next new game
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for range sigChan {
			log.Info("SIGNAL: reloading universe")
			u, err := loadUniverse(*universePath)
			if err != nil {
				log.Error("reload failed, keeping previous universe", "error", err)
				continue
			}
			server.SetUniverse(u)
		}
	}()

	// 5. Serve until interrupted
	srv := &http.Server{Addr: *addr, Handler: server.Routes()}
	go func() {
		log.Info("GALAXIES: FRONTIER server live", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", "error", err)
	}
	log.Info("server stopped")
}

func loadUniverse(path string) (*game.Universe, error) {
	if path == "" {
		return game.DefaultUniverse()
	}
	return game.LoadUniverse(path)
}
