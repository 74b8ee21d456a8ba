// Command oxy-probe runs the environment probe demo: a ring of primitives around a pawn, lit by
// an animated point light with a shadow map and reflected by a cubemap probe captured every frame.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine"
	"github.com/Carmen-Shannon/oxy-probe/engine/config"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	settingsPath := flag.String("settings", "oxy-probe.toml", "TOML settings file")
	statePath := flag.String("state", "oxy-probe-state.yaml", "YAML state file restored at start and saved on quit")
	writeSettings := flag.Bool("write-settings", false, "write the effective settings to -settings and exit")
	flag.Parse()

	// ── Configuration ───────────────────────────────────────────────────
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *writeSettings {
		if err := settings.Save(*settingsPath); err != nil {
			log.Fatalf("Failed to write settings: %v", err)
		}
		return
	}
	level, err := settings.LogLevel()
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	state, err := config.LoadState(*statePath)
	if err != nil {
		common.Logger().Warn("discarding unreadable state", "error", err)
		state = config.DefaultState()
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng, err := engine.NewEngine(
		engine.WithSettings(settings),
		engine.WithState(state),
		engine.WithStatePath(*statePath),
	)
	if err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	if err := eng.Run(); err != nil {
		log.Fatalf("Engine stopped: %v", err)
	}
}
