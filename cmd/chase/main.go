package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	machinePath := flag.String("machine", "", "YAML machine file for the chasers (default is embedded)")
	watch := flag.Bool("watch", false, "reload the machine file when it changes")
	debug := flag.Bool("debug", false, "log every transition")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *watch && *machinePath == "" {
		log.Fatal("-watch needs -machine")
	}

	game, err := NewGame(cfg, *machinePath, *watch, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
