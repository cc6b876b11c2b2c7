package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rigidtris/common"
	"github.com/rs/zerolog/log"
)

func main() {
	debug := flag.Bool("debug", false, "start with the debug overlay on (toggle with F1)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .yaml optional)")
	seed := flag.Uint64("seed", 0, "spawn sequence seed (0 picks one at random)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	watch := flag.Bool("watch", true, "reload prefabs/*.yaml when they change")
	flag.Parse()

	if err := common.SetupLogger(os.Stderr, *logLevel); err != nil {
		log.Fatal().Err(err).Msg("configure logging")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("rigidtris")
	ebiten.SetTPS(ebiten.DefaultTPS)

	opts := GameOptions{
		LevelName: *levelName,
		Debug:     *debug,
		Seed:      *seed,
		Logger:    log.Logger,
	}
	if *watch {
		opts.WatchDir = "prefabs"
	}
	game, err := NewGame(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("game stopped")
		game.Close()
		os.Exit(1)
	}
}
