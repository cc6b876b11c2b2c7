// Command simulate runs the game core headless with random controls and
// logs a summary. It is useful for soak testing tunables and levels.
package main

import (
	"flag"
	"math/rand/v2"
	"os"

	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/game"
	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	ticks     int
	levelName string
	seed      uint64
	logger    zerolog.Logger
}

type summary struct {
	Ticks   int
	Score   int
	Level   string
	Pieces  int
	Restart int
	Stats   game.Stats
}

func main() {
	ticks := flag.Int("ticks", 60*60, "number of ticks to simulate")
	levelName := flag.String("level", "", "level name in levels/ (basename, .yaml optional)")
	seed := flag.Uint64("seed", 1, "seed for spawns and controls")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := common.SetupLogger(os.Stderr, *logLevel); err != nil {
		log.Fatal().Err(err).Msg("configure logging")
	}

	sum, err := run(config{ticks: *ticks, levelName: *levelName, seed: *seed, logger: log.Logger})
	if err != nil {
		log.Error().Err(err).Int("ticks", sum.Ticks).Msg("simulation failed")
		os.Exit(1)
	}
	log.Info().
		Int("ticks", sum.Ticks).
		Int("score", sum.Score).
		Str("level", sum.Level).
		Int("pieces", sum.Pieces).
		Int("restarts", sum.Restart).
		Int("spawns", sum.Stats.Spawns).
		Int("locks", sum.Stats.Locks).
		Int("lines", sum.Stats.Lines).
		Int("fragments", sum.Stats.Fragments).
		Int("fallen", sum.Stats.Fallen).
		Int("anomalies", sum.Stats.Anomalies).
		Msg("simulation finished")
}

func run(cfg config) (summary, error) {
	lvls, err := levels.All()
	if err != nil {
		return summary{}, err
	}
	start := 0
	if cfg.levelName != "" {
		if start, err = levels.Index(cfg.levelName); err != nil {
			return summary{}, err
		}
	}
	spec, _, err := prefabs.LoadGameSpec()
	if err != nil {
		cfg.logger.Warn().Err(err).Msg("using default game tunables")
		spec = prefabs.DefaultGameSpec()
	}

	ctrl, err := game.NewController(game.Options{
		NewWorld:   func() physics.World { return physics.NewSpace() },
		Levels:     lvls,
		LevelIndex: start,
		Spec:       spec,
		Rand:       rand.New(rand.NewPCG(cfg.seed, 1)),
		Logger:     &cfg.logger,
	})
	if err != nil {
		return summary{}, err
	}

	inputs := rand.New(rand.NewPCG(cfg.seed, 2))
	var ctl game.Controls
	sum := summary{}
	for sum.Ticks < cfg.ticks {
		// Hold each input for a while like a player would.
		if sum.Ticks%15 == 0 {
			ctl = game.Controls{
				Horizontal: float64(inputs.IntN(3) - 1),
				Rotate:     float64(inputs.IntN(3) - 1),
				Release:    inputs.IntN(20) == 0,
			}
		} else {
			ctl.Release = false
		}

		if err := ctrl.Tick(ctl); err != nil {
			return sum, err
		}
		sum.Ticks++

		if ctrl.State() == game.GameOver {
			cfg.logger.Info().Int("score", ctrl.Score()).Int("tick", sum.Ticks).Msg("game over, restarting")
			if err := ctrl.Restart(); err != nil {
				return sum, err
			}
			sum.Restart++
		}
		ctrl.Events()
	}

	sum.Score = ctrl.Score()
	sum.Level = ctrl.Level().Name
	sum.Pieces = ctrl.PieceCount()
	sum.Stats = ctrl.Stats()
	return sum, nil
}
