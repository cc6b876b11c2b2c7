package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/game"
	"github.com/milk9111/rigidtris/levels"
	"github.com/milk9111/rigidtris/physics"
	"github.com/milk9111/rigidtris/prefabs"
	"github.com/rs/zerolog"
)

// flashFrames is how long a cleared square stays highlighted.
const flashFrames = 30

type GameOptions struct {
	// LevelName selects the starting level file; empty starts at the first.
	LevelName string
	Debug     bool
	// Seed fixes the spawn sequence when non-zero.
	Seed   uint64
	Logger zerolog.Logger
	// WatchDir is watched for tunable changes when non-empty.
	WatchDir string
}

type flash struct {
	pos    physics.Vec
	frames int
}

// Game is the ebiten host around a game.Controller.
type Game struct {
	frames int
	debug  bool
	quit   bool
	err    error
	log    zerolog.Logger

	input   *Input
	ctrl    *game.Controller
	palette *prefabs.PaletteSpec
	watcher *prefabs.Watcher
	flashes []flash

	pauseUI    *menuUI
	gameOverUI *menuUI
}

func NewGame(opts GameOptions) (*Game, error) {
	logger := opts.Logger.With().Str("component", "host").Logger()

	lvls, err := levels.All()
	if err != nil {
		return nil, err
	}
	start := 0
	if opts.LevelName != "" {
		start, err = levels.Index(opts.LevelName)
		if err != nil {
			// Not one of the bundled levels; play it on its own.
			lvl, loadErr := levels.Load(opts.LevelName)
			if loadErr != nil {
				return nil, loadErr
			}
			lvls, start = []*levels.Level{lvl}, 0
		}
	}

	spec, clamped, err := prefabs.LoadGameSpec()
	if err != nil {
		logger.Warn().Err(err).Msg("using default game tunables")
		spec = prefabs.DefaultGameSpec()
	} else if len(clamped) > 0 {
		logger.Warn().Strs("fields", clamped).Msg("clamped game tunables")
	}
	palette, err := prefabs.LoadPaletteSpec()
	if err != nil {
		logger.Warn().Err(err).Msg("using default palette")
		palette = &prefabs.PaletteSpec{}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info().Uint64("seed", seed).Msg("seeded spawner")

	ctrl, err := game.NewController(game.Options{
		NewWorld:   func() physics.World { return physics.NewSpace() },
		Levels:     lvls,
		LevelIndex: start,
		Spec:       spec,
		Rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Logger:     &opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:   opts.Debug,
		log:     logger,
		input:   NewInput(),
		ctrl:    ctrl,
		palette: palette,
	}
	g.pauseUI = NewPauseUI(g)
	g.gameOverUI = NewGameOverUI(g)

	if opts.WatchDir != "" {
		w, err := prefabs.NewWatcher(opts.WatchDir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", opts.WatchDir).Msg("live tuning disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// Close stops the tunables watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()

	if g.input.QuitPressed {
		g.quit = true
	}
	if g.input.DebugPressed {
		g.debug = !g.debug
	}
	g.reloadSpecs()
	if g.input.PausePressed {
		g.ctrl.TogglePause()
	}

	switch g.ctrl.State() {
	case game.Playing:
		if err := g.ctrl.Tick(g.input.Controls); err != nil {
			return fmt.Errorf("tick %d: %w", g.ctrl.Frame(), err)
		}
	case game.Paused:
		g.pauseUI.SetDetail(fmt.Sprintf("Score %d", g.ctrl.Score()))
		g.pauseUI.Update()
	case game.GameOver:
		if g.input.RestartPressed {
			g.restart()
		} else {
			g.gameOverUI.SetDetail(fmt.Sprintf("Final score %d on %s", g.ctrl.Score(), g.ctrl.Level().Name))
			g.gameOverUI.Update()
		}
	}

	g.handleEvents()
	g.ageFlashes()

	if g.err != nil {
		return g.err
	}
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) restart() {
	if err := g.ctrl.Restart(); err != nil {
		g.err = fmt.Errorf("restart: %w", err)
		return
	}
	g.flashes = g.flashes[:0]
}

func (g *Game) handleEvents() {
	for _, ev := range g.ctrl.Events() {
		switch data := ev.Data.(type) {
		case game.LinesClearedEvent:
			for _, p := range data.Points {
				g.flashes = append(g.flashes, flash{pos: p, frames: flashFrames})
			}
		case game.LevelAdvancedEvent:
			g.flashes = g.flashes[:0]
		case game.GameOverEvent:
			g.log.Info().Int("score", data.Score).Int("level", data.Level).Msg("game over")
		}
	}
}

func (g *Game) ageFlashes() {
	if g.ctrl.State() == game.Paused {
		return
	}
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		f.frames--
		if f.frames > 0 {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
}

// reloadSpecs applies edited tunables and palette files.
func (g *Game) reloadSpecs() {
	for _, path := range g.watcher.Poll() {
		switch {
		case prefabs.IsGameSpec(path):
			spec, clamped, err := prefabs.LoadGameSpec()
			if err != nil {
				g.log.Warn().Err(err).Str("path", path).Msg("reload game tunables")
				continue
			}
			if len(clamped) > 0 {
				g.log.Warn().Strs("fields", clamped).Msg("clamped game tunables")
			}
			g.ctrl.SetSpec(spec)
			g.log.Info().Str("path", path).Msg("reloaded game tunables")
		case prefabs.IsPaletteSpec(path):
			palette, err := prefabs.LoadPaletteSpec()
			if err != nil {
				g.log.Warn().Err(err).Str("path", path).Msg("reload palette")
				continue
			}
			g.palette = palette
			g.log.Info().Str("path", path).Msg("reloaded palette")
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
