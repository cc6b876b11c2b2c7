package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rigidtris/game"
)

// stickDeadzone ignores small stick drift.
const stickDeadzone = 0.3

// Input holds the player input sampled once per frame.
type Input struct {
	// Controls is what the game core sees for this tick.
	Controls game.Controls

	PausePressed   bool
	RestartPressed bool
	DebugPressed   bool
	QuitPressed    bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and the first gamepad.
func (i *Input) Update() {
	var moveX, rotate float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		rotate -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		rotate += 1
	}
	release := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	pause := inpututil.IsKeyJustPressed(ebiten.KeyP)
	restart := inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	ids := ebiten.GamepadIDs()
	if len(ids) > 0 {
		gid := ids[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -stickDeadzone {
			moveX = -1
		} else if leftX > stickDeadzone {
			moveX = 1
		}

		if ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontTopLeft) {
			rotate = -1
		}
		if ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontTopRight) {
			rotate = 1
		}
		release = release || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		pause = pause || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
		restart = restart || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft)
	}

	i.Controls = game.Controls{Horizontal: moveX, Rotate: rotate, Release: release}
	i.PausePressed = pause
	i.RestartPressed = restart
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
