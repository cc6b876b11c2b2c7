package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// PixelsPerMeter converts the simulation's meter-based tuning into world
	// units. World units are pixels with the y axis pointing up.
	PixelsPerMeter = 32.0
	Gravity        = -9.8 * PixelsPerMeter

	FixedStep = 1.0 / 60.0
)
