package frontend

import (
	"fmt"
	"math"
)

type Unit string

const (
	UnitPixels  Unit = "px"
	UnitPercent Unit = "%"

	// boundsTolerance absorbs float rounding when a crop touches the displayed edge
	boundsTolerance = 1e-6

	// defaultCropCoverage is the share of the shorter displayed side the initial crop spans
	defaultCropCoverage = 0.9
)

// Crop is a rectangle on the displayed image, in displayed pixels or percent of the displayed size
type Crop struct {
	Unit   Unit
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// DefaultCrop returns a centered square spanning 90% of the shorter displayed side
func DefaultCrop(displayWidth, displayHeight int) Crop {
	side := defaultCropCoverage * float64(min(displayWidth, displayHeight))
	return Crop{
		Unit:   UnitPixels,
		X:      (float64(displayWidth) - side) / 2,
		Y:      (float64(displayHeight) - side) / 2,
		Width:  side,
		Height: side,
	}
}

// ToPixels converts the crop to displayed pixels
func (c Crop) ToPixels(displayWidth, displayHeight int) Crop {
	if c.Unit != UnitPercent {
		c.Unit = UnitPixels
		return c
	}
	w, h := float64(displayWidth)/100, float64(displayHeight)/100
	return Crop{
		Unit:   UnitPixels,
		X:      c.X * w,
		Y:      c.Y * h,
		Width:  c.Width * w,
		Height: c.Height * h,
	}
}

// IsEmpty reports whether the crop selects no area
func (c Crop) IsEmpty() bool {
	return c.Width <= 0 || c.Height <= 0
}

// AspectRatio is width over height, 0 for empty crops
func (c Crop) AspectRatio() float64 {
	if c.IsEmpty() {
		return 0
	}
	return c.Width / c.Height
}

func (c Crop) validate() error {
	switch c.Unit {
	case UnitPixels, UnitPercent, "":
	default:
		return fmt.Errorf("unsupported crop unit %q", c.Unit)
	}
	if !isFinite(c.Width) || !isFinite(c.Height) || c.IsEmpty() {
		return fmt.Errorf("crop must have a positive size, got %gx%g", c.Width, c.Height)
	}
	if !isFinite(c.X) || !isFinite(c.Y) || c.X < 0 || c.Y < 0 {
		return fmt.Errorf("crop origin must not be negative, got %g,%g", c.X, c.Y)
	}
	return nil
}

// validateWithin rejects pixel crops reaching past the displayed image
func (c Crop) validateWithin(displayWidth, displayHeight int) error {
	if c.X+c.Width > float64(displayWidth)+boundsTolerance || c.Y+c.Height > float64(displayHeight)+boundsTolerance {
		return fmt.Errorf("crop %gx%g+%g+%g exceeds the displayed size %dx%d",
			c.Width, c.Height, c.X, c.Y, displayWidth, displayHeight)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
