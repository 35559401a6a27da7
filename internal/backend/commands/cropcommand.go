package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/profileform/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// CropParams represents typed parameters for crop command.
// Coordinates are in the natural pixel space of the input image.
type CropParams struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewCropParamsFromMap creates CropParams from a generic map
func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	// Validate required parameters exist
	if err := commandstructure.ValidateRequiredParams(params, []string{"width", "height"}); err != nil {
		return nil, err
	}

	return newCropParams(
		commandstructure.GetIntParam(params, "x", 0),
		commandstructure.GetIntParam(params, "y", 0),
		commandstructure.GetIntParam(params, "width", 0),
		commandstructure.GetIntParam(params, "height", 0),
	)
}

func newCropParams(x, y, width, height int) (*CropParams, error) {
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if x < 0 || y < 0 {
		return nil, fmt.Errorf("crop origin must not be negative, got (%d,%d)", x, y)
	}
	return &CropParams{X: x, Y: y, Width: width, Height: height}, nil
}

// CropCommand cuts a rectangular region out of an image
type CropCommand struct {
	name   string
	params *CropParams
}

// NewCropCommand creates a new crop command from configuration parameters
func NewCropCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
	}, nil
}

// NewCropCommandWithParams creates a new crop command from concrete typed parameters
func NewCropCommandWithParams(x, y, width, height int) (*CropCommand, error) {
	typedParams, err := newCropParams(x, y, width, height)
	if err != nil {
		return nil, err
	}
	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *CropCommand) Name() string {
	return c.name
}

// Execute copies the configured region into a new image anchored at the origin.
// The region is clipped to the image bounds.
func (c *CropCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	region := image.Rect(
		bounds.Min.X+c.params.X,
		bounds.Min.Y+c.params.Y,
		bounds.Min.X+c.params.X+c.params.Width,
		bounds.Min.Y+c.params.Y+c.params.Height,
	).Intersect(bounds)

	if region.Empty() {
		slog.Error("CropCommand: crop region outside image",
			"bounds", bounds.String(),
			"x", c.params.X,
			"y", c.params.Y,
			"width", c.params.Width,
			"height", c.params.Height)
		return nil, fmt.Errorf("crop region %dx%d+%d+%d lies outside image %s",
			c.params.Width, c.params.Height, c.params.X, c.params.Y, bounds)
	}

	// If the region covers the whole image there is nothing to cut
	if region == bounds {
		slog.Debug("CropCommand: region equals image bounds; skipping crop")
		return img, nil
	}

	slog.Debug("CropCommand: performing crop",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"region", region.String())

	cropped := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, region.Min, draw.Src)

	return cropped, nil
}

// GetParams returns the typed parameters
func (c *CropCommand) GetParams() *CropParams {
	return c.params
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("CropCommand", NewCropCommand); err != nil {
		panic(fmt.Sprintf("failed to register CropCommand: %v", err))
	}
}
