package commands

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/profileform/internal/backend/commandstructure"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

const (
	ResamplerCatmullRom = "catmullrom"
	ResamplerBiLinear   = "bilinear"
	ResamplerNearest    = "nearest"
	ResamplerLanczos3   = "lanczos3"
	ResamplerBox        = "box"

	ScaleModeFit   = "fit"
	ScaleModeExact = "exact"
)

// ScaleParams represents typed parameters for scale command
type ScaleParams struct {
	Height    int
	Width     int
	Mode      string
	Resampler string
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	// Validate required parameters exist
	if err := commandstructure.ValidateRequiredParams(params, []string{"height", "width"}); err != nil {
		return nil, err
	}

	return newScaleParams(
		commandstructure.GetIntParam(params, "height", 0),
		commandstructure.GetIntParam(params, "width", 0),
		commandstructure.GetStringParam(params, "mode", ScaleModeFit),
		commandstructure.GetStringParam(params, "resampler", ResamplerCatmullRom),
	)
}

func newScaleParams(height, width int, mode, resampler string) (*ScaleParams, error) {
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}

	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != ScaleModeFit && mode != ScaleModeExact {
		return nil, fmt.Errorf("invalid mode %q (must be %q or %q)", mode, ScaleModeFit, ScaleModeExact)
	}

	resampler = strings.ToLower(strings.TrimSpace(resampler))
	switch resampler {
	case ResamplerCatmullRom, ResamplerBiLinear, ResamplerNearest, ResamplerLanczos3, ResamplerBox:
	default:
		return nil, fmt.Errorf("unsupported resampler %q", resampler)
	}

	return &ScaleParams{
		Height:    height,
		Width:     width,
		Mode:      mode,
		Resampler: resampler,
	}, nil
}

// ScaleCommand resizes an image.
// In fit mode the image is shrunk to fit inside Width x Height keeping its aspect ratio and is
// never enlarged; in exact mode it is resampled to exactly Width x Height.
type ScaleCommand struct {
	name   string
	params *ScaleParams
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ScaleCommand{
		name:   "ScaleCommand",
		params: typedParams,
	}, nil
}

// NewScaleCommandWithParams creates a new scale command from concrete typed parameters
func NewScaleCommandWithParams(height, width int, mode, resampler string) (*ScaleCommand, error) {
	typedParams, err := newScaleParams(height, width, mode, resampler)
	if err != nil {
		return nil, err
	}
	return &ScaleCommand{
		name:   "ScaleCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute scales the image according to the configured mode
func (c *ScaleCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	if originalWidth == 0 || originalHeight == 0 {
		return nil, fmt.Errorf("cannot scale empty image %s", bounds)
	}

	targetWidth, targetHeight := c.params.Width, c.params.Height
	if c.params.Mode == ScaleModeFit {
		targetWidth, targetHeight = computeFitDimensions(originalWidth, originalHeight, c.params.Width, c.params.Height)
	}

	// If target matches original dimensions, skip processing
	if targetWidth == originalWidth && targetHeight == originalHeight {
		slog.Debug("ScaleCommand: target dimensions equal original; skipping scaling")
		return img, nil
	}

	slog.Debug("ScaleCommand: scaling image",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight,
		"mode", c.params.Mode,
		"resampler", c.params.Resampler)

	return resample(img, targetWidth, targetHeight, c.params.Resampler), nil
}

// GetHeight returns the configured height
func (c *ScaleCommand) GetHeight() int {
	return c.params.Height
}

// GetWidth returns the configured width
func (c *ScaleCommand) GetWidth() int {
	return c.params.Width
}

// GetParams returns the typed parameters
func (c *ScaleCommand) GetParams() *ScaleParams {
	return c.params
}

// computeFitDimensions returns the largest size not exceeding maxWidth x maxHeight that keeps
// the original aspect ratio. Images already inside the box keep their size.
func computeFitDimensions(originalWidth, originalHeight, maxWidth, maxHeight int) (int, int) {
	if originalWidth <= maxWidth && originalHeight <= maxHeight {
		return originalWidth, originalHeight
	}
	ratio := min(float64(maxWidth)/float64(originalWidth), float64(maxHeight)/float64(originalHeight))
	width := max(int(float64(originalWidth)*ratio), 1)
	height := max(int(float64(originalHeight)*ratio), 1)
	return width, height
}

func resample(src image.Image, width, height int, resampler string) image.Image {
	var scaler draw.Scaler
	switch resampler {
	case ResamplerLanczos3:
		return resize.Resize(uint(width), uint(height), src, resize.Lanczos3)
	case ResamplerBox:
		return imaging.Resize(src, width, height, imaging.Box)
	case ResamplerBiLinear:
		scaler = draw.BiLinear
	case ResamplerNearest:
		scaler = draw.NearestNeighbor
	default:
		scaler = draw.CatmullRom
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("ScaleCommand", NewScaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register ScaleCommand: %v", err))
	}
}
