package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jo-hoe/profileform/internal/backend/commandstructure"
)

// FlattenCommand composites an image onto an opaque background color.
// JPEG carries no alpha channel, so transparent pixels must be resolved before encoding.
type FlattenCommand struct {
	name       string
	background color.RGBA
}

// NewFlattenCommand creates a new flatten command; "background" accepts "white", "black" or "#rrggbb"
func NewFlattenCommand(params map[string]any) (commandstructure.Command, error) {
	background, err := parseBackground(commandstructure.GetStringParam(params, "background", "white"))
	if err != nil {
		return nil, err
	}
	return &FlattenCommand{
		name:       "FlattenCommand",
		background: background,
	}, nil
}

// Name returns the command name
func (c *FlattenCommand) Name() string {
	return c.name
}

// Execute returns fully opaque images unchanged and blends everything else over the background
func (c *FlattenCommand) Execute(img image.Image) (image.Image, error) {
	if !hasTransparency(img) {
		slog.Debug("FlattenCommand: image already opaque; skipping")
		return img, nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := c.background

	slog.Debug("FlattenCommand: compositing onto background",
		"width", width,
		"height", height,
		"background", fmt.Sprintf("#%02x%02x%02x", bg.R, bg.G, bg.B))

	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			// RGBA() is alpha-premultiplied in [0, 0xffff]
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			inv := 0xffff - a
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8((r + uint32(bg.R)*0x101*inv/0xffff) >> 8),
				G: uint8((g + uint32(bg.G)*0x101*inv/0xffff) >> 8),
				B: uint8((b + uint32(bg.B)*0x101*inv/0xffff) >> 8),
				A: 0xff,
			})
		}
	})

	return dst, nil
}

// GetBackground returns the configured background color
func (c *FlattenCommand) GetBackground() color.RGBA {
	return c.background
}

func parseBackground(value string) (color.RGBA, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "white", "":
		return color.RGBA{255, 255, 255, 255}, nil
	case "black":
		return color.RGBA{0, 0, 0, 255}, nil
	default:
		hex := strings.TrimPrefix(v, "#")
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid background color %q", value)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid background color %q: %w", value, err)
		}
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
	}
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("FlattenCommand", NewFlattenCommand); err != nil {
		panic(fmt.Sprintf("failed to register FlattenCommand: %v", err))
	}
}
