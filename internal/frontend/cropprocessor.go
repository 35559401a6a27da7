package frontend

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/jo-hoe/profileform/internal/backend/commands"
	"github.com/jo-hoe/profileform/internal/backend/commandstructure"
)

const (
	DefaultMaxSize    = 500
	DefaultQuality    = commands.JPEGQuality
	DefaultPixelRatio = 1.0

	// SVGs without an explicit size are rasterized at this size
	svgFallbackSize = DefaultMaxSize
)

// File is an encoded image ready to be uploaded
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Processor turns a crop of a displayed image into a JPEG of bounded size
type Processor struct {
	// MaxSize bounds both sides of the output in pixels
	MaxSize int
	// Quality is the JPEG quality, 1-100
	Quality int
	// PixelRatio is the device pixel ratio the output raster is multiplied with
	PixelRatio float64
	// Resampler is one of the commands.Resampler* names
	Resampler string

	now func() time.Time
}

func NewProcessor() *Processor {
	return &Processor{
		MaxSize:    DefaultMaxSize,
		Quality:    DefaultQuality,
		PixelRatio: DefaultPixelRatio,
		Resampler:  commands.ResamplerCatmullRom,
		now:        time.Now,
	}
}

// Decode reads a source image in any supported format
func (p *Processor) Decode(data []byte) (image.Image, error) {
	img, format, err := commands.DecodeImage(data, svgFallbackSize, svgFallbackSize)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded source image", "format", format, "bounds", img.Bounds().String())
	return img, nil
}

// Crop maps the crop from displayed to natural coordinates, cuts it out, resolves transparency,
// scales it down to fit MaxSize and encodes it as JPEG.
func (p *Processor) Crop(src image.Image, displayWidth, displayHeight int, crop Crop) (*File, error) {
	if src == nil {
		return nil, errors.New("no source image")
	}
	if displayWidth <= 0 || displayHeight <= 0 {
		return nil, fmt.Errorf("displayed size must be positive, got %dx%d", displayWidth, displayHeight)
	}
	if err := crop.validate(); err != nil {
		return nil, err
	}
	crop = crop.ToPixels(displayWidth, displayHeight)
	if err := crop.validateWithin(displayWidth, displayHeight); err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	scaleX := float64(bounds.Dx()) / float64(displayWidth)
	scaleY := float64(bounds.Dy()) / float64(displayHeight)

	region := image.Rect(
		int(math.Round(crop.X*scaleX)),
		int(math.Round(crop.Y*scaleY)),
		int(math.Round((crop.X+crop.Width)*scaleX)),
		int(math.Round((crop.Y+crop.Height)*scaleY)),
	).Intersect(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if region.Empty() {
		return nil, fmt.Errorf("crop %gx%g+%g+%g does not overlap the image", crop.Width, crop.Height, crop.X, crop.Y)
	}

	width, height := p.outputSize(crop.Width*scaleX, crop.Height*scaleY)

	slog.Debug("cropping image",
		"natural_bounds", bounds.String(),
		"display_width", displayWidth,
		"display_height", displayHeight,
		"region", region.String(),
		"output_width", width,
		"output_height", height)

	out, err := commandstructure.ExecuteCommands(src, []commandstructure.CommandConfig{
		{Name: "CropCommand", Params: map[string]any{
			"x": region.Min.X, "y": region.Min.Y, "width": region.Dx(), "height": region.Dy(),
		}},
		{Name: "FlattenCommand", Params: map[string]any{"background": "white"}},
		{Name: "ScaleCommand", Params: map[string]any{
			"width": width, "height": height, "mode": commands.ScaleModeExact, "resampler": p.resampler(),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to crop image: %w", err)
	}

	data, err := commands.EncodeJPEG(out, p.quality())
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        fmt.Sprintf("cropped-%d.jpg", p.clock()().UnixMilli()),
		ContentType: commands.MimeJPEG,
		Data:        data,
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
	}, nil
}

// outputSize fits the natural crop size into MaxSize, applies the pixel ratio and fits again
func (p *Processor) outputSize(naturalWidth, naturalHeight float64) (int, int) {
	maxSize := float64(p.maxSize())
	w, h := fit(naturalWidth, naturalHeight, maxSize)

	ratio := p.PixelRatio
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = DefaultPixelRatio
	}
	w, h = fit(w*ratio, h*ratio, maxSize)

	return max(int(math.Round(w)), 1), max(int(math.Round(h)), 1)
}

// fit shrinks width x height to lie within limit x limit keeping the aspect ratio
func fit(width, height, limit float64) (float64, float64) {
	if width <= limit && height <= limit {
		return width, height
	}
	scale := min(limit/width, limit/height)
	return width * scale, height * scale
}

func (p *Processor) maxSize() int {
	if p.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return p.MaxSize
}

func (p *Processor) quality() int {
	if p.Quality == 0 {
		return DefaultQuality
	}
	return p.Quality
}

func (p *Processor) resampler() string {
	if p.Resampler == "" {
		return commands.ResamplerCatmullRom
	}
	return p.Resampler
}

func (p *Processor) clock() func() time.Time {
	if p.now == nil {
		return time.Now
	}
	return p.now
}
