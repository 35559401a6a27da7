package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jo-hoe/profileform/internal/frontend"
)

type options struct {
	server     string
	image      string
	name       string
	age        string
	email      string
	date       string
	displayW   int
	displayH   int
	cropX      float64
	cropY      float64
	cropW      float64
	cropH      float64
	unit       string
	pixelRatio float64
	resampler  string
	output     string
	verbose    bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.server, "server", "http://localhost:8080", "base URL of the profile form server")
	flag.StringVar(&o.image, "image", "", "path of the picture to crop and upload (required)")
	flag.StringVar(&o.name, "name", "", "name")
	flag.StringVar(&o.age, "age", "", "age")
	flag.StringVar(&o.email, "email", "", "email address")
	flag.StringVar(&o.date, "date", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	flag.IntVar(&o.displayW, "display-width", 0, "width the picture is shown at; 0 uses the natural width")
	flag.IntVar(&o.displayH, "display-height", 0, "height the picture is shown at; 0 uses the natural height")
	flag.Float64Var(&o.cropX, "crop-x", 0, "crop origin x")
	flag.Float64Var(&o.cropY, "crop-y", 0, "crop origin y")
	flag.Float64Var(&o.cropW, "crop-width", 0, "crop width; 0 keeps the default centered square")
	flag.Float64Var(&o.cropH, "crop-height", 0, "crop height; 0 keeps the default centered square")
	flag.StringVar(&o.unit, "crop-unit", string(frontend.UnitPixels), "crop unit: px or %")
	flag.Float64Var(&o.pixelRatio, "pixel-ratio", frontend.DefaultPixelRatio, "device pixel ratio applied to the output raster")
	flag.StringVar(&o.resampler, "resampler", "", "catmullrom, bilinear, nearest, lanczos3 or box")
	flag.StringVar(&o.output, "output", "", "also write the cropped JPEG to this path")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	if o.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if o.image == "" {
		flag.Usage()
		os.Exit(2)
	}

	message, err := run(o)
	fmt.Println(frontend.DisplayMessage(message, err))
	if err != nil {
		os.Exit(1)
	}
}

func run(o options) (string, error) {
	data, err := os.ReadFile(o.image)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", o.image, err)
	}

	processor := frontend.NewProcessor()
	processor.PixelRatio = o.pixelRatio
	processor.Resampler = o.resampler
	session := frontend.NewSession(processor)

	if err := session.SelectImage(filepath.Base(o.image), detectContentType(o.image, data), data); err != nil {
		return "", err
	}
	if err := session.Load(o.displayW, o.displayH); err != nil {
		return "", err
	}
	if o.cropW > 0 && o.cropH > 0 {
		crop := frontend.Crop{Unit: frontend.Unit(o.unit), X: o.cropX, Y: o.cropY, Width: o.cropW, Height: o.cropH}
		if err := session.UpdateCrop(crop, true); err != nil {
			return "", err
		}
	}

	cropped, err := session.Confirm()
	if err != nil {
		return "", err
	}
	log.Printf("cropped %s to %dx%d (%d bytes)", o.image, cropped.Width, cropped.Height, len(cropped.Data))
	if o.output != "" {
		if err := os.WriteFile(o.output, cropped.Data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", o.output, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := frontend.NewFormClient(o.server, nil)
	return session.Submit(ctx, client, frontend.FormFields{
		Name:  o.name,
		Age:   o.age,
		Email: o.email,
		Date:  o.date,
	})
}

// detectContentType prefers the extension and falls back to sniffing the content
func detectContentType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
