package commands

import (
	"image"
	"image/color"
	"testing"

	"github.com/jo-hoe/profileform/internal/backend/commandstructure"
)

func TestNewCropCommand_Success(t *testing.T) {
	command, err := NewCropCommand(map[string]any{
		"x":      10,
		"y":      float64(20),
		"width":  100,
		"height": 50,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cropCmd, ok := command.(*CropCommand)
	if !ok {
		t.Fatal("Expected command to be *CropCommand")
	}
	p := cropCmd.GetParams()
	if p.X != 10 || p.Y != 20 || p.Width != 100 || p.Height != 50 {
		t.Errorf("unexpected params: %+v", p)
	}
	if cropCmd.Name() != "CropCommand" {
		t.Errorf("Expected name 'CropCommand', got '%s'", cropCmd.Name())
	}
}

func TestNewCropCommand_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"Missing width", map[string]any{"height": 10}},
		{"Missing height", map[string]any{"width": 10}},
		{"Zero width", map[string]any{"width": 0, "height": 10}},
		{"Negative height", map[string]any{"width": 10, "height": -1}},
		{"Negative origin", map[string]any{"x": -1, "width": 10, "height": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCropCommand(tt.params); err == nil {
				t.Error("Expected error for invalid params")
			}
		})
	}
}

func TestCropCommand_Execute_Region(t *testing.T) {
	src := makeQuadrantImage(100, 100)

	// Bottom-right quadrant is white
	command, err := NewCropCommandWithParams(50, 50, 50, 50)
	if err != nil {
		t.Fatalf("failed to create command: %v", err)
	}

	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	b := out.Bounds()
	if b.Min != (image.Point{}) || b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("expected 50x50 image anchored at origin, got %v", b)
	}
	got := color.RGBAModel.Convert(out.At(0, 0)).(color.RGBA)
	if got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white top-left pixel, got %v", got)
	}
}

func TestCropCommand_Execute_ClipsToBounds(t *testing.T) {
	src := makeQuadrantImage(40, 30)

	command, err := NewCropCommandWithParams(30, 10, 100, 100)
	if err != nil {
		t.Fatalf("failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 20 {
		t.Errorf("expected clipped 10x20 image, got %v", out.Bounds())
	}
}

func TestCropCommand_Execute_FullImageReturnsInput(t *testing.T) {
	src := makeQuadrantImage(20, 20)
	command, err := NewCropCommandWithParams(0, 0, 20, 20)
	if err != nil {
		t.Fatalf("failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != image.Image(src) {
		t.Error("expected the input image to be returned unchanged")
	}
}

func TestCropCommand_Execute_OutsideImage(t *testing.T) {
	command, err := NewCropCommandWithParams(100, 100, 10, 10)
	if err != nil {
		t.Fatalf("failed to create command: %v", err)
	}
	if _, err := command.Execute(makeQuadrantImage(50, 50)); err == nil {
		t.Error("expected error for region outside the image")
	}
}

func TestCropCommand_RegisteredInDefaultRegistry(t *testing.T) {
	if !commandstructure.DefaultRegistry.IsRegistered("CropCommand") {
		t.Error("Expected CropCommand to be registered in DefaultRegistry")
	}
}
