package commandstructure

import (
	"errors"
	"image"
	"testing"
)

func newTestImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestExecuteCommands_EmptyList(t *testing.T) {
	img := newTestImage(4, 4)
	result, err := ExecuteCommands(img, []CommandConfig{})
	if err != nil {
		t.Errorf("Expected no error for empty command list, got %v", err)
	}
	if result != img {
		t.Error("Expected result to be the input image for empty command list")
	}
}

func TestExecuteCommands_UnknownCommand(t *testing.T) {
	configs := []CommandConfig{
		{
			Name:   "UnknownCommand",
			Params: map[string]any{},
		},
	}

	_, err := ExecuteCommands(newTestImage(4, 4), configs)
	if err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestExecuteCommands_UsesDefaultRegistry(t *testing.T) {
	testRegistry := NewCommandRegistry()
	err := testRegistry.Register("Shrink", func(params map[string]any) (Command, error) {
		size := GetIntParam(params, "size", 1)
		return &mockCommand{
			name: "Shrink",
			executeFunc: func(img image.Image) (image.Image, error) {
				return newTestImage(size, size), nil
			},
		}, nil
	})
	if err != nil {
		t.Fatalf("Failed to register test command: %v", err)
	}

	// Temporarily replace DefaultRegistry for this test
	originalRegistry := DefaultRegistry
	DefaultRegistry = testRegistry
	defer func() { DefaultRegistry = originalRegistry }()

	result, err := ExecuteCommands(newTestImage(10, 10), []CommandConfig{
		{Name: "Shrink", Params: map[string]any{"size": 3}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Bounds().Dx() != 3 || result.Bounds().Dy() != 3 {
		t.Errorf("Expected 3x3 result, got %v", result.Bounds())
	}
}

func TestNewCommandInvoker(t *testing.T) {
	invoker := NewCommandInvoker([]Command{newMockCommand("TestCommand")})
	if invoker == nil {
		t.Fatal("Expected non-nil invoker")
	}
	if len(invoker.commands) != 1 {
		t.Errorf("Expected 1 command, got %d", len(invoker.commands))
	}
}

func TestCommandInvoker_MultipleCommands(t *testing.T) {
	var order []string
	record := func(name string, size int) *mockCommand {
		return &mockCommand{
			name: name,
			executeFunc: func(img image.Image) (image.Image, error) {
				order = append(order, name)
				return newTestImage(size, size), nil
			},
		}
	}

	invoker := NewCommandInvoker([]Command{record("Command1", 8), record("Command2", 2)})
	result, err := invoker.Execute(newTestImage(16, 16))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(order) != 2 || order[0] != "Command1" || order[1] != "Command2" {
		t.Errorf("Expected commands to run in order, got %v", order)
	}
	if result.Bounds().Dx() != 2 {
		t.Errorf("Expected output of last command, got %v", result.Bounds())
	}
}

func TestCommandInvoker_ErrorInMiddle(t *testing.T) {
	sentinel := errors.New("command2 failed")
	third := newMockCommand("Command3")
	ran := false
	third.executeFunc = func(img image.Image) (image.Image, error) {
		ran = true
		return img, nil
	}

	invoker := NewCommandInvoker([]Command{
		newMockCommand("Command1"),
		newMockCommandWithError("Command2", sentinel),
		third,
	})
	_, err := invoker.Execute(newTestImage(4, 4))
	if err == nil {
		t.Fatal("Expected error when command fails")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel error, got %v", err)
	}
	if ran {
		t.Error("Expected pipeline to stop after failing command")
	}
}
