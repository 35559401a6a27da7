package commandstructure

import (
	"fmt"
	"image"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of commands on an image
type CommandInvoker struct {
	commands []Command
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// Execute applies all commands in sequence to the image
func (i *CommandInvoker) Execute(img image.Image) (image.Image, error) {
	start := time.Now()

	slog.Debug("starting image processing pipeline",
		"command_count", len(i.commands),
		"input_bounds", boundsOf(img))

	current := img
	for idx, command := range i.commands {
		commandStart := time.Now()

		processed, err := command.Execute(current)
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Debug("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_bounds", boundsOf(current),
			"output_bounds", boundsOf(processed))

		current = processed
	}

	slog.Debug("image processing pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands),
		"final_bounds", boundsOf(current))

	return current, nil
}

// ExecuteCommands creates each configured command from DefaultRegistry and applies them in order
func ExecuteCommands(img image.Image, commandConfigs []CommandConfig) (image.Image, error) {
	if len(commandConfigs) == 0 {
		slog.Debug("no commands configured, returning original image")
		return img, nil
	}

	commands := make([]Command, 0, len(commandConfigs))
	for i, config := range commandConfigs {
		command, err := DefaultRegistry.Create(config.Name, config.Params)
		if err != nil {
			slog.Error("failed to create command",
				"index", i,
				"command_name", config.Name,
				"error", err)
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		commands = append(commands, command)
	}

	return NewCommandInvoker(commands).Execute(img)
}

func boundsOf(img image.Image) string {
	if img == nil {
		return "nil"
	}
	return img.Bounds().String()
}
