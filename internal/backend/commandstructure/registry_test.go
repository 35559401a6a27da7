package commandstructure

import (
	"testing"
)

func TestNewCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if registry.factories == nil {
		t.Fatal("Expected non-nil factories map")
	}
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := NewCommandRegistry()
	factory := func(params map[string]any) (Command, error) {
		return newMockCommand("TestCommand"), nil
	}

	// Test successful registration
	if err := registry.Register("TestCommand", factory); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test duplicate registration
	if err := registry.Register("TestCommand", factory); err == nil {
		t.Error("Expected error for duplicate registration")
	}

	// Test empty name
	if err := registry.Register("", factory); err == nil {
		t.Error("Expected error for empty name")
	}

	// Test nil factory
	if err := registry.Register("NilFactory", nil); err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestCommandRegistry_Create(t *testing.T) {
	registry := NewCommandRegistry()

	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		return newMockCommand("TestCommand"), nil
	})
	if err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	command, err := registry.Create("TestCommand", nil)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if command == nil {
		t.Fatal("Expected non-nil command")
	}
	if command.Name() != "TestCommand" {
		t.Errorf("Expected command name 'TestCommand', got '%s'", command.Name())
	}

	// Test creating unregistered command
	_, err = registry.Create("UnknownCommand", nil)
	if err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestCommandRegistry_CreateFactoryError(t *testing.T) {
	registry := NewCommandRegistry()
	err := registry.Register("Strict", func(params map[string]any) (Command, error) {
		if err := ValidateRequiredParams(params, []string{"width"}); err != nil {
			return nil, err
		}
		return newMockCommand("Strict"), nil
	})
	if err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	if _, err := registry.Create("Strict", map[string]any{}); err == nil {
		t.Error("Expected factory error to be returned")
	}
}

func TestCommandRegistry_IsRegistered(t *testing.T) {
	registry := NewCommandRegistry()

	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		return newMockCommand("TestCommand"), nil
	})
	if err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	if !registry.IsRegistered("TestCommand") {
		t.Error("Expected TestCommand to be registered")
	}
	if registry.IsRegistered("UnknownCommand") {
		t.Error("Expected UnknownCommand to not be registered")
	}
}

func TestCommandRegistry_GetRegisteredNames(t *testing.T) {
	registry := NewCommandRegistry()

	names := registry.GetRegisteredNames()
	if len(names) != 0 {
		t.Errorf("Expected 0 registered names, got %d", len(names))
	}

	for _, name := range []string{"Command2", "Command1"} {
		name := name
		err := registry.Register(name, func(params map[string]any) (Command, error) {
			return newMockCommand(name), nil
		})
		if err != nil {
			t.Fatalf("Failed to register %s: %v", name, err)
		}
	}

	names = registry.GetRegisteredNames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 registered names, got %d", len(names))
	}
	if names[0] != "Command1" || names[1] != "Command2" {
		t.Errorf("Expected sorted names [Command1 Command2], got %v", names)
	}
}
