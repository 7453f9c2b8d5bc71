package container

import (
	"errors"
	"fmt"
)

var (
	ErrNotConstructible = errors.New("type has no no-argument construction path")
	ErrUnresolved       = errors.New("no instance registered under key")
	ErrConstructPanic   = errors.New("construction panicked")
)

// ConstructionError indicates a managed type produced no instance.
type ConstructionError struct {
	Type  string
	Alias string
	Cause error
}

func (e ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %s (alias %q): %v", e.Type, e.Alias, e.Cause)
}

func (e ConstructionError) Unwrap() error {
	return e.Cause
}

// ResolutionError indicates an autowired field could not be populated.
type ResolutionError struct {
	Alias string
	Type  string
	Field string
	Key   string
	Cause error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("failed to inject %s.%s (bean %q) from %q: %v", e.Type, e.Field, e.Alias, e.Key, e.Cause)
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// InitializationError indicates a bean's Initialize hook failed after wiring.
type InitializationError struct {
	Alias string
	Type  string
	Cause error
}

func (e InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize %s (alias %q): %v", e.Type, e.Alias, e.Cause)
}

func (e InitializationError) Unwrap() error {
	return e.Cause
}

// AliasCollision records a managed type whose alias was already taken.
type AliasCollision struct {
	Alias  string
	Winner string
	Loser  string
}

// ContractOverride records a contract key that changed hands.
type ContractOverride struct {
	Contract string
	Previous string
	Current  string
}
