package stereo

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/multierr"

	"github.com/junioryono/stereo/internal/container"
	"github.com/junioryono/stereo/internal/registry"
	"github.com/junioryono/stereo/internal/scanner"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================

var (
	// Catalog errors.
	ErrNilType           = errors.New("type cannot be nil")
	ErrUnnamedType       = errors.New("only named types declared in a package can be registered")
	ErrNotInterface      = errors.New("contract must be an interface type")
	ErrNotImplemented    = errors.New("type does not implement contract")
	ErrAlreadyRegistered = errors.New("type already registered")
	ErrTypeNotFound      = registry.ErrTypeNotFound

	// Lifecycle errors.
	ErrNamespaceNotFound = scanner.ErrNamespaceNotFound
	ErrRegistrySealed    = registry.ErrRegistrySealed
	ErrNotConstructible  = container.ErrNotConstructible
	ErrConstructPanic    = container.ErrConstructPanic
	ErrUnresolved        = container.ErrUnresolved

	// Lookup errors.
	ErrBeanNotFound = errors.New("bean not found")
	ErrNilContainer = errors.New("container cannot be nil")
)

var (
	_ error = NamespaceNotFoundError{}
	_ error = LoadError{}
	_ error = RegistrationError{}
	_ error = ConstructionError{}
	_ error = ResolutionError{}
	_ error = InitializationError{}
	_ error = NotFoundError{}
	_ error = TypeMismatchError{}
	_ error = (*WiringError)(nil)
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// NamespaceNotFoundError indicates a namespace could not be resolved in the
// catalog. It matches ErrNamespaceNotFound with errors.Is.
type NamespaceNotFoundError = scanner.NamespaceNotFoundError

// LoadError indicates a scanned name could not be loaded as a type.
type LoadError = registry.LoadError

// ConstructionError indicates a managed type produced no instance.
type ConstructionError = container.ConstructionError

// ResolutionError indicates an autowired field was left unset.
type ResolutionError = container.ResolutionError

// InitializationError indicates an Initializer failed after wiring.
type InitializationError = container.InitializationError

// AliasCollision records a managed type dropped because its alias was taken.
type AliasCollision = container.AliasCollision

// ContractOverride records a contract key reassigned to a later type.
type ContractOverride = container.ContractOverride

// RegistrationError wraps errors while adding types to a catalog.
type RegistrationError struct {
	Type      string
	Operation string // "add", "add-loader"
	Cause     error
}

func (e RegistrationError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("failed to %s type: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Type, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates no bean is registered under a name.
type NotFoundError struct {
	Name      string
	Available []string // keys that ARE registered, for suggestions
}

func (e NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("bean not found: %q", e.Name))

	if similar := findSimilarNames(e.Name, e.Available); len(similar) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, name := range similar {
			b.WriteString(fmt.Sprintf("  • %s\n", name))
		}
	}

	return b.String()
}

func (e NotFoundError) Unwrap() error {
	return ErrBeanNotFound
}

// TypeMismatchError indicates a bean exists but is not of the requested type.
type TypeMismatchError struct {
	Name     string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("bean %q is %s, not %s", e.Name, formatType(e.Actual), formatType(e.Expected))
}

// WiringError aggregates every per-entry failure of a strict container build.
type WiringError struct {
	ContainerID string
	err         error
}

func newWiringError(id string, errs []error) *WiringError {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	return &WiringError{ContainerID: id, err: combined}
}

func (e *WiringError) Error() string {
	errs := e.Errors()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("container %s: %d wiring failure(s):\n", e.ContainerID, len(errs)))
	for _, err := range errs {
		b.WriteString("  • ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Errors returns the individual failures.
func (e *WiringError) Errors() []error {
	return multierr.Errors(e.err)
}

func (e *WiringError) Unwrap() []error {
	return e.Errors()
}

// IsNotFound reports whether err means a bean or namespace was not found.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var nf NamespaceNotFoundError
	return errors.Is(err, ErrBeanNotFound) || errors.As(err, &nf)
}

// findSimilarNames finds registered keys with similar names using a simple
// substring match on the last path element.
func findSimilarNames(target string, available []string) []string {
	if target == "" || len(available) == 0 {
		return nil
	}

	short := strings.ToLower(shortName(target))

	var similar []string
	for _, name := range available {
		if name == target {
			continue
		}

		candidate := strings.ToLower(shortName(name))
		if candidate == short || strings.Contains(candidate, short) || strings.Contains(short, candidate) {
			similar = append(similar, name)
		}

		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

func shortName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// formatType formats a type for error messages
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
