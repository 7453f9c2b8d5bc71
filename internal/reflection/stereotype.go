package reflection

import (
	"fmt"
	"strings"
)

// Stereotype identifies one of the recognized stereotype markers.
type Stereotype int

const (
	StereotypeRepository Stereotype = iota
	StereotypeService
	StereotypeController
	StereotypeComponent
)

// ResolutionOrder is the fixed order in which stereotype names are considered
// when computing an alias. Both container passes use it.
var ResolutionOrder = []Stereotype{
	StereotypeRepository,
	StereotypeService,
	StereotypeController,
	StereotypeComponent,
}

// String returns the string representation of the Stereotype.
func (s Stereotype) String() string {
	switch s {
	case StereotypeRepository:
		return "Repository"
	case StereotypeService:
		return "Service"
	case StereotypeController:
		return "Controller"
	case StereotypeComponent:
		return "Component"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsValid checks if the stereotype is one of the recognized markers.
func (s Stereotype) IsValid() bool {
	return s >= StereotypeRepository && s <= StereotypeComponent
}

// MarshalText implements encoding.TextMarshaler.
func (s Stereotype) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid stereotype: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stereotype) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "repository":
		*s = StereotypeRepository
	case "service":
		*s = StereotypeService
	case "controller":
		*s = StereotypeController
	case "component":
		*s = StereotypeComponent
	default:
		return fmt.Errorf("invalid stereotype: %q", string(text))
	}
	return nil
}
