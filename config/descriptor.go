// Package config reads the descriptor that tells a container where to scan,
// the .env file that can override it, and the logger settings.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoComponentScan    = errors.New("descriptor does not name a component-scan root")
	ErrUnsupportedLocator = errors.New("descriptor must be .xml, .yaml or .yml")
	ErrDescriptorNotFound = errors.New("descriptor not found")
)

const (
	EnvComponentScan = "STEREO_COMPONENT_SCAN"
	EnvStrict        = "STEREO_STRICT"
)

// Descriptor is the parsed container descriptor.
type Descriptor struct {
	// ComponentScan is the root namespace, an import path such as
	// "example.com/app".
	ComponentScan string `yaml:"component-scan"`

	// Strict turns per-entry failures into a construction error.
	Strict bool `yaml:"strict"`

	// Source is the file the descriptor was read from.
	Source string `yaml:"-"`
}

// xmlDescriptor matches
//
//	<beans strict="true">
//	    <package-scan component-scan="example.com/app"/>
//	</beans>
//
// The root element name is not checked.
type xmlDescriptor struct {
	Strict      bool `xml:"strict,attr"`
	PackageScan *struct {
		ComponentScan string `xml:"component-scan,attr"`
	} `xml:"package-scan"`
}

// Load reads the descriptor at locator. The format is chosen by extension.
// STEREO_COMPONENT_SCAN and STEREO_STRICT, when set, override the file.
func Load(locator string) (*Descriptor, error) {
	data, err := os.ReadFile(locator)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDescriptorNotFound, locator)
		}
		return nil, err
	}

	desc, err := Parse(filepath.Ext(locator), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	desc.Source = locator

	return desc, nil
}

// Parse decodes a descriptor in the format named by ext (".xml", ".yaml" or
// ".yml") and applies the environment overrides.
func Parse(ext string, data []byte) (*Descriptor, error) {
	desc := &Descriptor{}

	switch strings.ToLower(ext) {
	case ".xml":
		var x xmlDescriptor
		if err := xml.Unmarshal(data, &x); err != nil {
			return nil, err
		}
		desc.Strict = x.Strict
		if x.PackageScan != nil {
			desc.ComponentScan = x.PackageScan.ComponentScan
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, desc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocator, ext)
	}

	if err := desc.applyEnv(); err != nil {
		return nil, err
	}

	desc.ComponentScan = strings.TrimSpace(desc.ComponentScan)
	if desc.ComponentScan == "" {
		return nil, ErrNoComponentScan
	}

	return desc, nil
}

func (d *Descriptor) applyEnv() error {
	if root := os.Getenv(EnvComponentScan); root != "" {
		d.ComponentScan = root
	}

	return GetEnvBool(EnvStrict, func(v bool) {
		d.Strict = v
	})
}
