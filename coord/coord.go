// Package coord provides strongly-typed coordinates for the entities that take
// part in conflict resolution.
//
// All types in this package are comparable values with structural equality, so
// they can be used directly as map keys and as conflict registry keys.
//
// # Types
//
// The main types are:
//   - [ModuleID]: a module identifier, group and name (e.g., "org.slf4j:slf4j-api")
//   - [ComponentID]: one version of a module (e.g., "org.slf4j:slf4j-api:2.0.9")
//   - [CapabilityID]: a version-independent capability identity
//   - [Capability]: a capability together with the version a component provides
//
// # Validation Patterns
//
// Groups and names must match: [A-Za-z0-9_]([A-Za-z0-9._-]*)
// Versions must not contain ':' or whitespace.
package coord

import (
	"fmt"
	"regexp"
	"strings"
)

var partRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

func validatePart(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if !partRegex.MatchString(s) {
		return fmt.Errorf("invalid %s %q: must match pattern [A-Za-z0-9_][A-Za-z0-9._-]*", kind, s)
	}
	return nil
}

func validateVersion(s string) error {
	if s == "" {
		return fmt.Errorf("version cannot be empty")
	}
	if strings.ContainsAny(s, ": \t\n") {
		return fmt.Errorf("invalid version %q: must not contain ':' or whitespace", s)
	}
	return nil
}

// ModuleID identifies a module independently of its version.
type ModuleID struct {
	Group string
	Name  string
}

// NewModuleID creates a validated ModuleID.
func NewModuleID(group, name string) (ModuleID, error) {
	if err := validatePart("group", group); err != nil {
		return ModuleID{}, err
	}
	if err := validatePart("name", name); err != nil {
		return ModuleID{}, err
	}
	return ModuleID{Group: group, Name: name}, nil
}

// ParseModuleID parses a "group:name" coordinate.
func ParseModuleID(s string) (ModuleID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ModuleID{}, fmt.Errorf("invalid module %q: expected group:name", s)
	}
	return NewModuleID(parts[0], parts[1])
}

// MustModuleID parses a ModuleID or panics. Use only for constants/tests.
func MustModuleID(s string) ModuleID {
	m, err := ParseModuleID(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the module as "group:name".
func (m ModuleID) String() string {
	return m.Group + ":" + m.Name
}

// IsZero returns true for the zero-value ModuleID.
func (m ModuleID) IsZero() bool {
	return m.Group == "" && m.Name == ""
}

// Compare orders modules by group, then name.
func (m ModuleID) Compare(o ModuleID) int {
	if c := strings.Compare(m.Group, o.Group); c != 0 {
		return c
	}
	return strings.Compare(m.Name, o.Name)
}

// Capability returns the capability identity every module implicitly provides.
func (m ModuleID) Capability() CapabilityID {
	return CapabilityID(m)
}

// ComponentID identifies one version of a module.
type ComponentID struct {
	Module  ModuleID
	Version string
}

// NewComponentID creates a validated ComponentID.
func NewComponentID(module ModuleID, version string) (ComponentID, error) {
	if module.IsZero() {
		return ComponentID{}, fmt.Errorf("component module cannot be empty")
	}
	if err := validateVersion(version); err != nil {
		return ComponentID{}, err
	}
	return ComponentID{Module: module, Version: version}, nil
}

// ParseComponentID parses a "group:name:version" coordinate.
func ParseComponentID(s string) (ComponentID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return ComponentID{}, fmt.Errorf("invalid component %q: expected group:name:version", s)
	}
	m, err := NewModuleID(parts[0], parts[1])
	if err != nil {
		return ComponentID{}, fmt.Errorf("invalid component %q: %w", s, err)
	}
	return NewComponentID(m, parts[2])
}

// MustComponentID parses a ComponentID or panics. Use only for constants/tests.
func MustComponentID(s string) ComponentID {
	c, err := ParseComponentID(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the component as "group:name:version".
func (c ComponentID) String() string {
	return c.Module.String() + ":" + c.Version
}

// Compare orders components by module, then by raw version string.
// Callers needing version semantics should use the version package instead.
func (c ComponentID) Compare(o ComponentID) int {
	if r := c.Module.Compare(o.Module); r != 0 {
		return r
	}
	return strings.Compare(c.Version, o.Version)
}

// CapabilityID is the version-independent identity of a capability.
type CapabilityID struct {
	Group string
	Name  string
}

// ParseCapabilityID parses a "group:name" capability identity.
func ParseCapabilityID(s string) (CapabilityID, error) {
	m, err := ParseModuleID(s)
	if err != nil {
		return CapabilityID{}, fmt.Errorf("invalid capability %q: %w", s, err)
	}
	return CapabilityID(m), nil
}

// String returns the capability as "group:name".
func (c CapabilityID) String() string {
	return c.Group + ":" + c.Name
}

// IsZero returns true for the zero-value CapabilityID.
func (c CapabilityID) IsZero() bool {
	return c.Group == "" && c.Name == ""
}

// Capability is a capability together with the version a component provides.
type Capability struct {
	Group   string
	Name    string
	Version string
}

// ParseCapability parses a "group:name:version" capability descriptor.
func ParseCapability(s string) (Capability, error) {
	c, err := ParseComponentID(s)
	if err != nil {
		return Capability{}, fmt.Errorf("invalid capability: %w", err)
	}
	return Capability{Group: c.Module.Group, Name: c.Module.Name, Version: c.Version}, nil
}

// MustCapability parses a Capability or panics. Use only for constants/tests.
func MustCapability(s string) Capability {
	c, err := ParseCapability(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the version-independent identity.
func (c Capability) ID() CapabilityID {
	return CapabilityID{Group: c.Group, Name: c.Name}
}

// String returns the capability as "group:name:version".
func (c Capability) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}
