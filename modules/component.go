package modules

import (
	"slices"

	"github.com/albertocavalcante/go-conflict/coord"
)

// Component is a plain Candidate for callers that do not carry their own
// resolution-state type.
type Component struct {
	Coord    coord.ComponentID
	Resolved bool
	// Possible lists the versions a dynamic selector matched, preferred
	// first. Empty for fixed versions.
	Possible []string
}

// NewComponent returns a resolved component for module at version.
func NewComponent(module coord.ModuleID, version string) *Component {
	return &Component{
		Coord:    coord.ComponentID{Module: module, Version: version},
		Resolved: true,
	}
}

func (c *Component) ID() coord.ComponentID { return c.Coord }

func (c *Component) Version() string { return c.Coord.Version }

func (c *Component) IsResolved() bool { return c.Resolved }

func (c *Component) PossibleVersions() []string { return slices.Clone(c.Possible) }

func (c *Component) String() string { return c.Coord.String() }
