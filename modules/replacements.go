package modules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/coord"
)

// Replacements is the read-only module replacement lookup consulted before
// every registration.
type Replacements interface {
	// ReplacedBy returns the module that replaces id, if any.
	ReplacedBy(id coord.ModuleID) (coord.ModuleID, bool)
}

// ReplacementTable is a map-backed Replacements.
type ReplacementTable map[coord.ModuleID]coord.ModuleID

// ReplacedBy implements Replacements.
func (t ReplacementTable) ReplacedBy(id coord.ModuleID) (coord.ModuleID, bool) {
	to, ok := t[id]
	return to, ok
}

// Add records that from is replaced by to.
func (t ReplacementTable) Add(from, to coord.ModuleID) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("replacement %q -> %q: empty module", from, to)
	}
	if from == to {
		return fmt.Errorf("module %s cannot replace itself", from)
	}
	if existing, ok := t[from]; ok && existing != to {
		return fmt.Errorf("module %s already replaced by %s", from, existing)
	}
	t[from] = to
	return nil
}

// Sources returns the replaced modules in sorted order.
func (t ReplacementTable) Sources() []coord.ModuleID {
	keys := lo.Keys(t)
	slices.SortFunc(keys, coord.ModuleID.Compare)
	return keys
}

// ParseReplacements builds a table from "group:name" pairs.
func ParseReplacements(pairs map[string]string) (ReplacementTable, error) {
	table := make(ReplacementTable, len(pairs))
	for _, from := range slices.Sorted(maps.Keys(pairs)) {
		src, err := coord.ParseModuleID(from)
		if err != nil {
			return nil, fmt.Errorf("replacement source: %w", err)
		}
		dst, err := coord.ParseModuleID(pairs[from])
		if err != nil {
			return nil, fmt.Errorf("replacement for %s: %w", from, err)
		}
		if err := table.Add(src, dst); err != nil {
			return nil, err
		}
	}
	return table, nil
}
