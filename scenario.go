package goconflict

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/internal/buildutil"
	"github.com/albertocavalcante/go-conflict/modules"
	"github.com/albertocavalcante/go-conflict/version"
)

// Scenario is a dependency graph fragment described in a scenario file. It
// lists what a graph builder would discover, in discovery order.
type Scenario struct {
	// File is the name the scenario was parsed from.
	File string

	// Configuration is the configuration name, empty if not declared.
	Configuration string

	Modules      []ModuleDecl
	Replacements []ReplacementDecl
	Capabilities []CapabilityDecl
	Prefers      []PreferDecl
}

// ModuleDecl declares candidates for a module. Either Versions lists fixed
// candidate versions, or Selector is a dynamic selector resolved against
// Possible.
type ModuleDecl struct {
	Module   coord.ModuleID
	Versions []string
	Selector version.Selector
	Possible []string
	Resolved bool
	Line     int
}

// ReplacementDecl declares that Module is replaced by Using.
type ReplacementDecl struct {
	Module coord.ModuleID
	Using  coord.ModuleID
	Line   int
}

// CapabilityDecl declares that Component provides Capability. Implicit lists
// components providing the same capability at their own version.
type CapabilityDecl struct {
	Component  coord.ComponentID
	Capability coord.Capability
	Implicit   []coord.ComponentID
	Selectable bool
	Line       int
}

// PreferDecl pins the winner of a conflict. With Version set it pins the
// version of Module in module conflicts; otherwise it prefers Module as the
// provider of Capability, or of any capability when Capability is zero.
type PreferDecl struct {
	Capability coord.CapabilityID
	Module     coord.ModuleID
	Version    string
	Line       int
}

// ModuleResolver returns the module resolver for a version pin, or false if
// the declaration is a capability preference.
func (p PreferDecl) ModuleResolver() (modules.Resolver, bool) {
	if p.Version == "" {
		return nil, false
	}
	return &modules.PreferResolver{Module: p.Module, Version: p.Version}, true
}

// CapabilityResolver returns the capability resolver for a provider
// preference, or false if the declaration is a version pin.
func (p PreferDecl) CapabilityResolver() (capabilities.Resolver, bool) {
	if p.Version != "" {
		return nil, false
	}
	return &capabilities.PreferModuleResolver{Capability: p.Capability, Module: p.Module}, true
}

// Options returns the session options declared by the scenario.
func (s *Scenario) Options() []Option {
	var opts []Option
	if s.Configuration != "" {
		opts = append(opts, WithConfigurationName(s.Configuration))
	}
	for _, r := range s.Replacements {
		opts = append(opts, WithReplacement(r.Module.String(), r.Using.String()))
	}
	for _, p := range s.Prefers {
		if r, ok := p.ModuleResolver(); ok {
			opts = append(opts, WithModuleResolver(r))
		}
		if r, ok := p.CapabilityResolver(); ok {
			opts = append(opts, WithCapabilityResolver(r))
		}
	}
	return opts
}

// ParseScenarioFile reads and parses a scenario file from disk.
func ParseScenarioFile(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(filepath.Base(filename), data)
}

// ParseScenario parses scenario content. Unknown calls and attributes are
// rejected so that typos do not silently change the graph.
func ParseScenario(filename string, content []byte) (*Scenario, error) {
	f, err := build.ParseBzl(filename, content)
	if err != nil {
		return nil, &ScenarioError{Code: ErrCodeParse, File: filename, Message: err.Error()}
	}

	p := &scenarioParser{sc: &Scenario{File: filename}}
	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			start, _ := stmt.Span()
			return nil, p.errorf(ErrCodeUnknownCall, start.Line, "unsupported statement")
		}
		if err := p.call(call); err != nil {
			return nil, err
		}
	}
	return p.sc, nil
}

type scenarioParser struct {
	sc *Scenario
}

func (p *scenarioParser) errorf(code string, line int, format string, args ...any) error {
	return &ScenarioError{Code: code, File: p.sc.File, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (p *scenarioParser) call(call *build.CallExpr) error {
	line := buildutil.Line(call)
	name := buildutil.FuncName(call)

	var allowed []string
	switch name {
	case "configuration":
		allowed = []string{"name"}
	case "module":
		allowed = []string{"id", "versions", "range", "possible", "resolved"}
	case "replacement":
		allowed = []string{"module", "using"}
	case "capability":
		allowed = []string{"component", "capability", "implicit", "selectable"}
	case "prefer":
		allowed = []string{"capability", "module", "version"}
	default:
		if name == "" {
			return p.errorf(ErrCodeUnknownCall, line, "unsupported call")
		}
		return p.errorf(ErrCodeUnknownCall, line, "unknown function %q", name)
	}
	if unknown := buildutil.Unknown(call, allowed...); len(unknown) > 0 {
		return p.errorf(ErrCodeUnknownAttr, line, "%s: unknown attributes %s", name, strings.Join(unknown, ", "))
	}

	switch name {
	case "configuration":
		return p.configuration(call, line)
	case "module":
		return p.module(call, line)
	case "replacement":
		return p.replacement(call, line)
	case "capability":
		return p.capability(call, line)
	default:
		return p.prefer(call, line)
	}
}

func (p *scenarioParser) required(call *build.CallExpr, line int, attr string) (string, error) {
	v := buildutil.String(call, attr)
	if v == "" {
		return "", p.errorf(ErrCodeMissingAttr, line, "%s: missing %s", buildutil.FuncName(call), attr)
	}
	return v, nil
}

func (p *scenarioParser) configuration(call *build.CallExpr, line int) error {
	if p.sc.Configuration != "" {
		return p.errorf(ErrCodeDuplicateValue, line, "configuration declared twice")
	}
	name, err := p.required(call, line, "name")
	if err != nil {
		return err
	}
	p.sc.Configuration = name
	return nil
}

func (p *scenarioParser) module(call *build.CallExpr, line int) error {
	raw, err := p.required(call, line, "id")
	if err != nil {
		return err
	}
	id, err := coord.ParseModuleID(raw)
	if err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "module: %v", err)
	}

	decl := ModuleDecl{
		Module:   id,
		Versions: buildutil.StringList(call, "versions"),
		Possible: buildutil.StringList(call, "possible"),
		Resolved: buildutil.Bool(call, "resolved", true),
		Line:     line,
	}

	hasRange := buildutil.Has(call, "range")
	switch {
	case hasRange && len(decl.Versions) > 0:
		return p.errorf(ErrCodeInvalidAttr, line, "module %s: versions and range are exclusive", id)
	case hasRange:
		sel, err := version.ParseSelector(buildutil.String(call, "range"))
		if err != nil {
			return p.errorf(ErrCodeInvalidAttr, line, "module %s: %v", id, err)
		}
		if len(decl.Possible) == 0 {
			return p.errorf(ErrCodeMissingAttr, line, "module %s: range requires possible versions", id)
		}
		decl.Selector = sel
	case len(decl.Versions) == 0:
		return p.errorf(ErrCodeMissingAttr, line, "module %s: missing versions or range", id)
	case buildutil.Has(call, "possible"):
		return p.errorf(ErrCodeInvalidAttr, line, "module %s: possible requires range", id)
	}

	for _, v := range slices.Concat(decl.Versions, decl.Possible) {
		if _, err := coord.NewComponentID(id, v); err != nil {
			return p.errorf(ErrCodeInvalidAttr, line, "module %s: %v", id, err)
		}
	}

	p.sc.Modules = append(p.sc.Modules, decl)
	return nil
}

func (p *scenarioParser) replacement(call *build.CallExpr, line int) error {
	from, err := p.required(call, line, "module")
	if err != nil {
		return err
	}
	to, err := p.required(call, line, "using")
	if err != nil {
		return err
	}

	decl := ReplacementDecl{Line: line}
	if decl.Module, err = coord.ParseModuleID(from); err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "replacement: %v", err)
	}
	if decl.Using, err = coord.ParseModuleID(to); err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "replacement: %v", err)
	}
	for _, r := range p.sc.Replacements {
		if r.Module == decl.Module {
			return p.errorf(ErrCodeDuplicateValue, line, "module %s already replaced by %s (line %d)", r.Module, r.Using, r.Line)
		}
	}

	p.sc.Replacements = append(p.sc.Replacements, decl)
	return nil
}

func (p *scenarioParser) capability(call *build.CallExpr, line int) error {
	component, err := p.required(call, line, "component")
	if err != nil {
		return err
	}
	capability, err := p.required(call, line, "capability")
	if err != nil {
		return err
	}

	decl := CapabilityDecl{
		Selectable: buildutil.Bool(call, "selectable", true),
		Line:       line,
	}
	if decl.Component, err = coord.ParseComponentID(component); err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "capability: %v", err)
	}
	if decl.Capability, err = coord.ParseCapability(capability); err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "capability: %v", err)
	}
	for _, raw := range buildutil.StringList(call, "implicit") {
		id, err := coord.ParseComponentID(raw)
		if err != nil {
			return p.errorf(ErrCodeInvalidAttr, line, "capability %s: implicit: %v", decl.Capability, err)
		}
		decl.Implicit = append(decl.Implicit, id)
	}

	p.sc.Capabilities = append(p.sc.Capabilities, decl)
	return nil
}

func (p *scenarioParser) prefer(call *build.CallExpr, line int) error {
	module, err := p.required(call, line, "module")
	if err != nil {
		return err
	}

	decl := PreferDecl{Version: buildutil.String(call, "version"), Line: line}
	if decl.Module, err = coord.ParseModuleID(module); err != nil {
		return p.errorf(ErrCodeInvalidAttr, line, "prefer: %v", err)
	}
	if raw := buildutil.String(call, "capability"); raw != "" {
		if decl.Version != "" {
			return p.errorf(ErrCodeInvalidAttr, line, "prefer: capability and version are exclusive")
		}
		if decl.Capability, err = coord.ParseCapabilityID(raw); err != nil {
			return p.errorf(ErrCodeInvalidAttr, line, "prefer: %v", err)
		}
	}

	p.sc.Prefers = append(p.sc.Prefers, decl)
	return nil
}
