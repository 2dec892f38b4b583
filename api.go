// Package goconflict resolves the conflicts that arise while a dependency
// graph is built: several versions of one module, modules linked by
// replacement rules, and components declaring the same capability.
//
// # Overview
//
// The package provides three main components:
//
//   - Session: the conflict engine for one configuration. The graph builder
//     registers modules and capabilities as it discovers them and drains the
//     pending conflicts between traversal steps.
//   - Scenario: a Starlark description of a graph fragment, parsed with
//     buildtools, for reproducing and testing resolution.
//   - Driver: a minimal graph builder that runs a Scenario through a Session.
//
// # Quick Start
//
//	scenario := []byte(`
//	module(id = "org:lib", versions = ["1.0", "2.0"])
//	`)
//	res, err := goconflict.Resolve(ctx, scenario)
//	fmt.Println(res.Modules["org:lib"]) // org:lib:2.0
//
// # Driving a Session
//
// Graph builders embed a Session directly:
//
//	s, err := goconflict.NewSession(goconflict.WithReplacement("org:old", "org:new"))
//	s.RegisterModule(id, candidates)
//	for s.HasModuleConflicts() {
//	    err := s.ResolveNextModule(func(r modules.Result) {
//	        if r.IsRestart() {
//	            // re-register r.Participants
//	        }
//	    })
//	}
//	err = s.Finish()
//
// Module conflicts are resolved by the most recently registered resolver that
// decides, falling back to range restarts, candidate intersection and finally
// the highest version. Capability resolvers run in registration order.
//
// # Thread Safety
//
// A Session is confined to one goroutine. Independent sessions share no state
// and may run concurrently.
package goconflict

import (
	"context"
	"fmt"
)

// Resolve parses scenario content and resolves it.
func Resolve(ctx context.Context, content []byte, opts ...Option) (*Resolution, error) {
	sc, err := ParseScenario("scenario.star", content)
	if err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return NewDriver(opts...).Run(ctx, sc)
}

// ResolveFile parses a scenario file and resolves it.
func ResolveFile(ctx context.Context, path string, opts ...Option) (*Resolution, error) {
	sc, err := ParseScenarioFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	return NewDriver(opts...).Run(ctx, sc)
}
