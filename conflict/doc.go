// Package conflict provides the generic building blocks of conflict
// resolution: a keyed registry that groups colliding candidates, a mutable
// resolution view with explicit terminal states, and an ordered chain of
// pluggable resolvers.
//
// # Registry
//
// A [Registry] tracks, for each logical key (a module or a capability), the
// candidates discovered so far and any replacement links between keys. A
// conflict [Group] is created lazily when a key has two or more candidates or
// when a replacement link ties two discovered keys together:
//
//	reg := conflict.NewRegistry[coord.ModuleID, Candidate]()
//	if g := reg.Register(key, candidates, nil); g != nil {
//		// key is now part of a pending conflict
//	}
//
// Groups are kept in first-detected order, so popping them yields the same
// sequence for identical inputs. Replacement links may be observed before or
// after the replaced key; both orders converge on the same group, whose
// authoritative candidates are those of the replacement target.
//
// # Resolution
//
// A [Details] value starts Undecided and moves to exactly one of Selected,
// Failed or Restarted. The first transition wins and later calls are ignored.
//
// A [Chain] runs its resolvers most recently registered first and stops at the
// first one that decides. A resolver declines by returning without touching
// the details. When every resolver declines, the chain reports [ErrNoDecision]:
// a configuration without a default resolver is a programming error and no
// candidate is ever picked arbitrarily.
package conflict
