package conflict

import (
	"fmt"
)

// Resolver is one resolution strategy. It decides by calling Select, Fail or
// Restart on the details, or declines by returning without touching them.
type Resolver[K comparable, C any] interface {
	Resolve(d *Details[K, C])
}

// Named is implemented by resolvers that report a stable name for
// explanations and logs.
type Named interface {
	Name() string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[K comparable, C any] func(d *Details[K, C])

func (f ResolverFunc[K, C]) Resolve(d *Details[K, C]) { f(d) }

type namedResolver[K comparable, C any] struct {
	name string
	fn   func(d *Details[K, C])
}

func (r namedResolver[K, C]) Resolve(d *Details[K, C]) { r.fn(d) }
func (r namedResolver[K, C]) Name() string            { return r.name }

// NamedResolver wraps fn as a resolver with the given name.
func NamedResolver[K comparable, C any](name string, fn func(d *Details[K, C])) Resolver[K, C] {
	return namedResolver[K, C]{name: name, fn: fn}
}

// NameOf returns the resolver's name, falling back to its type.
func NameOf(r any) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

// Chain is an ordered list of resolvers. The most recently registered resolver
// is consulted first, so caller-supplied resolvers take precedence over
// built-in defaults registered at construction.
type Chain[K comparable, C any] struct {
	resolvers []Resolver[K, C]
}

// Register appends a resolver; it will be consulted before all earlier ones.
func (c *Chain[K, C]) Register(r Resolver[K, C]) {
	if r == nil {
		panic("conflict: Register called with nil resolver")
	}
	c.resolvers = append(c.resolvers, r)
}

// Len returns the number of registered resolvers.
func (c *Chain[K, C]) Len() int {
	return len(c.resolvers)
}

// Resolve consults resolvers until one decides. It returns an error wrapping
// ErrNoDecision when all of them decline; a Failed outcome is not an error of
// the chain itself and is reported through d.
func (c *Chain[K, C]) Resolve(d *Details[K, C]) error {
	for i := len(c.resolvers) - 1; i >= 0; i-- {
		r := c.resolvers[i]
		d.running = NameOf(r)
		r.Resolve(d)
		if d.IsDecided() {
			d.running = ""
			return nil
		}
	}
	d.running = ""
	return fmt.Errorf("%w: %d resolver(s) declined conflict between %v", ErrNoDecision, len(c.resolvers), d.participants)
}
