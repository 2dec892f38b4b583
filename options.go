package goconflict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/modules"
)

// DefaultConfiguration names the configuration resolved when none is set.
const DefaultConfiguration = "default"

// Option configures a resolution session.
type Option func(*sessionConfig) error

// sessionConfig holds all session configuration.
type sessionConfig struct {
	configuration         string
	failOnVersionConflict bool
	autoUpgrade           bool
	selectHighest         bool
	maxRestarts           int
	replacements          modules.ReplacementTable
	moduleResolvers       []modules.Resolver
	capabilityResolvers   []capabilities.Resolver
	compare               func(a, b string) int

	// logger is the structured logger for debug output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// WithConfigurationName names the configuration being resolved. It appears
// in diagnostics and outcomes.
func WithConfigurationName(name string) Option {
	return func(c *sessionConfig) error {
		c.configuration = name
		return nil
	}
}

// WithFailOnVersionConflict makes the session fail when any module resolved
// between several versions. All conflicts of the session are reported.
func WithFailOnVersionConflict(fail bool) Option {
	return func(c *sessionConfig) error {
		c.failOnVersionConflict = fail
		return nil
	}
}

// WithAutoUpgradeCapabilities evicts providers of older capability versions
// before any other capability resolver runs.
func WithAutoUpgradeCapabilities(upgrade bool) Option {
	return func(c *sessionConfig) error {
		c.autoUpgrade = upgrade
		return nil
	}
}

// WithSelectHighestCapability resolves capability conflicts that no other
// resolver settled by picking the provider with the highest version.
func WithSelectHighestCapability(highest bool) Option {
	return func(c *sessionConfig) error {
		c.selectHighest = highest
		return nil
	}
}

// WithMaxRestarts bounds how often a module may restart resolution.
// Zero selects the default.
func WithMaxRestarts(n int) Option {
	return func(c *sessionConfig) error {
		c.maxRestarts = n
		return nil
	}
}

// WithReplacement declares that module from ("group:name") is replaced by
// module to.
func WithReplacement(from, to string) Option {
	return func(c *sessionConfig) error {
		src, err := coord.ParseModuleID(from)
		if err != nil {
			return fmt.Errorf("%w: replacement source: %w", ErrInvalidConfig, err)
		}
		dst, err := coord.ParseModuleID(to)
		if err != nil {
			return fmt.Errorf("%w: replacement target: %w", ErrInvalidConfig, err)
		}
		if c.replacements == nil {
			c.replacements = make(modules.ReplacementTable)
		}
		if err := c.replacements.Add(src, dst); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return nil
	}
}

// WithReplacements declares several replacements at once.
func WithReplacements(pairs map[string]string) Option {
	return func(c *sessionConfig) error {
		table, err := modules.ParseReplacements(pairs)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if c.replacements == nil {
			c.replacements = make(modules.ReplacementTable)
		}
		for _, from := range table.Sources() {
			if err := c.replacements.Add(from, table[from]); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
		}
		return nil
	}
}

// WithModuleResolver adds a module conflict resolver. Resolvers added later
// are consulted first, and all of them before the built-in ones.
func WithModuleResolver(r modules.Resolver) Option {
	return func(c *sessionConfig) error {
		if r == nil {
			return errors.New("module resolver must not be nil")
		}
		c.moduleResolvers = append(c.moduleResolvers, r)
		return nil
	}
}

// WithCapabilityResolver adds a capability conflict resolver. Capability
// resolvers run in the order they were added.
func WithCapabilityResolver(r capabilities.Resolver) Option {
	return func(c *sessionConfig) error {
		if r == nil {
			return errors.New("capability resolver must not be nil")
		}
		c.capabilityResolvers = append(c.capabilityResolvers, r)
		return nil
	}
}

// WithVersionComparator replaces the version ordering used to pick the
// highest module version. It must be a total order.
func WithVersionComparator(cmp func(a, b string) int) Option {
	return func(c *sessionConfig) error {
		c.compare = cmp
		return nil
	}
}

// WithLogger sets a structured logger for resolution diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "conflicts")
//	session, err := goconflict.NewSession(goconflict.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *sessionConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *sessionConfig) validate() error {
	if c.configuration == "" {
		return fmt.Errorf("%w: configuration name must not be empty", ErrInvalidConfig)
	}
	if c.maxRestarts < 0 {
		return fmt.Errorf("%w: maxRestarts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *sessionConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newSessionConfig creates a session configuration by applying the given
// options and validating the result.
func newSessionConfig(opts ...Option) (*sessionConfig, error) {
	c := &sessionConfig{configuration: DefaultConfiguration}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}
