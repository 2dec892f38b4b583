package goconflict

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/diagnostics"
	"github.com/albertocavalcante/go-conflict/modules"
	"github.com/albertocavalcante/go-conflict/outcome"
	"github.com/albertocavalcante/go-conflict/ranges"
)

// Session resolves the conflicts of one configuration. The graph builder
// registers modules and capabilities as it discovers them and drains the
// pending conflicts between traversal steps.
//
// A Session is not safe for concurrent use. Independent sessions share no
// state and may run on separate goroutines.
type Session struct {
	cfg          *sessionConfig
	logger       *slog.Logger
	tracker      *ranges.Tracker
	modules      *modules.Handler
	capabilities *capabilities.Handler
	collector    *diagnostics.Collector
	recorder     *outcome.Recorder
}

// NewSession creates a session configured by opts.
func NewSession(opts ...Option) (*Session, error) {
	cfg, err := newSessionConfig(opts...)
	if err != nil {
		return nil, err
	}

	logger := cfg.log().With("configuration", cfg.configuration)
	tracker := ranges.NewTracker(logger)

	mcfg := modules.Config{
		Tracker:     tracker,
		Logger:      logger,
		MaxRestarts: cfg.maxRestarts,
		Compare:     cfg.compare,
	}
	if len(cfg.replacements) > 0 {
		mcfg.Replacements = cfg.replacements
	}
	mh := modules.NewHandler(mcfg)
	for _, r := range cfg.moduleResolvers {
		mh.RegisterResolver(r)
	}

	ch := capabilities.NewHandler(capabilities.Config{
		AutoUpgrade: cfg.autoUpgrade,
		Logger:      logger,
	})
	for _, r := range cfg.capabilityResolvers {
		ch.RegisterResolver(r)
	}
	if cfg.selectHighest {
		ch.RegisterResolver(&capabilities.HighestVersionResolver{})
	}

	return &Session{
		cfg:          cfg,
		logger:       logger,
		tracker:      tracker,
		modules:      mh,
		capabilities: ch,
		collector:    diagnostics.NewCollector(),
		recorder:     outcome.NewRecorder(cfg.configuration),
	}, nil
}

// Configuration returns the configuration name.
func (s *Session) Configuration() string {
	return s.cfg.configuration
}

// Tracker returns the session's range intersection tracker. The graph builder
// folds every range selector it meets through it before choosing candidates.
func (s *Session) Tracker() *ranges.Tracker {
	return s.tracker
}

// RegisterModule records the candidates found for module.
func (s *Session) RegisterModule(module coord.ModuleID, candidates []modules.Candidate) conflict.PotentialConflict[coord.ModuleID] {
	return s.modules.RegisterModule(module, candidates)
}

// RegisterCapability records that candidate provides capability, together
// with the implicit providers of the same capability identity.
func (s *Session) RegisterCapability(candidate capabilities.Candidate, capability coord.Capability, implicit []capabilities.Candidate) conflict.PotentialConflict[coord.CapabilityID] {
	return s.capabilities.RegisterCandidate(candidate, capability, implicit)
}

// HasModuleConflicts reports whether a module conflict is pending.
func (s *Session) HasModuleConflicts() bool {
	return s.modules.HasConflicts()
}

// HasCapabilityConflicts reports whether a capability conflict is pending.
func (s *Session) HasCapabilityConflicts() bool {
	return s.capabilities.HasConflicts()
}

// HasConflicts reports whether any conflict is pending.
func (s *Session) HasConflicts() bool {
	return s.HasModuleConflicts() || s.HasCapabilityConflicts()
}

// ResolveNextModule resolves the oldest pending module conflict, records the
// decision and hands the result to action.
//
// When fail-on-version-conflict is enabled, a selection between several
// versions is noted for the report returned by Finish. Resolution itself
// carries on so that every conflict of the session is reported.
func (s *Session) ResolveNextModule(action func(modules.Result)) error {
	return s.modules.ResolveNext(func(res modules.Result) {
		s.recorder.RecordModule(res)
		if s.cfg.failOnVersionConflict && !res.IsRestart() {
			versions := lo.Uniq(lo.Map(res.Candidates, func(c modules.Candidate, _ int) string {
				return c.Version()
			}))
			if len(versions) > 1 {
				s.collector.Record(s.cfg.configuration, res.Module, versions)
			}
		}
		if action != nil {
			action(res)
		}
	})
}

// ResolveNextCapability resolves the oldest pending capability conflict,
// records the decision and hands the result to action.
func (s *Session) ResolveNextCapability(action func(capabilities.Result)) error {
	return s.capabilities.ResolveNextConflict(func(res capabilities.Result) {
		s.recorder.RecordCapability(res)
		if action != nil {
			action(res)
		}
	})
}

// Outcome returns the decisions recorded so far.
func (s *Session) Outcome() *outcome.Outcome {
	return s.recorder.Outcome()
}

// Conflicts returns the version conflicts noted in fail-on-version-conflict
// mode.
func (s *Session) Conflicts() []diagnostics.Conflict {
	return s.collector.Conflicts()
}

// Finish ends the session. In fail-on-version-conflict mode it returns a
// *diagnostics.VersionConflictError listing every noted conflict.
func (s *Session) Finish() error {
	if err := s.collector.Err(); err != nil {
		s.logger.Debug("version conflicts found", "count", s.collector.Len())
		return err
	}
	return nil
}
