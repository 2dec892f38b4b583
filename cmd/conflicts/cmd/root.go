// Package cmd implements the conflicts command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	goconflict "github.com/albertocavalcante/go-conflict"
)

const (
	Name = "conflicts"

	// LogLevelEnvVar sets the default of --log-level.
	LogLevelEnvVar = "CONFLICTS_LOG_LEVEL"

	defaultLogLevel = "warn"
)

type globalFlags struct {
	config                string
	logLevel              string
	configuration         string
	failOnVersionConflict bool
	autoUpgrade           bool
	selectHighest         bool
	maxRestarts           int
	replacements          map[string]string

	logger *slog.Logger
}

// RootCmd builds the conflicts command tree writing to stdout and stderr.
func RootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           Name,
		Short:         "Resolve the conflicts of dependency graph scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return g.initLogging(stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	logLevel, ok := os.LookupEnv(LogLevelEnvVar)
	if !ok {
		logLevel = defaultLogLevel
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&g.config, "config", "c", "", "YAML configuration file")
	f.StringVar(&g.logLevel, "log-level", logLevel, "log level: debug, info, warn or error (env "+LogLevelEnvVar+")")
	f.StringVar(&g.configuration, "configuration", "", "name of the resolved configuration")
	f.BoolVar(&g.failOnVersionConflict, "fail-on-version-conflict", false, "fail when a module resolved between several versions")
	f.BoolVar(&g.autoUpgrade, "auto-upgrade-capabilities", false, "evict providers of older capability versions first")
	f.BoolVar(&g.selectHighest, "select-highest-capability", false, "settle capability conflicts by the highest provider version")
	f.IntVar(&g.maxRestarts, "max-restarts", 0, "restart limit per module (0 for the default)")
	f.StringToStringVar(&g.replacements, "replace", nil, "module replacements as group:old=group:new")

	cmd.AddCommand(
		resolveCmd(g),
		explainCmd(g),
		diffCmd(g),
	)
	return cmd
}

func (g *globalFlags) initLogging(w io.Writer) error {
	level, err := log.ParseLevel(g.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", g.logLevel, err)
	}
	g.logger = slog.New(log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: Name,
	}))
	return nil
}

// options merges the configuration file with the flags set on the command
// line. Flags win.
func (g *globalFlags) options(cmd *cobra.Command) ([]goconflict.Option, error) {
	var opts []goconflict.Option
	if g.config != "" {
		c, err := goconflict.LoadConfig(g.config)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", g.config, err)
		}
		opts = append(opts, c.Options()...)
	}

	flags := cmd.Flags()
	if flags.Changed("configuration") {
		opts = append(opts, goconflict.WithConfigurationName(g.configuration))
	}
	if flags.Changed("fail-on-version-conflict") {
		opts = append(opts, goconflict.WithFailOnVersionConflict(g.failOnVersionConflict))
	}
	if flags.Changed("auto-upgrade-capabilities") {
		opts = append(opts, goconflict.WithAutoUpgradeCapabilities(g.autoUpgrade))
	}
	if flags.Changed("select-highest-capability") {
		opts = append(opts, goconflict.WithSelectHighestCapability(g.selectHighest))
	}
	if flags.Changed("max-restarts") {
		opts = append(opts, goconflict.WithMaxRestarts(g.maxRestarts))
	}
	if len(g.replacements) > 0 {
		opts = append(opts, goconflict.WithReplacements(g.replacements))
	}
	if g.logger != nil {
		opts = append(opts, goconflict.WithLogger(g.logger))
	}
	return opts, nil
}
