// Package cli builds the biochemreg command tree.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"biochemreg/internal/blob"
	"biochemreg/internal/config"
	"biochemreg/internal/core"
	"biochemreg/internal/logging"
	"biochemreg/pkg/domain"
)

// Version is stamped at build time with -ldflags "-X biochemreg/internal/cli.Version=...".
var Version = "dev"

type app struct {
	cfgFile  string
	logLevel string

	cfg config.Config
	log *slog.Logger
}

// NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "biochemreg",
		Short: "Merge compound submissions into a biochemistry registry",
		Long: `biochemreg resolves each submitted compound against the registry by
alias, then structure, then name, and either merges it into the matching
compound or creates a new one.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultPath+" when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug|info|warn|error (overrides log.level)")

	root.AddCommand(
		newAddCommand(a),
		newCurateCommand(a),
		newRegistryCommand(a),
		newReportsCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, _, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(cmd.ErrOrStderr(), cfg.Log)
	return nil
}

func (a *app) openRegistry(ctx context.Context) (domain.RegistryStore, error) {
	store, err := core.OpenRegistryStore(ctx, a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.log.Debug("registry store opened", "driver", a.cfg.Storage.Driver)
	return store, nil
}

func (a *app) openReports(ctx context.Context) (blob.Store, error) {
	return blob.Open(ctx, a.cfg.Reports)
}

func closeStore(store domain.RegistryStore, log *slog.Logger) {
	if err := store.Close(); err != nil {
		log.Warn("close registry store", "error", err)
	}
}
