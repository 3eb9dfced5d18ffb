package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/holocron/internal/browse"
	"github.com/jask/holocron/internal/catalog"
	"github.com/jask/holocron/internal/config"
	"github.com/jask/holocron/internal/logging"
	"github.com/jask/holocron/internal/tui"
)

type rootFlags struct {
	configPath string
	page       int
	maxPage    int
	logFile    string
	debug      bool
	legacyRace bool
}

// runFunc starts the program; tests swap it out.
type runFunc func(ctx context.Context, cfg config.Config) error

func newRootCmd(run runFunc) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "holocron",
		Short:         "Browse the Star Wars character catalog page by page",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, f, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file (default $HOLOCRON_CONFIG or ~/.config/holocron/config.toml)")
	fl.IntVar(&f.page, "page", 1, "page to open first")
	fl.IntVar(&f.maxPage, "max-page", 9, "last page offered by next (0 = no limit)")
	fl.StringVar(&f.logFile, "log-file", "", "append JSON logs to this file")
	fl.BoolVar(&f.debug, "debug", false, "log at debug level")
	fl.BoolVar(&f.legacyRace, "legacy-race", false, "apply page responses in arrival order, even stale ones")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("holocron " + config.Version)
		},
	})
	return cmd
}

// applyFlags lets explicitly set flags override file and env settings.
func applyFlags(cmd *cobra.Command, f rootFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("page") {
		cfg.Browse.StartPage = f.page
	}
	if fl.Changed("max-page") {
		cfg.Catalog.MaxPage = f.maxPage
	}
	if fl.Changed("log-file") {
		cfg.Log.Path = f.logFile
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}
	if f.legacyRace {
		cfg.Browse.StaleResponses = config.StaleApply
	}
}

func runProgram(ctx context.Context, cfg config.Config) error {
	log, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	p, err := buildProgram(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.Info().Str("version", config.Version).Str("base_url", cfg.Catalog.BaseURL).Msg("starting")
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited")
		return err
	}
	return nil
}

func buildProgram(ctx context.Context, cfg config.Config, log zerolog.Logger) (*tea.Program, error) {
	client, err := catalog.NewClient(catalog.Options{
		BaseURL:   cfg.Catalog.BaseURL,
		Resource:  cfg.Catalog.Resource,
		Timeout:   cfg.Catalog.Timeout,
		RetryMax:  cfg.Catalog.RetryMax,
		UserAgent: cfg.Catalog.UserAgent,
	}, log)
	if err != nil {
		return nil, err
	}
	policy, err := browse.ParseStalePolicy(cfg.Browse.StaleResponses)
	if err != nil {
		return nil, err
	}
	ctrl := browse.NewController(client, browse.New(cfg.Browse.StartPage, cfg.Catalog.MaxPage, policy), log)
	keys := tui.NewKeyRegistry(tui.ApplyActionKeybindings(tui.DefaultKeyBindings(), cfg.Keys))

	return tea.NewProgram(tui.New(ctx, ctrl, keys, log),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	), nil
}
