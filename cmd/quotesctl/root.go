package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesboard/internal/bootstrap"
	"github.com/jsamuelsen/quotesboard/internal/platform/config"
)

// cli carries flags and the resources opened for a command.
type cli struct {
	profile   string
	configDir string
	database  string

	// extra options, set by tests
	loadOpts []config.Option

	cfg    *config.Config
	logger *slog.Logger
	core   *bootstrap.Core
}

func newRootCmd(opts ...config.Option) *cobra.Command {
	c := &cli{loadOpts: opts}

	root := &cobra.Command{
		Use:           "quotesctl",
		Short:         "Maintain the quote board store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", bootstrap.Profile(), "configuration profile")
	flags.StringVar(&c.configDir, "config-dir", "configs", "directory holding base.yaml and <profile>.yaml")
	flags.StringVar(&c.database, "database", "", "override database.name")

	root.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.importCmd(),
		c.authorCmd(),
		c.quoteCmd(),
	)

	return root
}

// open loads configuration and connects to the store. Every subcommand that
// touches data calls it from PreRunE.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	opts := append([]config.Option{config.WithConfigDir(c.configDir)}, c.loadOpts...)

	cfg, err := bootstrap.LoadConfig(c.profile, opts...)
	if err != nil {
		return err
	}

	if c.database != "" {
		cfg.Database.Name = c.database
	}

	c.cfg = cfg
	c.logger = bootstrap.LoggerTo(cfg, cmd.ErrOrStderr())

	core, err := bootstrap.Open(cmd.Context(), cfg.Database, c.logger)
	if err != nil {
		return err
	}

	c.core = core

	return nil
}

func (c *cli) close(_ *cobra.Command, _ []string) error {
	if c.core == nil {
		return nil
	}

	err := c.core.Close()
	c.core = nil

	return err
}

// dataCmd attaches open and close to cmd.
func (c *cli) dataCmd(cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = c.open
	cmd.PostRunE = c.close

	return cmd
}

func (c *cli) migrateCmd() *cobra.Command {
	return c.dataCmd(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", c.core.DB.Dialect())
			return nil
		},
	})
}
