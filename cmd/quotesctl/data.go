package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesboard/internal/app"
	"github.com/jsamuelsen/quotesboard/internal/domain"
)

func (c *cli) seedCmd() *cobra.Command {
	var ifEmpty bool

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Load authors and quotes from a YAML seed file",
		Long:  "Load authors and quotes from a YAML seed file. Without an argument, database.seed_file is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Database.SeedFile
			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				return errors.New("no seed file given and database.seed_file is empty")
			}

			out := cmd.OutOrStdout()

			if ifEmpty {
				seeded, err := c.core.Seeder.SeedIfEmpty(cmd.Context(), path)
				if err != nil {
					return err
				}

				if !seeded {
					fmt.Fprintln(out, "store already has quotes, nothing seeded")
					return nil
				}

				fmt.Fprintf(out, "seeded from %s\n", path)

				return nil
			}

			seed, err := app.ParseSeedFile(path)
			if err != nil {
				return err
			}

			report, err := c.core.Seeder.Seed(cmd.Context(), seed)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "seeded %d authors and %d quotes\n", report.Authors, report.Quotes)

			return nil
		},
	}

	cmd.Flags().BoolVar(&ifEmpty, "if-empty", false, "only seed when the store holds no quotes")

	return c.dataCmd(cmd)
}

func (c *cli) importCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import random quotes from the remote quote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}

			importer, err := c.core.Importer(c.cfg, c.logger)
			if err != nil {
				return err
			}

			report := importer.Import(cmd.Context(), count)

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d quotes from %s\n",
				report.Imported, report.Requested, c.cfg.Services.Quote.Name)

			if report.Imported == 0 {
				return report.Err()
			}

			for _, err := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", err)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of quotes to fetch")

	return c.dataCmd(cmd)
}

func (c *cli) authorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "author",
		Short: "Create and inspect authors",
	}

	var first, last string

	create := &cobra.Command{
		Use:   "create [raw_name]",
		Short: "Create an author from a raw name or --first/--last",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := domain.RawNameFromParts(first, last)
			if len(args) == 1 {
				if first != "" || last != "" {
					return errors.New("give a raw name or --first/--last, not both")
				}

				raw = args[0]
			}

			author, err := c.core.Authors.Create(cmd.Context(), raw)
			if err != nil {
				return err
			}

			printAuthor(cmd, author)

			return nil
		},
	}

	create.Flags().StringVar(&first, "first", "", "first name")
	create.Flags().StringVar(&last, "last", "", "last name")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			author, err := c.core.Authors.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			printAuthor(cmd, author)

			return nil
		},
	}

	cmd.AddCommand(c.dataCmd(create), c.dataCmd(get))

	return cmd
}

func (c *cli) quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Inspect quotes",
	}

	random := &cobra.Command{
		Use:   "random",
		Short: "Print a random quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.core.Quotes.RandomView(cmd.Context())
			if err != nil {
				return err
			}

			printQuote(cmd, view)

			return nil
		},
	}

	cmd.AddCommand(c.dataCmd(random))

	return cmd
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", raw)
	}

	return uint(id), nil
}

func printAuthor(cmd *cobra.Command, a domain.Author) {
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (%s)\n", a.ID, a.DisplayName(), a.RawName)
}

func printQuote(cmd *cobra.Command, v domain.QuoteView) {
	out := cmd.OutOrStdout()

	if v.Quote.BeforeContext != nil {
		fmt.Fprintf(out, "[%s]\n", *v.Quote.BeforeContext)
	}

	if len(v.Lines) == 1 {
		fmt.Fprintf(out, "%q\n", v.Lines[0].Text)
	} else {
		for _, l := range v.Lines {
			fmt.Fprintf(out, "%s: %s\n", l.Speaker.DisplayName(), l.Text)
		}
	}

	if v.Quote.AfterContext != nil {
		fmt.Fprintf(out, "[%s]\n", *v.Quote.AfterContext)
	}

	fmt.Fprintf(out, "  - %s (quote #%d)\n", v.Attribution().DisplayName(), v.Quote.ID)
}
