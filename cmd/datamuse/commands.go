package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/datamuse-lookup/internal/app"
	"github.com/samvad-hq/datamuse-lookup/internal/config"
	"github.com/samvad-hq/datamuse-lookup/internal/logger"
	"github.com/samvad-hq/datamuse-lookup/internal/runner"
	"github.com/samvad-hq/datamuse-lookup/pkg/lookups"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	maxResults int
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	rootCmd := &cobra.Command{
		Use:   "datamuse",
		Short: "Query the Datamuse word-finding API",
		Long: `datamuse issues word lookups against the Datamuse API and prints the raw JSON response.

Patterns use * for any number of letters and ? for exactly one unknown letter.
Configuration comes from the environment (MAX_RESULTS, DATAMUSE_BASE_URL, CACHE_TYPE, ...).`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().IntVar(&opts.maxResults, "max", 0, "maximum results (1-1000); overrides MAX_RESULTS")

	rootCmd.AddCommand(
		newSimilarCmd(opts),
		newStartsCmd(opts),
		newStartsEndsCmd(opts),
		newPhraseCmd(opts, "sounds WORD...", "Words that sound like WORD", lookups.KindSoundsLike),
		newPhraseCmd(opts, "spelt WORD...", "Words spelled like WORD (accepts * and ? wildcards)", lookups.KindSpeltLike),
		newPhraseCmd(opts, "suggest PREFIX...", "Autocomplete suggestions for PREFIX", lookups.KindSuggest),
		newBatchCmd(opts),
		newSeedCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "datamuse v%s\n", version)
			},
		},
	)
	return rootCmd
}

// withApp loads config, applies --max and hands a ready App to fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*app.App) error) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxResults = opts.maxResults
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.ErrorObj("shutdown failed", "error", cerr)
		}
	}()

	return fn(a)
}

func runSingle(cmd *cobra.Command, opts *rootOptions, l lookups.Lookup) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return withApp(cmd, opts, func(a *app.App) error {
		body, err := a.Lookup(cmd.Context(), l)
		if err != nil {
			return err
		}
		fmt.Fprintln(opts.out, string(body))
		return nil
	})
}

func joinArgs(args []string) string { return strings.Join(args, " ") }

func newSimilarCmd(opts *rootOptions) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "similar WORD...",
		Short: "Words with a meaning similar to WORD",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lookups.Lookup{ID: "cli", Kind: lookups.KindSimilar, Word: joinArgs(args)}
			switch {
			case start != "" && end != "":
				return fmt.Errorf("--starts and --ends cannot be combined")
			case start != "":
				l.Kind, l.Start = lookups.KindSimilarStartsWith, start
			case end != "":
				l.Kind, l.End = lookups.KindSimilarEndsWith, end
			}
			return runSingle(cmd, opts, l)
		},
	}
	cmd.Flags().StringVar(&start, "starts", "", "only words starting with these letters")
	cmd.Flags().StringVar(&end, "ends", "", "only words ending with these letters")
	return cmd
}

func newStartsCmd(opts *rootOptions) *cobra.Command {
	var missing int
	cmd := &cobra.Command{
		Use:   "starts LETTERS",
		Short: "Words starting with LETTERS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lookups.Lookup{ID: "cli", Kind: lookups.KindStartsWith, Start: args[0]}
			if cmd.Flags().Changed("missing") {
				l.Missing = &missing
			}
			return runSingle(cmd, opts, l)
		},
	}
	cmd.Flags().IntVar(&missing, "missing", 0, "exact number of unknown letters after LETTERS")
	return cmd
}

func newStartsEndsCmd(opts *rootOptions) *cobra.Command {
	var missing int
	cmd := &cobra.Command{
		Use:   "starts-ends START END",
		Short: "Words starting with START and ending with END",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := lookups.Lookup{ID: "cli", Kind: lookups.KindStartsEndingWith, Start: args[0], End: args[1]}
			if cmd.Flags().Changed("missing") {
				l.Missing = &missing
			}
			return runSingle(cmd, opts, l)
		},
	}
	cmd.Flags().IntVar(&missing, "missing", 0, "exact number of unknown letters between START and END")
	return cmd
}

func newPhraseCmd(opts *rootOptions, use, short string, kind lookups.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, opts, lookups.Lookup{ID: "cli", Kind: kind, Word: joinArgs(args)})
		},
	}
}

func printResult(out io.Writer) func(runner.Result) {
	return func(r runner.Result) {
		if r.Err != nil {
			fmt.Fprintf(out, "%s\terror\t%v\n", r.Lookup.ID, r.Err)
			return
		}
		fmt.Fprintf(out, "%s\t%s\n", r.Lookup.ID, r.Body)
	}
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Run every lookup declared in a YAML/JSON file",
		Long:  "Run every lookup declared under `lookups:` in a YAML/JSON file.\n\nSupported kinds: " + lookups.KindList() + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ls, err := lookups.LoadBatch(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app.App) error {
				return a.RunBatch(cmd.Context(), ls, printResult(opts.out))
			})
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "seed URL",
		Short: "Look up similar words for the words found on an HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				ls, err := a.Seed(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				return a.RunBatch(cmd.Context(), ls, printResult(opts.out))
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of seed words (0 for all)")
	return cmd
}
