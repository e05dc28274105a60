// Command segmenter explores ICP segment datasets from the terminal. It
// shares the service layer with the web server, so filters, sorting and
// exports behave identically in both.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"icpcli/internal/config"
	"icpcli/internal/exporter"
	"icpcli/internal/infrastructure"
	"icpcli/internal/services"
	"icpcli/internal/validation"
	"icpcli/pkg/contracts"
	"icpcli/pkg/contracts/domain"
)

type cliOptions struct {
	datasetPath string
	logLevel    string

	roles      []string
	industries []string
	locations  []string
	states     []string
	cities     []string

	sortColumn string
	descending bool
	limit      int

	format string
	output string
}

func main() {
	godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:     "segmenter",
		Short:   "Explore and export ICP segment datasets",
		Version: contracts.Version,
		Long: `segmenter loads an ICP segment dataset (CSV or XLSX), applies
categorical filters, and prints or exports the filtered view with its
aggregate summaries.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.datasetPath, "dataset", "", "dataset file path (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVocabCommand(opts))
	rootCmd.AddCommand(newViewCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "role filter (repeatable, substring token match)")
	cmd.Flags().StringSliceVar(&opts.industries, "industry", nil, "industry filter (repeatable)")
	cmd.Flags().StringSliceVar(&opts.locations, "location", nil, "location filter (repeatable)")
	cmd.Flags().StringSliceVar(&opts.states, "state", nil, "state filter (repeatable)")
	cmd.Flags().StringSliceVar(&opts.cities, "city", nil, "city filter (repeatable)")
	cmd.Flags().StringVar(&opts.sortColumn, "sort", "", "sort column (default pool_size when present)")
	cmd.Flags().BoolVar(&opts.descending, "desc", false, "sort descending")
}

func (o *cliOptions) selection() domain.Selection {
	return domain.Selection{
		Roles:      o.roles,
		Industries: o.industries,
		Locations:  o.locations,
		States:     o.states,
		Cities:     o.cities,
	}
}

func (o *cliOptions) sortSpec() domain.SortSpec {
	return domain.SortSpec{Column: o.sortColumn, Descending: o.descending}
}

// newService builds an explorer service against the configured (or
// flag-overridden) dataset path.
func (o *cliOptions) newService() (*services.ExplorerService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.datasetPath != "" {
		cfg.Dataset.DefaultPath = o.datasetPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(o.logLevel),
	}))

	return services.NewExplorerService(cfg, logger), nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newVocabCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the selectable filter values per dimension",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}

			vocab, err := svc.Vocabulary(infrastructure.EnsureTraceID(cmd.Context()))
			if err != nil {
				return err
			}

			printVocab(cmd.OutOrStdout(), "Roles", vocab.Roles)
			printVocab(cmd.OutOrStdout(), "Industries", vocab.Industries)
			printVocab(cmd.OutOrStdout(), "Locations", vocab.Locations)
			printVocab(cmd.OutOrStdout(), "States", vocab.States)
			printVocab(cmd.OutOrStdout(), "Cities", vocab.Cities)
			return nil
		},
	}
}

func printVocab(w io.Writer, dimension string, values []string) {
	fmt.Fprintf(w, "%s (%d):\n", dimension, len(values))
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
	fmt.Fprintln(w)
}

func newViewCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Filter the dataset and print the resulting view with summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}

			view, err := svc.View(infrastructure.EnsureTraceID(cmd.Context()), opts.selection(), opts.sortSpec())
			if err != nil {
				return err
			}

			printView(cmd.OutOrStdout(), view, opts.limit)
			return nil
		},
	}

	addFilterFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum rows to print (0 for all)")
	return cmd
}

func printView(w io.Writer, view *domain.ViewModel, limit int) {
	fmt.Fprintf(w, "%d records (sorted by %s", view.TotalRows, view.SortColumn)
	if view.Descending {
		fmt.Fprint(w, ", descending")
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printRow(tw, view.Columns)
	rows := view.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, row := range rows {
		printRow(tw, row)
	}
	tw.Flush()
	if limit > 0 && view.TotalRows > limit {
		fmt.Fprintf(w, "... %d more rows\n", view.TotalRows-limit)
	}
	fmt.Fprintln(w)

	printSummaries(w, view.Summaries)
}

func printRow(w io.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, f)
	}
	fmt.Fprintln(w)
}

func printSummaries(w io.Writer, s domain.Summaries) {
	if s.PoolSize != nil {
		fmt.Fprintf(w, "Pool size: mean %d, median %d", s.PoolSize.Mean, s.PoolSize.Median)
		if s.PoolSize.Mode != nil {
			fmt.Fprintf(w, ", mode %d", *s.PoolSize.Mode)
		}
		fmt.Fprintln(w)
	}

	printCounts(w, "Industries", s.Industries)
	if s.Cities != nil {
		if s.Cities.NoData {
			fmt.Fprintln(w, "Top cities: no data available")
		} else {
			printCounts(w, "Top cities", s.Cities.Values)
		}
	}
	if s.States != nil {
		if s.States.NoData {
			fmt.Fprintln(w, "Top states: no data available")
		} else {
			printCounts(w, "Top states", s.States.Values)
		}
	}

	if len(s.TopRoles) > 0 {
		fmt.Fprintln(w, "Top roles by location:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, rc := range s.TopRoles {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", rc.Location, rc.Role, rc.Count)
		}
		tw.Flush()
	}
}

func printCounts(w io.Writer, title string, counts []domain.ValueCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, vc := range counts {
		fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
	}
	tw.Flush()
}

func newExportCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered dataset to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}

			format, err := exporter.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			outPath := opts.output
			if outPath == "" {
				outPath = format.SuggestedFilename()
			}

			if dir := filepath.Dir(outPath); dir != "." {
				v := validation.NewDatasetFileValidator(nil)
				if err := v.EnsureOutputDirectory(dir); err != nil {
					return err
				}
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}

			if _, err := svc.Export(infrastructure.EnsureTraceID(cmd.Context()), f, opts.selection(), opts.sortSpec(), format); err != nil {
				f.Close()
				os.Remove(outPath)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
			return nil
		},
	}

	addFilterFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.format, "format", "csv", "export format (csv or xlsx)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path")
	return cmd
}
