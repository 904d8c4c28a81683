// Command ingest builds a candidate dataset from local CSV/XLSX files,
// prints the KPI summary, and writes the CSV export for a region.
//
// Usage:
//
//	go run ./cmd/ingest data/north.csv data/south.xlsx --city nagpur --policy fallback
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/recruit-map-etl/internal/adapter/tabular"
	"github.com/couchcryptid/recruit-map-etl/internal/config"
	"github.com/couchcryptid/recruit-map-etl/internal/dashboard"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/observability"
	"github.com/couchcryptid/recruit-map-etl/internal/pipeline"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type options struct {
	city   string
	out    string
	policy string
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Normalize and geocode candidate files, then export a region as CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.city, "city", "", "region to export (default: all regions)")
	cmd.Flags().StringVar(&opts.out, "out", "", "export path, - for stdout (default: <selection>_data.csv)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "unresolved city policy: drop or fallback (default: UNRESOLVED_CITY_POLICY)")
	return cmd
}

func run(ctx context.Context, opts *options, paths []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.policy != "" {
		if cfg.UnresolvedPolicy, err = domain.ParsePolicy(opts.policy); err != nil {
			return err
		}
	}

	logger := observability.NewCLILogger(cfg)
	p := pipeline.New(
		tabular.NewParser(),
		domain.NewResolver(cfg.UnresolvedPolicy, cfg.Fallback),
		nil,
		logger,
		observability.NewMetrics(),
	)

	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Ingesting files"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		p.OnProgress(func(done, _ int) { _ = bar.Set(done) })
	}

	uploads := make([]pipeline.Upload, len(paths))
	for i, path := range paths {
		uploads[i] = pipeline.Upload{
			Name: filepath.Base(path),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		}
	}

	ds, err := p.Ingest(ctx, uuid.NewString(), uploads)
	if err != nil {
		return err
	}
	for _, n := range ds.Notices {
		fmt.Fprintf(os.Stderr, "warning: %s\n", n)
	}

	records := dashboard.Filter(ds, opts.city)
	printSummary(stdout, dashboard.Summarize(ds, opts.city, records), dashboard.Regions(ds))

	out := opts.out
	if out == "" {
		out = dashboard.ExportFilename(opts.city)
	}
	if out == "-" {
		return dashboard.WriteCSV(stdout, ds, records)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := dashboard.WriteCSV(f, ds, records); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	fmt.Fprintf(stdout, "\nwrote %d records to %s\n", len(records), out)
	return nil
}

func printSummary(w io.Writer, s dashboard.Summary, regions []dashboard.Region) {
	fmt.Fprintf(w, "%s\n\n", s.Selection)
	fmt.Fprintf(w, "  %-18s %d\n", "Total Candidates", s.Total)
	fmt.Fprintf(w, "  %-18s %d\n", "Locations", s.Locations)
	fmt.Fprintf(w, "  %-18s %s\n", "Primary Role", s.PrimaryRole)
	fmt.Fprintf(w, "  %-18s %d\n", "Sources", s.Sources)
	fmt.Fprintf(w, "  %-18s %d\n", "Files Merged", s.FilesMerged)

	if len(s.Roles) > 0 {
		fmt.Fprintf(w, "\nRole Breakdown\n")
		for _, r := range s.Roles {
			fmt.Fprintf(w, "  %-30s %d\n", r.Role, r.Count)
		}
	}
	if len(regions) > 0 {
		fmt.Fprintf(w, "\nRegions\n")
		for _, r := range regions {
			fmt.Fprintf(w, "  %-30s %d\n", r.Label, r.Count)
		}
	}
}
