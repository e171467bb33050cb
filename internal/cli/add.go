package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biochemreg/internal/curator"
	"biochemreg/internal/metrics"
	"biochemreg/internal/run"
)

type batchFlags struct {
	source    string
	curator   string
	namesOnly bool
	report    bool
	save      bool
	strict    bool
	formats   []string
}

func newAddCommand(a *app) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Merge a tab-delimited batch from an external database",
		Long: `Merge a tab-delimited batch into the registry.

The header must name the "id" and "names" columns; "inchi", "inchikey",
"smile"/"smiles", "mass", "charge" and "formula" are optional. Nothing is
saved unless --save is given.

Examples:
  # Dry run, print what would happen
  biochemreg add kegg.tsv --source KEGG

  # Write kegg.rpt and persist the registry
  biochemreg add kegg.tsv -d KEGG --report --save

  # Only match by name
  biochemreg add kegg.tsv -d KEGG --names-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.source == "" {
				return fmt.Errorf("--source is required")
			}
			return a.runBatch(cmd, args[0], f)
		},
	}
	addBatchFlags(cmd, f)
	cmd.Flags().StringVarP(&f.source, "source", "d", "", "external database the records come from (alias source)")
	return cmd
}

func newCurateCommand(a *app) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "curate <file>",
		Short: "Merge a curated batch under a validated curator login",
		Long: `Merge a curated batch. The curator login is checked against the
configured users API before any record is read, and is used as the alias
source for every record.

Example:
  biochemreg curate fixes.tsv --curator jdoe --report --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.curator == "" {
				return fmt.Errorf("--curator is required")
			}
			return a.runBatch(cmd, args[0], f)
		},
	}
	addBatchFlags(cmd, f)
	cmd.Flags().StringVarP(&f.curator, "curator", "u", "", "curator login, validated and used as alias source")
	return cmd
}

func addBatchFlags(cmd *cobra.Command, f *batchFlags) {
	cmd.Flags().BoolVarP(&f.namesOnly, "names-only", "n", false, "skip alias and structure matching")
	cmd.Flags().BoolVarP(&f.report, "report", "r", false, "write the <input>.rpt audit report to the report sink")
	cmd.Flags().BoolVarP(&f.save, "save", "s", false, "persist the merged registry")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "abort on the first malformed record (overrides match.strict)")
	cmd.Flags().StringSliceVar(&f.formats, "formats", nil, "structure lookup priority, e.g. inchikey,smiles (overrides match.formats)")
}

func (a *app) runBatch(cmd *cobra.Command, path string, f *batchFlags) error {
	ctx := cmd.Context()
	match := a.cfg.Match
	if cmd.Flags().Changed("strict") {
		match.Strict = f.strict
	}
	if cmd.Flags().Changed("formats") {
		match.Formats = f.formats
	}
	formats, err := match.StructureFormats()
	if err != nil {
		return err
	}

	in, err := os.Open(path) // #nosec G304 -- operator-supplied input path
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	store, err := a.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store, a.log)

	rec, err := metrics.New()
	if err != nil {
		return err
	}
	runner := run.NewRunner(store)
	runner.Metrics = rec
	runner.Logger = a.log
	if f.report {
		if runner.Reports, err = a.openReports(ctx); err != nil {
			return err
		}
	}
	if f.curator != "" {
		runner.Curators = curator.NewValidator(a.cfg.Curator.APIURL, curator.WithToken(a.cfg.Curator.Token))
	}

	sum, err := runner.Run(ctx, run.Options{
		Input:       in,
		InputName:   path,
		Source:      f.source,
		Curator:     f.curator,
		NamesOnly:   f.namesOnly,
		Strict:      match.Strict,
		Formats:     formats,
		WriteReport: f.report,
		Save:        f.save,
	})
	if err != nil {
		return err
	}
	if err := sum.Write(cmd.OutOrStdout()); err != nil {
		return err
	}
	if textfile := a.cfg.Metrics.Textfile; textfile != "" {
		if err := rec.WriteTextfile(textfile); err != nil {
			return err
		}
	}
	return nil
}
