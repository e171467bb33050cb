package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"biochemreg/pkg/domain"
)

func newRegistryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Move registry snapshots in and out of the configured store",
	}
	cmd.AddCommand(newRegistryImportCommand(a), newRegistryExportCommand(a), newRegistryStatsCommand(a))
	return cmd
}

func newRegistryImportCommand(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Load a JSON snapshot into the store",
		Long: `Load a JSON snapshot (compounds, names, aliases, structures) into the
configured store. A non-empty registry is only overwritten with --replace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			store, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store, a.log)

			current, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if len(current.Compounds) > 0 && !replace {
				return fmt.Errorf("registry holds %d compounds; use --replace to overwrite", len(current.Compounds))
			}
			if err := store.Save(ctx, snap); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d compounds\n", len(snap.Compounds))
			return err
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite a non-empty registry")
	return cmd
}

func newRegistryExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [snapshot.json]",
		Short: "Write the registry as a JSON snapshot (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store, a.log)
			snap, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if len(args) == 0 {
				return writeSnapshot(cmd.OutOrStdout(), snap)
			}
			out, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := writeSnapshot(out, snap); err != nil {
				_ = out.Close()
				return err
			}
			return out.Close()
		},
	}
}

func newRegistryStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print table sizes of the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store, a.log)
			snap, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			var names, aliases int
			for _, n := range snap.Names {
				names += len(n)
			}
			for _, bySource := range snap.Aliases {
				for _, ids := range bySource {
					aliases += len(ids)
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Compounds: %d\nNames: %d\nAliases: %d\nStructures: %d\n",
				len(snap.Compounds), names, aliases, len(snap.Structures))
			return err
		},
	}
}

func readSnapshot(path string) (domain.Snapshot, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied snapshot path
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	var snap domain.Snapshot
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	snap.Normalize()
	return snap, nil
}

func writeSnapshot(w io.Writer, snap domain.Snapshot) error {
	snap.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
