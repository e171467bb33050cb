package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newReportsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect audit reports in the configured report sink",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list [prefix]",
			Short: "List stored reports",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sink, err := a.openReports(cmd.Context())
				if err != nil {
					return err
				}
				prefix := ""
				if len(args) == 1 {
					prefix = args[0]
				}
				infos, err := sink.List(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
				for _, info := range infos {
					_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Key, info.Size, info.LastModified.Format("2006-01-02T15:04:05Z07:00"))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "show <key>",
			Short: "Print a stored report",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sink, err := a.openReports(cmd.Context())
				if err != nil {
					return err
				}
				_, rc, err := sink.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				defer func() { _ = rc.Close() }()
				_, err = io.Copy(cmd.OutOrStdout(), rc)
				return err
			},
		},
		&cobra.Command{
			Use:   "rm <key>",
			Short: "Delete a stored report",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sink, err := a.openReports(cmd.Context())
				if err != nil {
					return err
				}
				ok, err := sink.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("report %s not found", args[0])
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return err
			},
		},
	)
	return cmd
}
