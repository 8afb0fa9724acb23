package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brianmacy/szconfigtool/internal/engine"
)

// NewSaveCommand persists the current document as a named snapshot.
func NewSaveCommand(opts *RootOptions) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current configuration as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			id, err := svc.Save(comment)
			if err != nil {
				return reportError(f, err)
			}
			if opts.Format == "json" {
				return f.Success(map[string]string{"config_id": id})
			}
			return f.Success(fmt.Sprintf("saved configuration %s", id))
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "snapshot comment")
	return cmd
}

// NewLoadCommand replaces the working document with a saved snapshot.
func NewLoadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <config-id>",
		Short: "Load a saved configuration snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			if err := svc.Load(args[0]); err != nil {
				return reportError(f, err)
			}
			return f.Success(fmt.Sprintf("loaded configuration %s", args[0]))
		},
	}
}

// NewSnapshotsCommand lists saved configuration snapshots.
func NewSnapshotsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List saved configuration snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			eng, err := engine.Open(opts.DBPath)
			if err != nil {
				return reportError(f, &ExitError{Code: ExitCommandError, Message: "open configuration database", Err: err})
			}
			defer eng.Close()

			snaps, err := eng.ListSnapshots()
			if err != nil {
				return reportError(f, err)
			}

			if opts.Format == "json" {
				return f.Success(snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(f.Writer, "no snapshots")
				return nil
			}
			w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "config_id\tcreated_at\tcomment")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ConfigID, s.CreatedAt, s.Comment)
			}
			return w.Flush()
		},
	}
}
