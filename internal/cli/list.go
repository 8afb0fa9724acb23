package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brianmacy/szconfigtool/internal/view"
)

// NewListCommand lists the records of a table, optionally filtered.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List the records of a configuration table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			records, err := svc.List(args[0], filter)
			if err != nil {
				return reportError(f, err)
			}
			f.VerboseLog("generation %d, %d records", svc.Generation(), len(records))

			if opts.Format == "json" {
				return f.Success(records)
			}
			return renderTable(f, records)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "case-insensitive substring filter")
	return cmd
}

// NewTablesCommand lists the known table names.
func NewTablesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the known configuration tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			tables := svc.Tables()
			if opts.Format == "json" {
				return f.Success(tables)
			}
			for _, t := range tables {
				fmt.Fprintln(f.Writer, t)
			}
			return nil
		},
	}
}

// renderTable prints records as an aligned column listing. Child lists are
// summarized by their length; JSON output carries them in full.
func renderTable(f *OutputFormatter, records []*view.ProjectedRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(f.Writer, "no records")
		return nil
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	header := records[0].Fields()
	for i, name := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, name)
	}
	fmt.Fprintln(w)

	for _, rec := range records {
		for i, name := range rec.Fields() {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			value, _ := rec.Get(name)
			if children, ok := value.([]*view.ProjectedRecord); ok {
				fmt.Fprintf(w, "(%d)", len(children))
				continue
			}
			fmt.Fprintf(w, "%v", value)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
