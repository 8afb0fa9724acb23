package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianmacy/szconfigtool/internal/view"
)

// NewGetCommand fetches a single record by id or code.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Show one record by id or code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			rec, err := svc.Get(args[0], args[1])
			if err != nil {
				return reportError(f, err)
			}

			if opts.Format == "json" {
				return f.Success(rec)
			}
			return renderRecord(f, rec, "")
		},
	}
}

// renderRecord prints one record as field: value lines, indenting nested
// child records beneath their list field.
func renderRecord(f *OutputFormatter, rec *view.ProjectedRecord, indent string) error {
	for _, name := range rec.Fields() {
		value, _ := rec.Get(name)
		if children, ok := value.([]*view.ProjectedRecord); ok {
			fmt.Fprintf(f.Writer, "%s%s:\n", indent, name)
			for _, child := range children {
				if err := renderRecord(f, child, indent+"  "); err != nil {
					return err
				}
				fmt.Fprintln(f.Writer, indent+"  -")
			}
			continue
		}
		fmt.Fprintf(f.Writer, "%s%s: %v\n", indent, name, value)
	}
	return nil
}

// parsePayload decodes a JSON object argument into a public-field payload.
func parsePayload(raw string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	return payload, nil
}
