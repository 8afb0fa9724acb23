package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCommand adds a record from a JSON payload in the public vocabulary.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <table> <json>",
		Short: "Add a record to a configuration table",
		Long: "Add a record. The payload uses public field names, e.g.\n" +
			`  szconfigtool add CFG_DSRC '{"id": 1001, "dataSource": "CUSTOMERS"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			payload, err := parsePayload(args[1])
			if err != nil {
				return reportError(f, err)
			}

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			if err := svc.Add(args[0], payload); err != nil {
				return reportError(f, err)
			}
			return f.Success(fmt.Sprintf("added to %s", args[0]))
		},
	}
}

// NewUpdateCommand merges a JSON patch onto an existing record.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <key> <json>",
		Short: "Update a record identified by id or code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			payload, err := parsePayload(args[2])
			if err != nil {
				return reportError(f, err)
			}

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			if err := svc.Update(args[0], args[1], payload); err != nil {
				return reportError(f, err)
			}
			return f.Success(fmt.Sprintf("updated %s[%s]", args[0], args[1]))
		},
	}
}

// NewDeleteCommand removes a record, optionally cascading to dependents.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "delete <table> <key>",
		Short: "Delete a record identified by id or code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(cmd, opts)

			svc, closer, err := newService(opts)
			if err != nil {
				return reportError(f, err)
			}
			defer closer.Close()

			if err := svc.Delete(args[0], args[1], cascade); err != nil {
				return reportError(f, err)
			}
			return f.Success(fmt.Sprintf("deleted %s[%s]", args[0], args[1]))
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "also delete dependent records")
	return cmd
}
