package main

import (
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the output format",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := jsonfile.ParseFormat(format)
			if err != nil {
				return err
			}
			schema, err := jsonfile.Schema(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(schema, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "grouped", "Output format: grouped or jsonl")
	return cmd
}
