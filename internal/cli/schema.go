package cli

import (
	"github.com/spf13/cobra"

	reaform "github.com/goliatone/go-reaform"
	"github.com/goliatone/go-reaform/pkg/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI document describing JSON exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			vocab, err := rootOpts.vocabulary(cfg.VocabularyPath)
			if err != nil {
				return err
			}
			doc, err := schema.Build(cmd.Context(), vocab, reaform.Version)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(doc.JSON()); err != nil {
				return err
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}
}
