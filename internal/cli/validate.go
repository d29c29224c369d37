package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	reaform "github.com/goliatone/go-reaform"
	"github.com/goliatone/go-reaform/pkg/schema"
)

// ErrInvalidExport is returned when a file does not match the export schema.
var ErrInvalidExport = errors.New("export does not match the REA schema")

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <export.json>...",
		Short: "Check JSON exports against the REA schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			invalid := 0
			for _, path := range args {
				payload, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				err = doc.ValidateExport(cmd.Context(), payload)
				if err == nil {
					fmt.Fprintf(out, "✓ %s\n", path)
					continue
				}
				invalid++
				var verr *schema.ValidationError
				if !errors.As(err, &verr) {
					fmt.Fprintf(out, "✗ %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "✗ %s\n", path)
				for _, issue := range verr.Issues {
					location := issue.Path
					if location == "" {
						location = "/"
					}
					fmt.Fprintf(out, "  %s: %s\n", location, issue.Message)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d file(s)", ErrInvalidExport, invalid, len(args))
			}
			return nil
		},
	}
}
