package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/session"
)

type exportOptions struct {
	format string
	outDir string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <draft>",
		Short: "Export a draft as CSV or JSON",
		Long: `Serialize a YAML or JSON draft exactly like the form's export buttons.
The file is named REA_<title>.<ext> and written to --out-dir; without
--out-dir the payload goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "export format (csv|json)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "write the file into this directory")
	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *exportOptions, path string) error {
	format, err := form.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	store, err := loadDraft(path)
	if err != nil {
		return err
	}

	var dl session.Downloader
	if opts.outDir != "" {
		dir := &session.DirDownloader{Dir: opts.outDir}
		defer func() {
			for _, written := range dir.Written {
				rootOpts.Logger().Info("export written", "path", written)
			}
		}()
		dl = dir
	} else {
		dl = session.DownloaderFunc(func(_, _ string, payload []byte) error {
			_, err := cmd.OutOrStdout().Write(payload)
			return err
		})
	}

	s := session.New(session.WithStore(store))
	if _, err := s.Export(format, dl); err != nil {
		return err
	}
	return nil
}
