package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/notify"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/renderers/tui"
	"github.com/goliatone/go-reaform/pkg/session"
)

// newPromptDriver is swapped in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

type fillOptions struct {
	draft     string
	saveDraft string
	outDir    string
	format    string
	print     bool
}

// NewFillCommand creates the interactive fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a REA record interactively in the terminal",
		Long: `Prompt for every field of the record in order, then offer to save and
export. Exports are written to --out-dir. Start from an existing draft with
--draft and keep the answers with --save-draft.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFill(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.draft, "draft", "", "YAML or JSON draft to start from")
	cmd.Flags().StringVar(&opts.saveDraft, "save-draft", "", "write the answers to this YAML or JSON draft")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", ".", "directory for exported files")
	cmd.Flags().StringVar(&opts.format, "format", "json", "format printed with --print (csv|json)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "print the final record to stdout")
	return cmd
}

func runFill(cmd *cobra.Command, rootOpts *RootOptions, opts *fillOptions) error {
	format, err := form.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	vocab, err := rootOpts.vocabulary(cfg.VocabularyPath)
	if err != nil {
		return err
	}
	store, err := loadDraft(opts.draft)
	if err != nil {
		return err
	}

	logger := rootOpts.Logger()
	dl := &session.DirDownloader{Dir: opts.outDir}
	renderer, err := tui.New(
		tui.WithPromptDriver(newPromptDriver(cmd.ErrOrStderr())),
		tui.WithOutputFormat(format),
		tui.WithDownloader(dl),
	)
	if err != nil {
		return err
	}

	s := session.New(
		session.WithStore(store),
		session.WithNotifier(notify.New(notify.WithDelay(cfg.NotifyAfter))),
	)
	out, err := renderer.Render(cmd.Context(), render.Page{Session: s, Vocabulary: vocab}, render.RenderOptions{})
	if err != nil {
		return err
	}
	for _, path := range dl.Written {
		logger.Info("export written", "path", path)
	}

	if opts.saveDraft != "" {
		if err := writeDraft(store, opts.saveDraft); err != nil {
			return err
		}
		logger.Info("draft written", "path", opts.saveDraft)
	}
	if opts.print {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return nil
}
