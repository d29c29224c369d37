package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	reaform "github.com/goliatone/go-reaform"
	"github.com/goliatone/go-reaform/internal/server"
)

type serveOptions struct {
	addr       string
	theme      string
	variant    string
	sessionTTL time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REA form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides REA_ADDR)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (overrides REA_THEME)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "theme variant (overrides REA_THEME_VARIANT)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", 0, "idle session lifetime (overrides REA_SESSION_TTL)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, opts *serveOptions) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("theme") {
		cfg.Theme = opts.theme
	}
	if flags.Changed("variant") {
		cfg.ThemeVariant = opts.variant
	}
	if flags.Changed("session-ttl") {
		cfg.SessionTTL = opts.sessionTTL
	}

	vocab, err := rootOpts.vocabulary(cfg.VocabularyPath)
	if err != nil {
		return err
	}
	srv, err := server.New(ctx, cfg,
		server.WithLogger(rootOpts.Logger()),
		server.WithVocabulary(vocab),
		server.WithVersion(reaform.Version),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
