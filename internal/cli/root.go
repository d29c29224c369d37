// Package cli implements the rea command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	reaform "github.com/goliatone/go-reaform"
	"github.com/goliatone/go-reaform/internal/config"
	"github.com/goliatone/go-reaform/pkg/catalog"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	EnvFiles   []string
	Vocabulary string

	logger *slog.Logger
}

// NewRootCommand creates the root command for the rea CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "rea",
		Short:         "Catalogue Open Educational Resources (REA)",
		Long:          "Fill, export and validate REA metadata from the terminal or a browser form.",
		Version:       reaform.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "dotenv files to load (default .env, .env.local)")
	cmd.PersistentFlags().StringVar(&opts.Vocabulary, "vocabulary", "", "vocabulary YAML overriding the embedded one")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the command logger. Subcommands executed without the root
// pre-run get a discarding logger.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		o.logger = newLogger(io.Discard, false)
	}
	return o.logger
}

// loadConfig resolves configuration from dotenv files and the environment.
func (o *RootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.EnvFiles...)
}

// vocabulary resolves the vocabulary override from the flag, then the given
// config path, falling back to the embedded one.
func (o *RootOptions) vocabulary(configured string) (*catalog.Vocabulary, error) {
	path := o.Vocabulary
	if path == "" {
		path = configured
	}
	if path == "" {
		return catalog.Default()
	}
	vocab, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	o.Logger().Debug("vocabulary override loaded", "path", path)
	return vocab, nil
}
