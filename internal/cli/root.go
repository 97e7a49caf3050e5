// Package cli implements the ghostline command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/ghostline/internal/app"
	"github.com/dshills/ghostline/internal/logging"
	"github.com/dshills/ghostline/internal/terminal"
)

// ErrNotTerminal is returned when the editor is started without a terminal.
var ErrNotTerminal = errors.New("ghostline needs an interactive terminal (use 'ghostline complete' in scripts)")

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Provider   string
}

func (o *RootOptions) appOptions(file string) app.Options {
	return app.Options{
		ConfigPath: o.ConfigPath,
		File:       file,
		LogLevel:   o.LogLevel,
		Provider:   o.Provider,
	}
}

// NewRootCommand creates the ghostline command. Without a subcommand it
// opens the editor.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ghostline [file]",
		Short: "Ghostline - a terminal editor with inline AI completion",
		Long: `Ghostline edits a single file and suggests code as you type.

Suggestions appear as dimmed ghost text after the cursor. Tab accepts the
whole suggestion, Ctrl+Right accepts the next word and Esc dismisses it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.LogLevel == "" {
				return nil
			}
			if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return runEditor(cmd.Context(), opts, file)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Provider, "provider", "", "completion provider (none|openai|anthropic|gemini|http|lua)")

	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewVersionCommand(info))

	return cmd
}

func runEditor(ctx context.Context, opts *RootOptions, file string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	application, err := app.New(opts.appOptions(file))
	if err != nil {
		return err
	}
	defer application.Close()

	screen, err := terminal.NewScreen()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx, screen)
}
