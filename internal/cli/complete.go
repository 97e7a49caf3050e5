package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/ghostline/internal/app"
	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/config"
	"github.com/dshills/ghostline/internal/document"
)

// CompleteOptions holds flags for the complete command.
type CompleteOptions struct {
	*RootOptions
	Line    int
	Column  int
	Timeout time.Duration
	JSON    bool
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "complete [file|-]",
		Short: "Print one completion for a position in a file",
		Long: `Print one completion for a position in a file.

The file is read from stdin when omitted or "-". Line and column are
1-based; without them the completion is requested at the end of the text.
The snippet is trimmed against the text before the position, exactly as the
editor would show it.

Example:
  ghostline complete main.py --line 12 --column 5
  printf 'def add(a, b):\n' | ghostline complete --provider anthropic`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			return runComplete(cmd, opts, name)
		},
	}

	cmd.Flags().IntVar(&opts.Line, "line", 0, "1-based line (default: last line)")
	cmd.Flags().IntVar(&opts.Column, "column", 0, "1-based column (default: end of line)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "request timeout (default: completion.timeout)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print a JSON object instead of the bare snippet")

	return cmd
}

func runComplete(cmd *cobra.Command, opts *CompleteOptions, name string) error {
	text, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	appOpts := opts.appOptions("")
	if appOpts.ConfigPath == "" {
		appOpts.ConfigPath = config.DefaultPath()
	}
	cfg, err := app.LoadConfig(appOpts)
	if err != nil {
		return err
	}
	fn, err := backend.New(cfg.BackendConfig())
	if err != nil {
		return err
	}

	line, column := position(text, opts.Line, opts.Column)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = cfg.Completion.Timeout.Std()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	snippet, err := app.CompleteOnce(ctx, fn, text, line, column)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if !opts.JSON {
		_, err := io.WriteString(out, snippet)
		return err
	}
	body, err := sjson.Set("", "snippet", snippet)
	if err == nil {
		body, err = sjson.Set(body, "line", line)
	}
	if err == nil {
		body, err = sjson.Set(body, "column", column)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, body)
	return err
}

func readInput(stdin io.Reader, name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// position fills in a missing line or column from the end of text.
func position(text string, line, column int) (int, int) {
	doc := document.New(text)
	if line <= 0 {
		line = doc.LineCount()
	}
	if column <= 0 {
		column = len(doc.LineText(line-1)) + 1
	}
	return line, column
}
