// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// answerview displays one chat answer from a retrieval-augmented
// assistant: the markdown body with numbered citation markers, and a
// collapsible reference panel listing the cited sources.
//
// Three output modes:
//
// Interactive (default): a full-screen terminal UI. Tab moves focus
// through the reference label, chevron, and chips; Enter or a click
// activates. Selecting a chip opens a card with the cited passage.
//
// Plain (--plain): the normalized answer rendered once to stdout,
// followed by the numbered reference list. Suitable for pipes.
//
// HTML (--html): an HTML fragment with the answer body and a
// references list whose entries are the targets of the citation links.
//
// Answer files may be JSON, JSONC, or CBOR, optionally zstd or lz4
// compressed; the encoding follows the file suffix. "-" reads JSON
// from stdin. --export rewrites the loaded answer in the encoding its
// suffix names.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/answerview/lib/answerfile"
	"github.com/bureau-foundation/answerview/lib/answerui"
	"github.com/bureau-foundation/answerview/lib/citation"
	"github.com/bureau-foundation/answerview/lib/cli"
	"github.com/bureau-foundation/answerview/lib/config"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
	"github.com/bureau-foundation/answerview/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		code, printed := cli.ExitCode(err)
		if printed {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(code)
	}
}

// options holds parsed command-line flags.
type options struct {
	filePath   string
	configPath string
	logOutput  string
	exportPath string
	theme      string
	width      int
	plain      bool
	html       bool
}

func run(args []string, stdout io.Writer) error {
	var flags options

	flagSet := pflag.NewFlagSet("answerview", pflag.ContinueOnError)
	flagSet.StringVarP(&flags.filePath, "file", "f", "", "answer file to display (default: stdin)")
	flagSet.StringVar(&flags.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&flags.logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.StringVar(&flags.exportPath, "export", "", "write the loaded answer to this path and exit; the suffix selects the encoding")
	flagSet.StringVar(&flags.theme, "theme", "", "color theme: dark or light")
	flagSet.IntVar(&flags.width, "width", 0, "maximum answer body width in columns (0: terminal width)")
	flagSet.BoolVar(&flags.plain, "plain", false, "print the rendered answer and references, no interactive UI")
	flagSet.BoolVar(&flags.html, "html", false, "print the answer as an HTML fragment")
	flagSet.BoolP("help", "h", false, "show help")

	if len(args) > 0 && args[0] == "--version" {
		version.Fprint(stdout, "answerview")
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return cli.Validation("%w", err)
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	positional := flagSet.Args()
	switch {
	case len(positional) > 1:
		return cli.Validation("unexpected argument: %s", positional[1])
	case len(positional) == 1 && flags.filePath != "":
		return cli.Validation("answer file given twice: --file %s and %s", flags.filePath, positional[0])
	case len(positional) == 1:
		flags.filePath = positional[0]
	case flags.filePath == "":
		flags.filePath = answerfile.StdinPath
	}

	if flags.plain && flags.html {
		return cli.Validation("--plain and --html are mutually exclusive")
	}

	cfg, err := loadConfig(flagSet, &flags)
	if err != nil {
		return err
	}

	record, err := answerfile.Load(flags.filePath)
	if err != nil {
		return err
	}

	if flags.exportPath != "" {
		if err := answerfile.Save(flags.exportPath, record); err != nil {
			return err
		}
		cli.NewCommandLogger(cfg.LogLevel()).Info("answer exported",
			"from", flags.filePath,
			"to", flags.exportPath,
			"citations", len(record.Citations),
		)
		return nil
	}

	memo := citation.NewMemo(cfg.Cache.Entries)

	switch {
	case flags.html:
		return writeHTML(stdout, memo.Normalize(record))
	case flags.plain:
		return writePlain(stdout, memo.Normalize(record), cfg)
	}
	return runInteractive(record, cfg, memo)
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(flagSet *pflag.FlagSet, flags *options) (*config.Config, error) {
	cfg, err := config.Resolve(flags.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("config file not found: %w", err).
				WithHint("Pass --config with an existing file, or unset " + config.EnvironmentVariable + " to use defaults.")
		}
		return nil, cli.Validation("loading config: %w", err)
	}

	if flagSet.Changed("theme") {
		cfg.Display.Theme = flags.theme
	}
	if flagSet.Changed("width") {
		cfg.Display.MaxWidth = flags.width
	}
	if flagSet.Changed("log-output") {
		cfg.Logging.Output = flags.logOutput
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `answerview: display a chat answer with its cited references.

Reads one answer record (markdown text plus a citation list) and shows
it with numbered citation markers and a collapsible reference panel.

Usage:
  answerview [flags] [FILE]

Examples:
  # Browse an answer interactively
  answerview answer.json

  # Render a compressed answer for a pipe
  answerview --plain answer.cbor.zst | less -R

  # Convert an answer between encodings
  answerview answer.jsonc --export answer.cbor.lz4

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// runInteractive runs the full-screen viewer until the user quits.
//
// Background logging is routed through a TUILogHandler that shows
// records in the status line instead of writing to stderr, which
// would corrupt the alt-screen display. With logging.output set, a
// file handler captures every record as JSON as well.
func runInteractive(record answer.Record, cfg *config.Config, memo *citation.Memo) error {
	level := cfg.LogLevel()
	tuiHandler := answerui.NewTUILogHandler(level)

	var handler slog.Handler = tuiHandler
	if cfg.Logging.Output != "" {
		if err := cfg.EnsurePaths(); err != nil {
			return cli.Internal("%w", err)
		}
		fileHandler, closeFile, err := cli.OpenFileLogHandler(cfg.Logging.Output, level)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", cfg.Logging.Output, err)
		}
		defer closeFile()
		handler = cli.FanoutHandler{tuiHandler, fileHandler}
	}
	logger := slog.New(handler)

	model := newViewer(record, viewerOptions(cfg, memo), logger)

	// Logged before the program is attached: Send blocks until the
	// program is running, so only the file handler sees this record.
	logger.Debug("answer loaded",
		"citations", len(model.answer.Parsed().Citations),
		"references", len(model.answer.ChipLabels()),
	)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	tuiHandler.SetProgram(program)

	_, err := program.Run()
	if err != nil {
		return cli.Internal("running viewer: %w", err)
	}
	hits, misses := memo.Stats()
	logger.Debug("viewer closed", "memo_hits", hits, "memo_misses", misses)
	return nil
}

func viewerOptions(cfg *config.Config, memo *citation.Memo) answerui.Options {
	return answerui.Options{
		Theme:          cfg.Theme(),
		CodeStyle:      cfg.Display.CodeStyle,
		MaxWidth:       cfg.Display.MaxWidth,
		Disclaimer:     cfg.Display.Disclaimer,
		HideDisclaimer: !cfg.Display.ShowDisclaimer,
		Memo:           memo,
	}
}
