// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-policy-viewer browses a policy listing: the policy files known
// to the policy service, their validity, and the validation errors
// reported for each. The listing is read from a JSON, JSONC, YAML or
// CBOR file.
//
// On a terminal it runs an interactive screen with search and paging,
// and by default reloads the listing whenever the file is rewritten.
// With --plain, or when stdout is not a terminal, it prints the
// listing once and exits with status 2 if any policy file is invalid.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/policyview/lib/aclpolicy"
	"github.com/bureau-foundation/policyview/lib/cli"
	"github.com/bureau-foundation/policyview/lib/config"
	"github.com/bureau-foundation/policyview/lib/policyui"
	"github.com/bureau-foundation/policyview/lib/version"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		format     string
		pageSize   int
		search     string
		noPaging   bool
		watch      bool
		plain      bool
		logOutput  string
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("bureau-policy-viewer", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&format, "format", "", "listing format: json, jsonc, yaml or cbor (default: from the file extension)")
	flagSet.IntVar(&pageSize, "page-size", config.DefaultPageSize, "policy files per page")
	flagSet.StringVar(&search, "search", "", "initial search query; wrap in slashes for a regular expression")
	flagSet.BoolVar(&noPaging, "no-paging", false, "show the whole filtered listing instead of one page")
	flagSet.BoolVar(&watch, "watch", true, "reload the listing when the file changes")
	flagSet.BoolVar(&plain, "plain", false, "print the listing as text and exit")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug records")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Bureau binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print(os.Stdout, "bureau-policy-viewer")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) > 1 {
		return cli.Validation("unexpected argument: %s", args[1])
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return cli.Validation("%w", err).
			WithHint("Check the file passed via --config or $" + config.EnvironmentVariable + ".")
	}

	// Flags override the config file only when given explicitly.
	if len(args) == 1 {
		cfg.Viewer.Listing = args[0]
	}
	if flagSet.Changed("format") {
		cfg.Viewer.Format = format
	}
	if flagSet.Changed("page-size") {
		cfg.Viewer.PageSize = pageSize
	}
	if flagSet.Changed("search") {
		cfg.Viewer.Search = search
	}
	if noPaging {
		cfg.Viewer.Paging = false
	}
	if flagSet.Changed("watch") {
		cfg.Viewer.Watch = watch
	}

	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid configuration: %w", err)
	}
	if cfg.Viewer.Listing == "" {
		return cli.Validation("no policy listing given").
			WithHint("Pass the listing file as an argument or set viewer.listing in the config file.")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	files := aclpolicy.NewFiles(aclpolicy.FilesConfig{
		PageSize:      cfg.Viewer.PageSize,
		DisablePaging: !cfg.Viewer.Paging,
		Search:        cfg.Viewer.Search,
	})
	defer files.Close()

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printListing(cli.NewCommandLogger(level), cfg, files)
	}
	return runViewer(cfg, files, level, logOutput)
}

// printListing implements --plain: one render to stdout, with the exit
// status reporting listing validity.
func printListing(logger *slog.Logger, cfg *config.Config, files *aclpolicy.Files) error {
	path := cfg.Viewer.Listing
	listing, err := aclpolicy.ReadListing(path, cfg.ListingFormat())
	if err != nil {
		return listingError(path, err)
	}
	files.Load(listing)
	logger.Debug("listing loaded", "path", path, "policies", len(listing.Policies))

	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if columns, _, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
			width = columns
		}
	}
	if err := policyui.RenderPlain(os.Stdout, files, width); err != nil {
		return cli.Internal("writing listing: %w", err)
	}

	if !files.Valid() {
		return &cli.ExitError{Code: cli.ExitInvalidListing}
	}
	return nil
}

// runViewer runs the interactive screen. Background logging (the
// watcher's reload warnings) is routed through a TUILogHandler that
// shows records in the help bar instead of writing to stderr, which
// would corrupt the alt-screen display. An optional file logger
// captures all records for post-mortem debugging.
func runViewer(cfg *config.Config, files *aclpolicy.Files, level slog.Level, logOutput string) (err error) {
	tuiHandler := policyui.NewTUILogHandler(max(level, slog.LevelInfo))

	var logger *slog.Logger
	if logOutput != "" {
		fileHandler, fileCloser, openErr := cli.OpenFileLogHandler(logOutput)
		if openErr != nil {
			return cli.Validation("cannot open log file %s: %w", logOutput, openErr)
		}
		defer cli.CloseLogFile(fileCloser, logOutput, &err)
		logger = slog.New(cli.FanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	path := cfg.Viewer.Listing
	var updates <-chan aclpolicy.Update
	if cfg.Viewer.Watch {
		watcher, listing, err := aclpolicy.WatchListing(path, cfg.ListingFormat(), logger)
		if err != nil {
			return listingError(path, err)
		}
		defer watcher.Close()
		files.Load(listing)
		updates = watcher.Updates()
	} else {
		listing, err := aclpolicy.ReadListing(path, cfg.ListingFormat())
		if err != nil {
			return listingError(path, err)
		}
		files.Load(listing)
	}

	model := policyui.NewModel(files)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	if updates != nil {
		go func() {
			for update := range updates {
				program.Send(policyui.ReloadMsg{Update: update})
			}
		}()
	}

	_, err = program.Run()
	return err
}

func listingError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("policy listing %s does not exist", path).
			WithHint("Pass the path of a listing file saved from the policy service.")
	}
	return cli.Validation("cannot load policy listing from %s: %w", path, err).
		WithHint("Listings are JSON, JSONC, YAML or CBOR. Use --format when the file extension does not say which.")
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Bureau policy viewer: browse a policy listing and its validation state.

Loads the listing file given as the argument (or viewer.listing from the
config file). On a terminal, opens an interactive screen that reloads
the listing whenever the file is rewritten; otherwise prints the
listing and exits with status 2 if any policy file is invalid.

Usage:
  bureau-policy-viewer [flags] [listing]

Examples:
  # Browse a listing saved from the policy service
  bureau-policy-viewer policies.json

  # Start with a regular expression search, without paging
  bureau-policy-viewer --search '/^admin/' --no-paging policies.yaml

  # Check a listing in CI
  bureau-policy-viewer --plain policies.cbor

Keys:
  j/k, up/down      move the cursor (crosses page boundaries)
  h/l, pgup/pgdown  previous / next page
  g/G               first / last page
  p                 toggle paging
  enter, space      show or hide validation errors
  /                 search (esc clears, enter keeps the query)
  q                 quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
