// specmatrix renders per-host serverspec results as role-set compliance
// matrices: one column per test, one row per host, one matrix per distinct
// set of roles.
//
// Usage:
//
//	specmatrix report.json
//	rspec --format json | specmatrix --host web1
//	specmatrix merge -o report.json web1=web1.json db1=db1.json
//	specmatrix snippet --source-root serverspec ./spec/web/nginx_spec.rb:12
//
// Accepts two input formats (file argument or stdin):
//   - report: JSON array of {"hostname", "results"} records
//   - rspec: a single `rspec --format json` document (needs --host)
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode matrices (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
//
// Exit codes: 0 all hosts pass, 1 failures present, 2 usage or input error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dkoosis/specmatrix/internal/config"
	"github.com/dkoosis/specmatrix/internal/detect"
	"github.com/dkoosis/specmatrix/internal/logging"
	"github.com/dkoosis/specmatrix/internal/version"
	"github.com/dkoosis/specmatrix/pkg/browse"
	"github.com/dkoosis/specmatrix/pkg/mapper"
	"github.com/dkoosis/specmatrix/pkg/matrix"
	"github.com/dkoosis/specmatrix/pkg/pattern"
	"github.com/dkoosis/specmatrix/pkg/render"
	"github.com/dkoosis/specmatrix/pkg/serverspec"
	"github.com/dkoosis/specmatrix/pkg/snippet"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Check for subcommands before flag parsing
	if len(args) > 0 {
		switch args[0] {
		case "merge":
			return runMerge(args[1:], stdout, stderr)
		case "snippet":
			return runSnippet(args[1:], stdout, stderr)
		case "version":
			fmt.Fprintf(stdout, "specmatrix %s (commit %s, built %s)\n", version.Version, version.CommitHash, version.BuildDate)
			return 0
		}
	}

	fs := flag.NewFlagSet("specmatrix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", "", "Output format: auto, terminal, llm, json")
	themeFlag := fs.String("theme", "", "Theme: default, orca, mono")
	sourceRootFlag := fs.String("source-root", "", "Directory spec file paths are relative to")
	hostFlag := fs.String("host", "", "Hostname for a single rspec JSON input")
	interactiveFlag := fs.Bool("interactive", false, "Browse the matrices interactively")
	configFlag := fs.String("config", "", "Path to a .specmatrix.yaml config file")
	verboseFlag := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	flags := config.CliFlags{
		ConfigPath: *configFlag,
		Format:     *formatFlag,
		Theme:      *themeFlag,
		SourceRoot: *sourceRootFlag,
		Verbose:    *verboseFlag,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "interactive" {
			flags.Interactive = *interactiveFlag
			flags.InteractiveSet = true
		}
	})
	cfg, err := config.ResolveConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix: %v\n", err)
		return 2
	}
	log := logging.New(stderr, cfg.LogLevel)
	log.Debug("resolved config",
		"config", cfg.ConfigPath,
		"format", cfg.Format, "format_source", cfg.FormatSource,
		"theme", cfg.Theme, "theme_source", cfg.ThemeSource,
		"source_root", cfg.SourceRoot, "source_root_source", cfg.SourceRootSource)

	input, name, err := readInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix: %v\n", err)
		return 2
	}
	report, err := parseReport(input, *hostFlag)
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix: %s: %v\n", name, err)
		return 2
	}
	logReport(log, report)

	var prelude []pattern.Pattern
	var src snippet.Source = snippet.DirSource{Root: cfg.SourceRoot}
	if _, err := os.Stat(cfg.SourceRoot); err != nil {
		src = nil
		if cfg.SourceRootSource != config.SourceDefault {
			prelude = append(prelude, &pattern.Error{Source: "source-root", Message: err.Error()})
		}
	}

	if cfg.Interactive {
		return runInteractive(report, src, cfg.Theme, stdout, stderr)
	}

	mode := resolveFormat(cfg.Format, stdout)
	sections := matrix.Build(report)
	patterns := append(prelude, mapper.FromSections(sections, mapper.Options{
		Source:      src,
		DetailLines: cfg.DetailLines,
	})...)

	output := selectRenderer(mode, cfg.Theme, stdout).Render(patterns)
	fmt.Fprint(stdout, output)
	return exitCode(patterns)
}

// readInput reads the single file argument, or stdin when there is none or
// it is "-". Returns the input and a name for error messages.
func readInput(args []string, stdin io.Reader) ([]byte, string, error) {
	if len(args) > 1 {
		return nil, "", fmt.Errorf("expected at most one input file, got %d", len(args))
	}
	name := "stdin"
	var (
		input []byte
		err   error
	)
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, name, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(strings.TrimSpace(string(input))) == 0 {
		return nil, name, fmt.Errorf("no input on %s", name)
	}
	return input, name, nil
}

// parseReport decodes input according to its detected format.
func parseReport(input []byte, host string) (serverspec.Report, error) {
	switch detect.Sniff(input) {
	case detect.Report:
		return serverspec.Parse(input)
	case detect.RSpec:
		if host == "" {
			return nil, errors.New("single rspec input needs --host")
		}
		h, err := serverspec.ParseRSpec(host, input)
		if err != nil {
			return nil, err
		}
		return serverspec.Report{h}, nil
	default:
		return nil, errors.New("unrecognized input format (expected report or rspec JSON)")
	}
}

func logReport(log *slog.Logger, report serverspec.Report) {
	st := serverspec.ComputeStats(report)
	log.Info("loaded report", "hosts", st.Hosts, "examples", st.Examples,
		"passed", st.Passed, "failed", st.Failed, "pending", st.Pending)

	unresolved := matrix.Unresolved(report)
	for _, path := range unresolved {
		log.Debug("example outside role/spec layout", "path", path)
	}
	if len(unresolved) > 0 {
		log.Info("skipped examples without a role", "count", len(unresolved))
	}
}

func runInteractive(report serverspec.Report, src snippet.Source, themeName string, stdout, stderr io.Writer) int {
	if !isTTYWriter(stdout) {
		fmt.Fprintf(stderr, "specmatrix: --interactive needs a terminal on stdout\n")
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	theme := browse.DefaultTheme()
	if themeName == "mono" {
		theme = browse.MonoTheme()
	}
	if err := browse.Run(ctx, report, browse.Options{Source: src, Theme: theme}); err != nil {
		fmt.Fprintf(stderr, "specmatrix: %v\n", err)
		return 2
	}
	for _, s := range matrix.Build(report) {
		for _, r := range s.Rows {
			if r.FailureCount > 0 {
				return 1
			}
		}
	}
	return 0
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func selectRenderer(mode, themeName string, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		return render.NewTerminal(render.ThemeByName(themeName), termWidth(w))
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode returns 0 for clean, 1 for failures present.
// Failures propagate through TestTable fail items or Error patterns.
// Summary is display-only, not a decision input.
func exitCode(patterns []pattern.Pattern) int {
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.TestTable:
			for _, r := range v.Results {
				if r.Status == "fail" {
					return 1
				}
			}
		case *pattern.Error:
			return 1
		}
	}
	return 0
}

// --- specmatrix merge subcommand ---

func runMerge(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("specmatrix merge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outFlag := fs.String("o", "", "Write the report to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "Usage: specmatrix merge [-o report.json] [host=]rspec.json ...\n")
		return 2
	}

	b := serverspec.NewReportBuilder()
	for _, arg := range fs.Args() {
		host, path := splitHostArg(arg)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "specmatrix merge: %v\n", err)
			return 2
		}
		if err := b.AddRSpec(host, data); err != nil {
			fmt.Fprintf(stderr, "specmatrix merge: %s: %v\n", path, err)
			return 2
		}
	}

	if *outFlag == "" {
		if _, err := b.WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "specmatrix merge: writing output: %v\n", err)
			return 2
		}
		return 0
	}
	if err := writeReportFile(*outFlag, b); err != nil {
		fmt.Fprintf(stderr, "specmatrix merge: %v\n", err)
		return 2
	}
	return 0
}

// writeReportFile writes the merged report to path. A failed close is an
// error: it may be the only sign the data never reached disk.
func writeReportFile(path string, w io.WriterTo) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// splitHostArg splits "host=path". Without a host the file name, minus its
// extension, names the host.
func splitHostArg(arg string) (host, path string) {
	if h, p, ok := strings.Cut(arg, "="); ok && h != "" {
		return h, p
	}
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base)), arg
}

// --- specmatrix snippet subcommand ---

func runSnippet(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("specmatrix snippet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sourceRoot := fs.String("source-root", "", "Directory spec file paths are relative to")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: specmatrix snippet [--source-root DIR] path:line\n")
		return 2
	}
	path, line, err := parseLocation(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix snippet: %v\n", err)
		return 2
	}

	cfg, err := config.ResolveConfig(config.CliFlags{SourceRoot: *sourceRoot})
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix snippet: %v\n", err)
		return 2
	}
	block, err := snippet.Lookup(snippet.DirSource{Root: cfg.SourceRoot}, path, line)
	if err != nil {
		fmt.Fprintf(stderr, "specmatrix snippet: %v\n", err)
		return 2
	}
	fmt.Fprintln(stdout, strings.Join(block.Numbered(line, 0), "\n"))
	return 0
}

// parseLocation splits "path:line" at the last colon.
func parseLocation(loc string) (string, int, error) {
	i := strings.LastIndex(loc, ":")
	if i <= 0 {
		return "", 0, fmt.Errorf("expected path:line, got %q", loc)
	}
	line, err := strconv.Atoi(loc[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid line in %q: %w", loc, err)
	}
	return loc[:i], line, nil
}
