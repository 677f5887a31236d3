package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"sigil/pkg/config"
	"sigil/pkg/driver"
	"sigil/pkg/errors"
	"sigil/pkg/source"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sigil", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exprFlag := fs.String("e", "", "Run the given program text and exit")
	checkFlag := fs.Bool("check", false, "Tokenize, parse and analyze the given files without running them")
	configFlag := fs.String("config", "", "Path to a YAML config file (default: $"+config.EnvVar+")")
	verboseFlag := fs.Bool("v", false, "Log pipeline stages at debug level")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sigil [flags] [file ...]\n\nA file named - is read from standard input. With no file and no -e,\nstarts the REPL.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Resolve(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "sigil: %v\n", err)
		return exitUsage
	}
	if *verboseFlag {
		cfg.LogLevel = "debug"
	}
	logger := cfg.Logger(stderr)
	slog.SetDefault(logger)
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}

	switch {
	case *checkFlag:
		if fs.NArg() == 0 || *exprFlag != "" {
			fmt.Fprintf(stderr, "Usage: sigil -check <file> [file ...]\n")
			return exitUsage
		}
		return checkFiles(cfg, logger, fs.Args(), stderr)
	case *exprFlag != "":
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "Usage: sigil -e \"program\" takes no file arguments\n")
			return exitUsage
		}
		s := driver.NewSession(cfg, driver.WithLogger(logger), driver.WithOutput(stdout))
		_, err := s.RunString(*exprFlag)
		return report(err, stderr)
	case fs.NArg() > 0:
		for _, path := range fs.Args() {
			s := driver.NewSession(cfg, driver.WithLogger(logger), driver.WithOutput(stdout))
			var err error
			if path == "-" {
				err = runStdin(s, stdin)
			} else {
				_, err = s.RunFile(path)
			}
			if err != nil {
				return report(err, stderr)
			}
		}
		return exitOK
	default:
		return runRepl(cfg, logger, stdout, stderr)
	}
}

func runStdin(s *driver.Session, stdin io.Reader) error {
	content, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}
	_, err = s.RunSource(source.NewStdinSource(string(content)))
	return err
}

func checkFiles(cfg *config.Config, logger *slog.Logger, paths []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, _, err := driver.CheckFiles(ctx, cfg, paths, driver.WithLogger(logger))
	code := exitOK
	for _, r := range results {
		if r.Err != nil {
			if c := report(r.Err, stderr); c > code {
				code = c
			}
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "sigil: %v\n", err)
		return exitSoftware
	}
	return code
}

// report prints err and maps it to an exit code: 65 for rejected programs,
// 70 for runtime and I/O failures.
func report(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	errors.DisplayErrors(stderr, err)
	var se errors.SigilError
	if stderrors.As(err, &se) && se.Kind() != "Runtime" {
		return exitDataErr
	}
	return exitSoftware
}
