package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"sigil/pkg/config"
	"sigil/pkg/driver"
	"sigil/pkg/errors"
	"sigil/pkg/source"
)

const (
	banner     = "Sigil (:quit or Ctrl+D to exit)"
	promptMain = "> "
	promptCont = ". "
)

// session accumulates accepted chunks. Every chunk re-runs the whole
// program in a fresh driver session; only lines past the ones already shown
// are new.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	accepted []string
	printed  int
}

func newSession(cfg *config.Config, logger *slog.Logger) *session {
	return &session{cfg: cfg, logger: logger}
}

// eval runs chunk after the accepted program. The chunk is kept only if
// the combined program succeeds.
func (s *session) eval(chunk string) ([]string, error) {
	program := strings.Join(append(append([]string{}, s.accepted...), chunk), "\n")
	out, err := driver.NewSession(s.cfg, driver.WithLogger(s.logger)).RunSource(source.NewReplSource(program))

	var fresh []string
	if len(out) > s.printed {
		fresh = out[s.printed:]
	}
	if err != nil {
		return fresh, err
	}
	s.accepted = append(s.accepted, chunk)
	s.printed = len(out)
	return fresh, nil
}

// incomplete reports whether err only says the input stopped early.
func incomplete(err error) bool {
	var syn *errors.SyntaxError
	if stderrors.As(err, &syn) {
		return syn.Token == "EOF"
	}
	var tok *errors.TokenizationError
	if stderrors.As(err, &tok) {
		return strings.HasPrefix(tok.Msg, "unterminated block comment")
	}
	return false
}

// readChunk reads lines until they parse or fail for a reason other than
// running out of input.
func (s *session) readChunk(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if stderrors.Is(err, liner.ErrPromptAborted) {
				b.Reset()
				continue
			}
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		code := b.String()
		if strings.TrimSpace(code) == "" || strings.HasPrefix(strings.TrimSpace(code), ":") {
			return code, nil
		}
		_, perr := driver.NewSession(s.cfg).Parse(source.NewReplSource(code))
		if perr == nil || !incomplete(perr) {
			return code, nil
		}
	}
}

func runRepl(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		n, _ := ln.ReadHistory(f)
		_ = f.Close()
		logger.Debug("history loaded", "path", cfg.HistoryFile, "entries", n)
	}
	defer func() {
		f, err := os.Create(cfg.HistoryFile)
		if err != nil {
			logger.Warn("cannot save history", "path", cfg.HistoryFile, "error", err)
			return
		}
		n, _ := ln.WriteHistory(f)
		_ = f.Close()
		logger.Debug("history saved", "path", cfg.HistoryFile, "entries", n)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := newSession(cfg, logger)
	for {
		code, err := s.readChunk(ln)
		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				fmt.Fprintf(stderr, "Error reading input: %s\n", err)
			}
			fmt.Fprintln(stdout)
			return exitOK
		}

		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return exitOK
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(stdout, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		fresh, err := s.eval(code)
		for _, line := range fresh {
			fmt.Fprintln(stdout, line)
		}
		if err != nil {
			errors.DisplayErrors(stderr, err)
		}
	}
}
