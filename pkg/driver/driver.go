// Package driver wires the pipeline stages into sessions and runs the
// front end over many files at once.
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"sigil/pkg/checker"
	"sigil/pkg/config"
	"sigil/pkg/evaluator"
	"sigil/pkg/lexer"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Session owns the registry of one program. Sessions share nothing, so
// independent programs can run in separate sessions concurrently.
type Session struct {
	cfg      *config.Config
	registry *registry.Registry
	logger   *slog.Logger
	output   io.Writer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for stage timings.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput streams each output line to w while the program runs.
func WithOutput(w io.Writer) SessionOption {
	return func(s *Session) { s.output = w }
}

// NewSession creates a session. A nil cfg means config.Default().
func NewSession(cfg *config.Config, opts ...SessionOption) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		cfg:      cfg,
		registry: registry.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the functions and structs recorded by the last stage.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// Tokenize splits src into tokens.
func (s *Session) Tokenize(src *source.SourceFile) ([]lexer.Token, error) {
	start := time.Now()
	tokens, err := lexer.TokenizeWithRadius(src, s.cfg.SnippetRadius)
	s.logStage("tokenize", src, start, err, "tokens", len(tokens))
	return tokens, err
}

// Parse tokenizes and parses src.
func (s *Session) Parse(src *source.SourceFile) (*parser.Program, error) {
	tokens, err := s.Tokenize(src)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	p := parser.NewParser(src, tokens)
	p.SetSnippetRadius(s.cfg.SnippetRadius)
	program, err := p.ParseProgram()
	count := 0
	if program != nil {
		count = len(program.Statements)
	}
	s.logStage("parse", src, start, err, "statements", count)
	return program, err
}

// Analyze runs the semantic checks over program.
func (s *Session) Analyze(program *parser.Program) error {
	start := time.Now()
	err := checker.New(s.registry).Check(program)
	functions, structs := s.registry.Counts()
	s.logStage("analyze", nil, start, err, "functions", functions, "structs", structs)
	return err
}

// Run executes an analyzed program and returns its output lines.
func (s *Session) Run(program *parser.Program) ([]string, error) {
	start := time.Now()
	opts := []evaluator.Option{evaluator.WithMaxOutput(s.cfg.MaxOutput)}
	if s.output != nil {
		opts = append(opts, evaluator.WithWriter(s.output))
	}
	out, err := evaluator.New(s.registry, opts...).Run(program)
	s.logStage("run", nil, start, err, "lines", len(out))
	return out, err
}

// Check runs the front end over src without executing it.
func (s *Session) Check(src *source.SourceFile) (*parser.Program, error) {
	program, err := s.Parse(src)
	if err != nil {
		return nil, err
	}
	if err := s.Analyze(program); err != nil {
		return nil, err
	}
	return program, nil
}

// RunSource runs every stage over src. Output printed before a runtime
// failure is returned alongside the error.
func (s *Session) RunSource(src *source.SourceFile) ([]string, error) {
	program, err := s.Check(src)
	if err != nil {
		return nil, err
	}
	return s.Run(program)
}

// RunString runs code as an unnamed program.
func (s *Session) RunString(code string) ([]string, error) {
	return s.RunSource(source.NewEvalSource(code))
}

// RunFile reads and runs the program at path.
func (s *Session) RunFile(path string) ([]string, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return s.RunSource(src)
}

// ReadSource loads a program from disk.
func ReadSource(path string) (*source.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return source.FromFile(path, string(content)), nil
}

func (s *Session) logStage(stage string, src *source.SourceFile, start time.Time, err error, attrs ...any) {
	debugPrintf("// [Driver] %s done in %s (err=%v)\n", stage, time.Since(start), err)
	attrs = append(attrs, "stage", stage, "elapsed", time.Since(start))
	if src != nil {
		attrs = append(attrs, "source", src.DisplayPath())
	}
	if err != nil {
		attrs = append(attrs, "error", err)
		s.logger.Debug("stage failed", attrs...)
		return
	}
	s.logger.Debug("stage finished", attrs...)
}
