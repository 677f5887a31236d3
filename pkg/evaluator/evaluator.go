// Package evaluator executes a checked program by walking its AST. Each
// function call runs in its own frame on an explicit frame stack; returns
// propagate as Outcome values and failures as errors.
package evaluator

import (
	"fmt"
	"io"

	"sigil/pkg/errors"
	"sigil/pkg/parser"
	"sigil/pkg/registry"
	"sigil/pkg/value"
)

const debugEvaluator = false

func debugPrintf(format string, args ...interface{}) {
	if debugEvaluator {
		fmt.Printf("[Evaluator Debug] "+format+"\n", args...)
	}
}

// DefaultMaxCallDepth bounds recursion so that runaway recursion surfaces as
// a RuntimeError instead of exhausting the goroutine stack.
const DefaultMaxCallDepth = 10000

// DefaultMaxConstructionLength caps n in string(n) and array<T>(n).
const DefaultMaxConstructionLength = 1 << 20

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxOutput fails the run once more than n lines would be printed.
// Zero means unlimited.
func WithMaxOutput(n int) Option {
	return func(e *Evaluator) { e.maxOutput = n }
}

// WithMaxCallDepth overrides DefaultMaxCallDepth.
func WithMaxCallDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxCallDepth = n
		}
	}
}

// WithMaxConstructionLength overrides DefaultMaxConstructionLength.
func WithMaxConstructionLength(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxLength = n
		}
	}
}

// WithWriter also writes each output line to w as it is produced.
func WithWriter(w io.Writer) Option {
	return func(e *Evaluator) { e.writer = w }
}

// Evaluator runs programs. It is not safe for concurrent use; independent
// runs need independent evaluators.
type Evaluator struct {
	registry *registry.Registry
	frames   []*frame
	output   []string

	maxOutput    int
	maxCallDepth int
	maxLength    int
	writer       io.Writer
}

// New creates an evaluator that records declarations into reg.
func New(reg *registry.Registry, opts ...Option) *Evaluator {
	if reg == nil {
		reg = registry.New()
	}
	e := &Evaluator{
		registry:     reg,
		maxCallDepth: DefaultMaxCallDepth,
		maxLength:    DefaultMaxConstructionLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes program from a clean state and returns its output lines.
// On a RuntimeError the lines printed before the failure are returned too.
func (e *Evaluator) Run(program *parser.Program) ([]string, error) {
	e.registry.Reset()
	e.frames = []*frame{newFrame("<main>")}
	e.output = []string{}

	_, err := e.execStatements(program.Statements)
	return e.output, err
}

// Run is a convenience wrapper over a fresh Evaluator.
func Run(reg *registry.Registry, program *parser.Program, opts ...Option) ([]string, error) {
	return New(reg, opts...).Run(program)
}

// Depth returns the number of active frames, including the top level.
func (e *Evaluator) Depth() int {
	return len(e.frames)
}

func (e *Evaluator) current() *frame {
	return e.frames[len(e.frames)-1]
}

// pushFrame starts a call to function; the returned func pops it.
func (e *Evaluator) pushFrame(function string) (func(), error) {
	if len(e.frames) >= e.maxCallDepth {
		return nil, errors.NewRuntimeError("maximum call depth of %d exceeded in %s", e.maxCallDepth, function)
	}
	e.frames = append(e.frames, newFrame(function))
	debugPrintf("push frame %s (depth %d)", function, len(e.frames))
	return func() {
		e.frames = e.frames[:len(e.frames)-1]
		debugPrintf("pop frame %s (depth %d)", function, len(e.frames))
	}, nil
}

func (e *Evaluator) emit(v value.Value) error {
	if e.maxOutput > 0 && len(e.output) >= e.maxOutput {
		return errors.NewRuntimeError("output limit of %d lines exceeded", e.maxOutput)
	}
	line := v.String()
	e.output = append(e.output, line)
	if e.writer != nil {
		if _, err := fmt.Fprintln(e.writer, line); err != nil {
			return errors.NewRuntimeError("writing output").CausedBy(err)
		}
	}
	return nil
}
