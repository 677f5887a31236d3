package source

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSnippetRadius is how many runes of context a snippet keeps on each
// side of the highlighted span.
const DefaultSnippetRadius = 40

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "script.sg", "<stdin>", "<eval>")
	Path    string // Full file path (empty for REPL/eval)
	Content string // NFC-normalized source text
	lines   []string
}

// NewSourceFile creates a new source file. The content is normalized to NFC
// so that a precomposed and a decomposed accent occupy the same column.
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: norm.NFC.String(content),
	}
}

// NewEvalSource creates a source file for -e input
func NewEvalSource(content string) *SourceFile {
	return NewSourceFile("<eval>", "", content)
}

// NewReplSource creates a source file for REPL input
func NewReplSource(content string) *SourceFile {
	return NewSourceFile("<repl>", "", content)
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return NewSourceFile("<stdin>", "", content)
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 1-based line, or "" when out of range.
func (sf *SourceFile) Line(n int) string {
	lines := sf.Lines()
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// Snippet returns up to radius runes on each side of the byte span
// [start, end) with the span itself wrapped in brackets. Newlines and tabs in
// the context are flattened to spaces so the snippet stays on one line.
// An empty span (end of input) is rendered as "[]".
func (sf *SourceFile) Snippet(start, end, radius int) string {
	if sf == nil {
		return ""
	}
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}
	content := sf.Content
	start = clamp(start, 0, len(content))
	end = clamp(end, start, len(content))

	before := []rune(content[:start])
	if len(before) > radius {
		before = before[len(before)-radius:]
	}
	after := []rune(content[end:])
	if len(after) > radius {
		after = after[:radius]
	}

	var b strings.Builder
	b.WriteString(flatten(string(before)))
	b.WriteByte('[')
	b.WriteString(flatten(content[start:end]))
	b.WriteByte(']')
	b.WriteString(flatten(string(after)))
	return b.String()
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
