package source

import "testing"

func TestNormalizesToNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	sf := NewEvalSource(decomposed)
	if sf.Content != "caf\u00e9" {
		t.Errorf("expected precomposed content, got %q", sf.Content)
	}
}

func TestDisplayPathAndLines(t *testing.T) {
	sf := FromFile("/tmp/demo/prog.sg", "^^ 1;\n^^ 2;\n")
	if sf.Name != "prog.sg" || sf.DisplayPath() != "/tmp/demo/prog.sg" || sf.Path != "/tmp/demo/prog.sg" {
		t.Errorf("unexpected file metadata %+v", sf)
	}
	if sf.Line(2) != "^^ 2;" || sf.Line(0) != "" || sf.Line(9) != "" {
		t.Errorf("unexpected lines %q", sf.Lines())
	}
	for _, s := range []*SourceFile{NewEvalSource(""), NewReplSource(""), NewStdinSource("")} {
		if s.Path != "" || s.DisplayPath() != s.Name {
			t.Errorf("%s should not be a file", s.Name)
		}
	}
}

func TestSnippet(t *testing.T) {
	sf := NewEvalSource("abc\tdef\nghi")
	tests := []struct {
		start, end, radius int
		want               string
	}{
		{4, 5, 2, "c [d]ef"},
		{7, 8, 3, "def[ ]ghi"},
		{0, 1, 2, "[a]bc"},
		{11, 11, 2, "hi[]"},
		{-3, 99, 1, "[abc def ghi]"},
	}
	for _, tt := range tests {
		if got := sf.Snippet(tt.start, tt.end, tt.radius); got != tt.want {
			t.Errorf("Snippet(%d, %d, %d) = %q, want %q", tt.start, tt.end, tt.radius, got, tt.want)
		}
	}
	var nilFile *SourceFile
	if nilFile.Snippet(0, 1, 1) != "" {
		t.Errorf("nil source should give an empty snippet")
	}
}
