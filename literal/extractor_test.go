package literal

import (
	"strings"
	"testing"

	"github.com/coregx/legrep/syntax"
)

func checkLiterals(t *testing.T, seq *Seq, expected []string) {
	t.Helper()
	if seq.Len() != len(expected) {
		t.Errorf("Expected %d literals, got %d", len(expected), seq.Len())
		for i := 0; i < seq.Len(); i++ {
			t.Logf("  Got: %q", string(seq.Get(i).Bytes))
		}
		return
	}
	for i, exp := range expected {
		if got := string(seq.Get(i).Bytes); got != exp {
			t.Errorf("Literal %d: expected %q, got %q", i, exp, got)
		}
	}
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern  string
		want     []string
		complete bool
	}{
		{"hello", []string{"hello"}, true},
		{"HELLO", []string{"hello"}, true},
		{"hello:d", []string{"hello"}, false},
		{"^hello", []string{"hello"}, false},
		{"hello$", []string{"hello"}, false},
		{"ab+c", []string{"ab"}, false},
		{"a+b", []string{"a"}, false},
		{"ab*c", []string{"a"}, false},
		{"[xy]z", []string{"x", "y"}, false},
		{"[Y-X]z", nil, false},
		{":d+", nil, false},
		{".abc", nil, false},
		{"a*bc", nil, false},
		{"a-bc", nil, false},
		{"", nil, false},
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := ex.ExtractPrefixes(syntax.MustParse(tt.pattern))
			checkLiterals(t, seq, tt.want)
			if seq.Len() == 1 && seq.Get(0).Complete != tt.complete {
				t.Errorf("Complete = %v, want %v", seq.Get(0).Complete, tt.complete)
			}
		})
	}
}

func TestExtractPrefixesClassLimit(t *testing.T) {
	ex := New(ExtractorConfig{MaxLiteralLen: 64, MaxClassSize: 16})
	checkLiterals(t, ex.ExtractPrefixes(syntax.MustParse(":d")),
		[]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"})

	ex = New(ExtractorConfig{MaxLiteralLen: 3, MaxClassSize: 16})
	checkLiterals(t, ex.ExtractPrefixes(syntax.MustParse("abcdef")), []string{"abc"})
	if ex.ExtractPrefixes(syntax.MustParse("abcdef")).Get(0).Complete {
		t.Error("truncated prefix must not be complete")
	}
}

func TestExtractRequired(t *testing.T) {
	tests := []struct {
		pattern  string
		want     string
		complete bool
	}{
		{"hello", "hello", true},
		{"^hello", "hello", false},
		{"hello$", "hello", false},
		{"err:d+ at", " at", false},
		{"ab:dcdef", "cdef", false},
		{"ab+c", "bc", false},
		{"xab+", "xab", false},
		{"a+", "a", false},
		{"a*", "", false},
		{"foo.*barbaz", "barbaz", false},
		{"[abc]", "", false},
		{"", "", false},
		{`\$\.x`, "$.x", true},
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			lit := ex.ExtractRequired(syntax.MustParse(tt.pattern))
			if string(lit.Bytes) != tt.want {
				t.Errorf("ExtractRequired(%q) = %q, want %q", tt.pattern, lit.Bytes, tt.want)
			}
			if lit.Complete != tt.complete {
				t.Errorf("ExtractRequired(%q).Complete = %v, want %v", tt.pattern, lit.Complete, tt.complete)
			}
			if lit.Bytes == nil {
				t.Error("Bytes must be non-nil")
			}
		})
	}
}

func TestExtractRequiredTruncates(t *testing.T) {
	ex := New(ExtractorConfig{MaxLiteralLen: 4})
	lit := ex.ExtractRequired(syntax.MustParse(strings.Repeat("x", 10)))
	if string(lit.Bytes) != "xxxx" || lit.Complete {
		t.Errorf("got %v, want truncated incomplete literal", lit)
	}
}

func TestStartTable(t *testing.T) {
	ex := New(DefaultConfig())

	if _, ok := ex.StartTable(syntax.MustParse("a*b")); ok {
		t.Error("a* can start anywhere")
	}
	if _, ok := ex.StartTable(syntax.MustParse("")); ok {
		t.Error("empty pattern can start anywhere")
	}

	table, ok := ex.StartTable(syntax.MustParse(":a+x"))
	if !ok {
		t.Fatal(":a+ has a start table")
	}
	for c := 0; c < 256; c++ {
		want := c >= 'a' && c <= 'z'
		if table[c] != want {
			t.Errorf("table[%q] = %v, want %v", c, table[c], want)
		}
	}
}
