package legrep

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/legrep/syntax"
)

// TestCompile tests basic compilation and the error taxonomy
func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{"simple literal", "hello", nil},
		{"empty", "", nil},
		{"classes", ":a:d:n: ", nil},
		{"quantifiers", "a*b+c-", nil},
		{"anchors", "^abc$", nil},
		{"set", "[^a-z0-9]", nil},
		{"unknown class", ":x", syntax.ErrUnknownClass},
		{"unterminated", "[abc", syntax.ErrUnterminatedBracket},
		{"empty bracket", "[]", syntax.ErrEmptyBracket},
		{"dangling", "*a", syntax.ErrDanglingQuantifier},
		{"double", "a**", syntax.ErrDoubleQuantifier},
		{"trailing escape", `a\`, syntax.ErrTrailingEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Compile(%q) error = %v", tt.pattern, err)
				}
				if re.String() != tt.pattern {
					t.Errorf("String() = %q, want %q", re.String(), tt.pattern)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.pattern, err, tt.wantErr)
			}
			if re != nil {
				t.Errorf("Compile(%q) returned a Regex alongside the error", tt.pattern)
			}
		})
	}
}

func TestCompileTooComplex(t *testing.T) {
	expr := strings.Repeat("a", 300)
	if _, err := Compile(expr); !errors.Is(err, syntax.ErrPatternTooComplex) {
		t.Errorf("default config: got %v, want %v", err, syntax.ErrPatternTooComplex)
	}

	config := DefaultConfig()
	config.MaxAtoms = 0
	if _, err := CompileWithConfig(expr, config); err != nil {
		t.Errorf("unlimited config: %v", err)
	}
}

// TestMustCompile tests panic on invalid pattern
func TestMustCompile(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile() did not panic on invalid pattern")
		}
		if !strings.HasPrefix(r.(string), "legrep: Compile(`[`): ") {
			t.Errorf("panic message = %q", r)
		}
	}()

	MustCompile("[")
}

// TestMatch tests Match and MatchString
func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"hello", "say Hello world", true},
		{"hello", "goodbye world", false},
		{"^abc", "xabc", false},
		{"abc$", "abcx", false},
		{"fo*$", "foo", true},
		{"fo*bar$", "fooooobar", true},
		{"[^xyz]", "xyz", false},
		{"[z-a]", "anything", false},
		{`\$`, "costs $5", true},
		{":d+:a", "version 42b", true},
		{"", "x", true},
		{"", "", false},
		{"a*", "", false},
		{"x-y-z-", "q", true},
		{"colou-r", "COLOR", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
			}
			if got := re.Match([]byte(tt.input)); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchDoesNotModifyInput(t *testing.T) {
	re := MustCompile("abc")
	line := []byte("xxABCxx")
	if !re.Match(line) {
		t.Fatal("expected match")
	}
	if string(line) != "xxABCxx" {
		t.Errorf("input modified: %q", line)
	}
}

// TestPrefiltersNeverChangeAnswers compares every prefilter path against the
// bare engine on random patterns and lines.
func TestPrefiltersNeverChangeAnswers(t *testing.T) {
	tokens := []string{"a", "b", "c", "e", "r", ".", ":a", ":d", ": ", "[ab]", "[^b]", "[a-c]", "[0-9]", `\$`}
	quants := []string{"", "", "", "*", "+", "-"}
	lineBytes := "abcerABCER01 $-"

	plain := DefaultConfig()
	plain.EnablePrefilter = false
	r := rand.New(rand.NewSource(5))

	for i := 0; i < 1000; i++ {
		var expr strings.Builder
		if r.Intn(5) == 0 {
			expr.WriteByte('^')
		}
		for n := r.Intn(6); n > 0; n-- {
			expr.WriteString(tokens[r.Intn(len(tokens))])
			expr.WriteString(quants[r.Intn(len(quants))])
		}
		if r.Intn(5) == 0 {
			expr.WriteByte('$')
		}

		fast := MustCompile(expr.String())
		slow, err := CompileWithConfig(expr.String(), plain)
		if err != nil {
			t.Fatal(err)
		}

		// Enough lines per pattern to get the trackers past warmup.
		for j := 0; j < 300; j++ {
			line := make([]byte, r.Intn(16))
			for k := range line {
				line[k] = lineBytes[r.Intn(len(lineBytes))]
			}
			if got, want := fast.Match(line), slow.Match(line); got != want {
				t.Fatalf("pattern %q line %q: prefiltered %v, plain %v", expr.String(), line, got, want)
			}
		}
	}
}

func TestConcurrentMatch(t *testing.T) {
	re := MustCompile("err:d+ at :a+$")
	lines := []string{
		"err42 at foo",
		"ERR7 AT BAR",
		"err at foo",
		"warn1 at foo",
		"xx err99 at zz",
	}
	want := []bool{true, true, false, false, true}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				for j, line := range lines {
					if got := re.MatchString(line); got != want[j] {
						t.Errorf("MatchString(%q) = %v, want %v", line, got, want[j])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"a.b*c", `a\.b\*c`},
		{"^x$", `\^x\$`},
		{`c:\dir[1]-2+`, `c\:\\dir\[1]\-2\+`},
	}
	for _, tt := range tests {
		got := QuoteMeta(tt.in)
		if got != tt.want {
			t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
		re := MustCompile(got)
		if !re.MatchString("<" + tt.in + ">") {
			t.Errorf("QuoteMeta(%q) does not match its own text", tt.in)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"negative atoms", func(c *Config) { c.MaxAtoms = -1 }, "MaxAtoms"},
		{"huge visited", func(c *Config) { c.MaxVisitedBits = 1 << 31 }, "MaxVisitedBits"},
		{"zero literal len", func(c *Config) { c.MaxLiteralLen = 0 }, "MaxLiteralLen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Errorf("Validate() = %v, want field %s", err, tt.field)
			}
			if _, err := CompileWithConfig("a", c); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("CompileWithConfig accepted an invalid config: %v", err)
			}
		})
	}

	c := DefaultConfig()
	c.EnablePrefilter = false
	c.MaxLiteralLen = 0
	if err := c.Validate(); err != nil {
		t.Errorf("MaxLiteralLen is ignored without prefilters, got %v", err)
	}
}

func TestPatternAccessor(t *testing.T) {
	re := MustCompile("^a+b$")
	p := re.Pattern()
	if !p.AnchorStart || !p.AnchorEnd || len(p.Atoms) != 2 {
		t.Errorf("Pattern() = %+v", p)
	}
}

func BenchmarkMatchLiteral(b *testing.B) {
	re := MustCompile("needle")
	line := []byte(strings.Repeat("hay ", 50) + "NEEDLE")
	b.SetBytes(int64(len(line)))
	for i := 0; i < b.N; i++ {
		re.Match(line)
	}
}

func BenchmarkMatchRequiredLiteral(b *testing.B) {
	re := MustCompile("err:d+ at")
	line := []byte(strings.Repeat("no problems on this line ", 4))
	b.SetBytes(int64(len(line)))
	for i := 0; i < b.N; i++ {
		re.Match(line)
	}
}
