package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runWith(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	in, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer in.Close()
	_, err = in.WriteString(stdin)
	require.NoError(t, err)
	_, err = in.Seek(0, 0)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, in, &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no arguments", nil, "?GREP-E-No arguments\n"},
		{"unknown flag", []string{"-x", "pat"}, "?GREP-E-Unknown flag\n"},
		{"no pattern", []string{"-n"}, "?GREP-E-No pattern\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runWith(t, "", tt.args...)
			assert.Equal(t, exitTrouble, r.code)
			assert.Equal(t, tt.msg+usageLine+"\n", r.stderr)
			assert.Empty(t, r.stdout)
		})
	}
}

func TestPatternErrors(t *testing.T) {
	r := runWith(t, "", "ab:q")
	assert.Equal(t, exitTrouble, r.code)
	assert.Equal(t,
		"-GREP-E-Unknown : type, pattern is\"ab:q\"\n"+
			"-GREP-E-Stopped at byte 4, 'q'\n"+
			"?GREP-E-Bad pattern\n",
		r.stderr)

	r = runWith(t, "", "-e", "ok", "-e", "a**")
	assert.Equal(t, exitTrouble, r.code)
	assert.Contains(t, r.stderr, "-GREP-E-Illegal occurrance op., pattern is\"a**\"\n")
}

func TestHelp(t *testing.T) {
	for _, args := range [][]string{{"?"}, {"-h"}, {"--help"}} {
		r := runWith(t, "", args...)
		assert.Equal(t, exitSelected, r.code, args)
		assert.Contains(t, r.stdout, "legrep searches a file for a given pattern")
		assert.Contains(t, r.stdout, "--decompress")
		assert.Contains(t, r.stdout, "[z-a] never matches")
	}
}

func TestStdin(t *testing.T) {
	in := "Hello world\nnothing here\nsay HELLO\n"

	r := runWith(t, in, "hello")
	assert.Equal(t, exitSelected, r.code)
	assert.Equal(t, "Hello world\nsay HELLO\n", r.stdout)

	r = runWith(t, in, "-n", "-v", "hello")
	assert.Equal(t, "2\tnothing here\n", r.stdout)

	r = runWith(t, in, "-c", "hello")
	assert.Equal(t, "2\n", r.stdout)

	// -f has no name to print for standard input.
	r = runWith(t, in, "-f", "^say")
	assert.Equal(t, "say HELLO\n", r.stdout)

	r = runWith(t, in, "goodbye")
	assert.Equal(t, exitNone, r.code)
	assert.Empty(t, r.stdout)
}

func TestMultiplePatterns(t *testing.T) {
	in := "one, two\nthree\nfour\n"
	r := runWith(t, in, "-e", "one, two", "-e", "four$")
	assert.Equal(t, exitSelected, r.code)
	assert.Equal(t, "one, two\nfour\n", r.stdout)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("error 1\nok\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("ok\nERROR 22\n"), 0o644))

	r := runWith(t, "", "error :d+", a, b)
	assert.Equal(t, exitSelected, r.code)
	assert.Equal(t, "File "+a+":\nerror 1\nFile "+b+":\nERROR 22\n", r.stdout)

	// -f turns the headers off when files are given.
	r = runWith(t, "", "-f", "error", a, b)
	assert.Equal(t, "error 1\nERROR 22\n", r.stdout)

	r = runWith(t, "", "-c", "-f", "error", filepath.Join(dir, "*.txt"))
	assert.Equal(t, "1\n1\n", r.stdout)

	r = runWith(t, "", "error", filepath.Join(dir, "*.none"))
	assert.Equal(t, exitTrouble, r.code)
	assert.Contains(t, r.stderr, "?GREP-E-")
}

func TestMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("hit\n"), 0o644))

	r := runWith(t, "", "-f", "hit", filepath.Join(dir, "missing"), a)
	assert.Equal(t, exitTrouble, r.code)
	assert.Equal(t, "hit\n", r.stdout)
	assert.Contains(t, r.stderr, "cannot open")
}

func TestDecompress(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("packed needle\nhay\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "log.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	r := runWith(t, "", "-f", "-z", "needle", path)
	assert.Equal(t, exitSelected, r.code)
	assert.Equal(t, "packed needle\n", r.stdout)
}

func TestDumpPattern(t *testing.T) {
	r := runWith(t, "x\n", "--dump-pattern", "^a:d+$")
	assert.Equal(t, exitNone, r.code)
	assert.Contains(t, r.stderr, "pattern ")
}
