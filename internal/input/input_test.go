package input

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

const corpus = "first line\nSecond LINE\n\nthird: 42\n"

func compress(t *testing.T, format Format, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch format {
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zstd:
		w, err = zstd.NewWriter(&buf)
	case Xz:
		w, err = xz.NewWriter(&buf)
	default:
		return data
	}
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSniff(t *testing.T) {
	tests := []struct {
		head []byte
		want Format
	}{
		{nil, Plain},
		{[]byte("plain text"), Plain},
		{[]byte{0x1f}, Plain},
		{[]byte{0x1f, 0x8b, 0x08}, Gzip},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, Zstd},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, Xz},
		{[]byte{0xfd, '7', 'z', 'X', 'Z'}, Plain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sniff(tt.head), "Sniff(%q)", tt.head)
	}
}

func TestOpenDecompress(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(zap.NewNop(), true)

	for _, format := range []Format{Plain, Gzip, Zstd, Xz} {
		t.Run(format.String(), func(t *testing.T) {
			path := writeFile(t, dir, "data."+format.String(), compress(t, format, []byte(corpus)))

			rc, err := opener.Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, corpus, string(got))
		})
	}
}

func TestOpenRaw(t *testing.T) {
	dir := t.TempDir()
	packed := compress(t, Gzip, []byte(corpus))
	path := writeFile(t, dir, "data.gz", packed)

	rc, err := NewOpener(nil, false).Open(path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, packed, got)
}

func TestOpenShortAndEmpty(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(nil, true)

	for _, data := range []string{"", "x", "\x1f"} {
		path := writeFile(t, dir, "short", []byte(data))
		rc, err := opener.Open(path)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, data, string(got))
		require.NoError(t, rc.Close())
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(nil, true)

	_, err := opener.Open(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = opener.Open(dir)
	assert.Error(t, err)

	// A gzip magic followed by garbage fails when the header is read.
	path := writeFile(t, dir, "bad.gz", []byte{0x1f, 0x8b, 0xff, 0xff})
	_, err = opener.Open(path)
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", nil)
	b := writeFile(t, dir, "b.log", nil)
	writeFile(t, dir, "c.txt", nil)
	literal := writeFile(t, dir, "odd[1].txt", nil)

	got, err := Expand([]string{filepath.Join(dir, "*.log"), "plain-missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, "plain-missing"}, got)

	got, err = Expand([]string{literal})
	require.NoError(t, err)
	assert.Equal(t, []string{literal}, got)

	_, err = Expand([]string{filepath.Join(dir, "*.none")})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestReadOptimizationsTolerateFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f", []byte(corpus))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	stat, err := f.Stat()
	require.NoError(t, err)

	// Hints are advisory; only a panic is a failure here.
	for _, opt := range ReadOptimizations {
		if err := opt.Action(f, stat); err != nil {
			t.Logf("%s: %v", opt.Name, err)
		}
	}
}

func TestAttach(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.xz", compress(t, Xz, []byte(corpus)))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rc, err := NewOpener(nil, true).Attach(f, "stdin")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, corpus, string(got))

	// The file itself stays open.
	_, err = f.Seek(0, io.SeekStart)
	assert.NoError(t, err)
}
