// Package input opens the files named on the command line: wildcard
// expansion, transparent decompression and OS read-ahead hints.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

// ErrNoMatch is returned by Expand when a wildcard argument names no file.
var ErrNoMatch = errors.New("no file matches")

// Format identifies the compression of an input stream.
type Format int

const (
	Plain Format = iota
	Gzip
	Zstd
	Xz
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Xz:
		return "xz"
	}
	return "plain"
}

var magics = []struct {
	format Format
	magic  []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{Xz, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
}

// maxMagic is the longest magic number in magics.
const maxMagic = 6

// Sniff reports the compression format announced by the first bytes of a
// stream.
func Sniff(head []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.format
		}
	}
	return Plain
}

// Expand replaces every argument that contains a wildcard and does not name
// an existing file with the sorted list of files it matches. Arguments
// without wildcards are passed through untouched, so a missing plain file
// is reported when it is opened.
func Expand(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			out = append(out, arg)
			continue
		}
		if _, err := os.Stat(arg); err == nil {
			out = append(out, arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", arg, ErrNoMatch)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Opener opens input files for searching.
type Opener struct {
	// Decompress enables sniffing for compressed input.
	Decompress bool

	logger *zap.Logger
}

// NewOpener returns an Opener that logs through logger, which may be nil.
func NewOpener(logger *zap.Logger, decompress bool) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{Decompress: decompress, logger: logger}
}

// Open opens the named file. The returned reader yields decompressed bytes
// when decompression is enabled and the file starts with a known magic
// number.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if stat, err := f.Stat(); err == nil {
		if stat.IsDir() {
			f.Close()
			return nil, fmt.Errorf("%s: is a directory", path)
		}
		o.optimize(f, stat, path)
	}

	rc, err := o.wrap(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// Attach wraps an already open file, such as standard input, like Open
// does. Closing the result leaves f open.
func (o *Opener) Attach(f *os.File, name string) (io.ReadCloser, error) {
	if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		o.optimize(f, stat, name)
	}
	return o.wrap(nopCloser{f}, name)
}

// optimize applies every read hint that fits the file, logging failures.
func (o *Opener) optimize(f *os.File, stat os.FileInfo, name string) {
	for _, opt := range ReadOptimizations {
		if err := opt.Action(f, stat); err != nil && !errors.Is(err, os.ErrInvalid) {
			o.logger.Debug("read hint failed",
				zap.String("file", name),
				zap.String("hint", opt.Name),
				zap.Error(err))
		}
	}
}

func (o *Opener) wrap(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	if !o.Decompress {
		return rc, nil
	}

	br := bufio.NewReaderSize(rc, 64*1024)
	head, err := br.Peek(maxMagic)
	if err != nil && err != io.EOF {
		return nil, err
	}

	format := Sniff(head)
	if format != Plain {
		o.logger.Debug("decompressing", zap.String("file", name), zap.Stringer("format", format))
	}

	switch format {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stack{Reader: zr, closers: []io.Closer{rc, zr}}, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stack{Reader: zr, closers: []io.Closer{rc, zr.IOReadCloser()}}, nil
	case Xz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		return &stack{Reader: xr, closers: []io.Closer{rc}}, nil
	}
	return &stack{Reader: br, closers: []io.Closer{rc}}, nil
}

// stack reads from the outermost decoder and closes every layer, innermost
// last.
type stack struct {
	io.Reader
	closers []io.Closer
}

func (s *stack) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }
