// Package grep drives a compiled pattern over files and formats the
// selected lines the way DECUS grep prints them.
package grep

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/coregx/legrep/internal/input"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Matcher decides whether one line, without its terminator, is selected.
// *legrep.Regex and *legrep.Set satisfy it.
type Matcher interface {
	Match(line []byte) bool
}

// Options control what is printed for each file.
type Options struct {
	// Count prints only the number of selected lines.
	Count bool
	// FileNames prints a "File <name>:" header before a file's first
	// output. It never applies to standard input.
	FileNames bool
	// LineNumbers prefixes each line with its number and a tab.
	LineNumbers bool
	// Invert selects the lines that do not match.
	Invert bool
	// Jobs bounds how many files are searched at once; 0 means GOMAXPROCS.
	Jobs int
}

// ctxCheckInterval is how many lines are read between cancellation checks.
const ctxCheckInterval = 1024

// Searcher applies a Matcher to files.
type Searcher struct {
	matcher Matcher
	opts    Options
	opener  *input.Opener
	logger  *zap.Logger
}

// New returns a Searcher. A nil opener opens files without decompression;
// a nil logger discards messages.
func New(m Matcher, opts Options, opener *input.Opener, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opener == nil {
		opener = input.NewOpener(logger, false)
	}
	return &Searcher{matcher: m, opts: opts, opener: opener, logger: logger}
}

// Search scans r line by line and writes the selected lines (or their
// count) to w. name is used for the file header; pass "" for standard
// input. It returns the number of selected lines.
func (s *Searcher) Search(ctx context.Context, name string, r io.Reader, w io.Writer) (int, error) {
	out := bufio.NewWriter(w)
	selected, err := s.search(ctx, name, r, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return selected, err
}

func (s *Searcher) search(ctx context.Context, name string, r io.Reader, out *bufio.Writer) (int, error) {
	header := s.opts.FileNames && name != ""
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		long     []byte
		lineno   int
		selected int
		numbuf   []byte
	)
	for {
		line, next, err := readLine(br, long)
		long = next
		if len(line) > 0 {
			lineno++
			if lineno%ctxCheckInterval == 0 {
				if cerr := ctx.Err(); cerr != nil {
					return selected, cerr
				}
			}

			line = trimEOL(line)
			if s.matcher.Match(line) != s.opts.Invert {
				selected++
				if !s.opts.Count {
					if header {
						writeHeader(out, name)
						header = false
					}
					if s.opts.LineNumbers {
						numbuf = strconv.AppendInt(numbuf[:0], int64(lineno), 10)
						out.Write(numbuf)
						out.WriteByte('\t')
					}
					out.Write(line)
					out.WriteByte('\n')
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return selected, err
		}
	}

	if s.opts.Count {
		if header {
			writeHeader(out, name)
		}
		out.WriteString(strconv.Itoa(selected))
		out.WriteByte('\n')
	}
	return selected, nil
}

func writeHeader(out *bufio.Writer, name string) {
	out.WriteString("File ")
	out.WriteString(name)
	out.WriteString(":\n")
}

// readLine returns the next line including its '\n', if any. Lines longer
// than the reader's buffer are assembled in long, which is returned for
// reuse.
func readLine(br *bufio.Reader, long []byte) (line, next []byte, err error) {
	line, err = br.ReadSlice('\n')
	if err != bufio.ErrBufferFull {
		return line, long, err
	}
	long = append(long[:0], line...)
	for err == bufio.ErrBufferFull {
		line, err = br.ReadSlice('\n')
		long = append(long, line...)
	}
	return long, long, err
}

// trimEOL strips a trailing "\n" and a "\r" before it.
func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

// Result summarizes a multi-file search.
type Result struct {
	// Selected is the total number of selected lines.
	Selected int
	// Failed counts files that could not be opened or read.
	Failed int
}

type fileResult struct {
	buf      bytes.Buffer
	selected int
	err      error
}

// SearchFiles searches paths concurrently and writes each file's output to
// w in argument order. A file that cannot be opened or read is logged and
// skipped; the first such error, in argument order, is returned after every
// file has been processed.
func (s *Searcher) SearchFiles(ctx context.Context, paths []string, w io.Writer) (Result, error) {
	results := make([]fileResult, len(paths))
	done := make([]chan struct{}, len(paths))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs())
	submitted := make(chan error, 1)
	go func() {
		for i, path := range paths {
			g.Go(func() error {
				defer close(done[i])
				return s.searchFile(gctx, path, &results[i])
			})
		}
		submitted <- g.Wait()
	}()

	var (
		res   Result
		first error
	)
	for i := range paths {
		<-done[i]
		r := &results[i]
		res.Selected += r.selected
		if _, err := w.Write(r.buf.Bytes()); err != nil && first == nil {
			first = err
		}
		r.buf = bytes.Buffer{}
		if r.err != nil {
			res.Failed++
			if first == nil {
				first = r.err
			}
		}
	}

	if err := <-submitted; err != nil {
		return res, err
	}
	return res, first
}

// searchFile fills r with one file's output. Only cancellation is returned
// as an error, so a bad file does not stop the others.
func (s *Searcher) searchFile(ctx context.Context, path string, r *fileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rc, err := s.opener.Open(path)
	if err != nil {
		s.logger.Error("cannot open", zap.String("file", path), zap.Error(err))
		r.err = fmt.Errorf("open %s: %w", path, err)
		return nil
	}
	defer rc.Close()

	r.selected, err = s.Search(ctx, path, rc, &r.buf)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		s.logger.Error("read failed", zap.String("file", path), zap.Error(err))
		r.err = fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Debug("searched",
		zap.String("file", path),
		zap.Int("selected", r.selected))
	return nil
}

func (s *Searcher) jobs() int {
	if s.opts.Jobs > 0 {
		return s.opts.Jobs
	}
	return runtime.GOMAXPROCS(0)
}
