package gen

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// openFunc creates the writer for an output path.
type openFunc func(path string) (io.WriteCloser, error)

// writerRegistry keeps one open writer per output path for the lifetime of
// a run, so several renders can build one file. It is not safe for
// concurrent use.
type writerRegistry struct {
	open    openFunc
	writers map[string]io.WriteCloser
	order   []string
	log     *slog.Logger
}

func newWriterRegistry(open openFunc, log *slog.Logger) *writerRegistry {
	return &writerRegistry{
		open:    open,
		writers: make(map[string]io.WriteCloser),
		log:     log,
	}
}

// lookup returns the cached writer for path.
func (r *writerRegistry) lookup(path string) (io.WriteCloser, bool) {
	w, ok := r.writers[path]
	return w, ok
}

// acquire returns the cached writer for path, opening it on first use.
func (r *writerRegistry) acquire(path string) (io.WriteCloser, error) {
	if w, ok := r.writers[path]; ok {
		return w, nil
	}
	w, err := r.open(path)
	if err != nil {
		return nil, err
	}
	r.writers[path] = w
	r.order = append(r.order, path)
	return w, nil
}

// closeAll flushes and closes every writer in creation order. A failing
// writer is logged and does not stop the others from being closed.
func (r *writerRegistry) closeAll() int {
	var failed int
	for _, path := range r.order {
		if err := r.writers[path].Close(); err != nil {
			failed++
			r.log.Warn("close output failed", "file", path, "error", err)
		}
	}
	r.writers = make(map[string]io.WriteCloser)
	r.order = nil
	return failed
}

// openFile creates the output file and its parent directories. Writes
// are buffered until Close.
func openFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &fileWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// fileWriter is a buffered output file. It receives bytes already in the
// output encoding.
type fileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Close flushes the buffer before closing the file. The file is closed
// even when flushing fails.
func (w *fileWriter) Close() error {
	return errors.Join(w.buf.Flush(), w.file.Close())
}
