package logging

import (
	"os"
	"sync"
)

// cappedFileWriter appends to a single log file and truncates it back
// to zero once the next write would push it past maxBytes. Crude
// compared to real rotation, but it bounds disk usage without an extra
// dependency and losing the oldest lines is acceptable for this server.
type cappedFileWriter struct {
	mu       sync.Mutex
	f        *os.File
	size     int64
	maxBytes int64
}

func newCappedFileWriter(path string, maxBytes int64) (*cappedFileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &cappedFileWriter{f: f, size: info.Size(), maxBytes: maxBytes}, nil
}

func (w *cappedFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.maxBytes > 0 && w.size+int64(len(p)) > w.maxBytes {
		if err := w.f.Truncate(0); err != nil {
			return 0, err
		}
		if _, err := w.f.Seek(0, 0); err != nil {
			return 0, err
		}
		w.size = 0
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *cappedFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
