// Package teereader mirrors everything read from a source into a writer and
// reports the outcome once the reader is closed.
package teereader

import (
	"errors"
	"io"
)

type TeeReader struct {
	src          io.Reader
	dest         io.Writer
	onClose      func(totalRead int64, readErr, writeErr error) error
	lastReadErr  error
	lastWriteErr error
	totalRead    int64
	closed       bool
}

func New(
	src io.Reader,
	dest io.Writer,
	onClose func(totalRead int64, readErr, writeErr error) error,
) *TeeReader {
	return &TeeReader{src: src, dest: dest, onClose: onClose}
}

func (t *TeeReader) Read(p []byte) (int, error) {
	n, readErr := t.src.Read(p)
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		t.lastReadErr = readErr
	}

	// A failing destination must not break the main stream.
	if n > 0 && t.lastWriteErr == nil {
		if _, writeErr := t.dest.Write(p[:n]); writeErr != nil {
			t.lastWriteErr = writeErr
		}
	}

	t.totalRead += int64(n)
	return n, readErr
}

// Close runs the callback once, then closes the source if it is closable.
func (t *TeeReader) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	err := t.onClose(t.totalRead, t.lastReadErr, t.lastWriteErr)
	if closer, ok := t.src.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
