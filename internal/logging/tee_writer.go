package logging

import (
	"io"

	"go.uber.org/multierr"
)

// teeWriter copies log lines to every output. Unlike io.MultiWriter it keeps
// going when one output fails, so a full disk does not silence stderr.
type teeWriter struct {
	outputs []io.Writer
}

func newTeeWriter(outputs ...io.Writer) *teeWriter {
	return &teeWriter{outputs: outputs}
}

// Write reports the bytes written to the first output that succeeded, as the
// logger expects len(p) on success.
func (tw *teeWriter) Write(p []byte) (int, error) {
	var (
		written int
		err     error
		ok      bool
	)
	for _, w := range tw.outputs {
		n, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if !ok {
			written, ok = n, true
		}
	}
	return written, err
}
