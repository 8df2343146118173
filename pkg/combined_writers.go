package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing writer
// does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports len(p) as written if at least one writer took the whole of p,
// along with the combined errors of the ones that failed.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	succeeded := false
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		succeeded = true
	}
	if succeeded {
		return len(p), err
	}
	return 0, err
}
