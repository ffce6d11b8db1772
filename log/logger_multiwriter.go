package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/quantbt/qbt/common"
)

var errWriterAlreadyLoaded = errors.New("io.Writer already loaded")

// Add appends a new writer to the multiwriter slice
func (mw *multiWriter) Add(writer io.Writer) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for i := range mw.writers {
		if mw.writers[i] == writer {
			return errWriterAlreadyLoaded
		}
	}
	mw.writers = append(mw.writers, writer)
	return nil
}

// Write hands p to every writer in the order they were added. A failing
// writer does not stop the rest, its error is joined with any others
func (mw *multiWriter) Write(p []byte) (int, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	var errs error
	for x := range mw.writers {
		n, err := mw.writers[x].Write(p)
		switch {
		case err != nil:
			errs = common.AppendError(errs, fmt.Errorf("%T %w", mw.writers[x], err))
		case n != len(p):
			errs = common.AppendError(errs, fmt.Errorf("%T %w", mw.writers[x], io.ErrShortWrite))
		}
	}
	return len(p), errs
}

// MultiWriter returns a writer duplicating its writes to every writer given
func MultiWriter(writers ...io.Writer) (*multiWriter, error) {
	mw := &multiWriter{}
	for x := range writers {
		if err := mw.Add(writers[x]); err != nil {
			return nil, err
		}
	}
	return mw, nil
}
