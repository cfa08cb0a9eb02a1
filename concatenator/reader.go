// Package concatenator streams a group of compatible media files as one
// byte stream, for feeding to an encoder's stdin.
package concatenator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"vidplan/internal/logging"
	"vidplan/internal/metrics"
	"vidplan/models"
)

// ChunkSize is the number of bytes read from an input file per chunk.
const ChunkSize = 4096

// ProfileSource produces the media profile of one file.
type ProfileSource interface {
	Probe(ctx context.Context, path string) (*models.MediaProfile, error)
}

// MultiFileReader exposes an ordered group of files as one chunked stream.
//
// At most one input file is open at any time. A MultiFileReader is not safe
// for concurrent use; a second consumer of the same group must wait for the
// first and call Rewind.
type MultiFileReader struct {
	paths   []string
	profile *models.MediaProfile

	current *os.File
	next    int // index of the next file to open
	buf     []byte
}

// NewMultiFileReader probes every file and checks that each one is compatible
// with the first. The first mismatch is reported as a *models.CompatibilityError.
func NewMultiFileReader(ctx context.Context, source ProfileSource, paths []string) (*MultiFileReader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files provided")
	}
	logger := logging.GetLogger("concatenator")

	if len(paths) > 1 {
		logger.Info("Validating multiple file compatibility", "files", len(paths))
	}

	var first *models.MediaProfile
	for _, path := range paths {
		profile, err := source.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = profile
			continue
		}
		if ok, diff := models.Compare(first, profile); !ok {
			metrics.IncompatibleGroup()
			return nil, &models.CompatibilityError{First: paths[0], Other: path, Diff: diff}
		}
	}

	if len(paths) > 1 {
		logger.Info("All files compatible", "files", len(paths))
	}

	return &MultiFileReader{
		paths:   append([]string(nil), paths...),
		profile: first,
		buf:     make([]byte, ChunkSize),
	}, nil
}

// Profile returns the profile shared by every file of the group.
func (r *MultiFileReader) Profile() *models.MediaProfile {
	return r.profile
}

// Paths returns the input files in stream order.
func (r *MultiFileReader) Paths() []string {
	return append([]string(nil), r.paths...)
}

// ReadChunk returns the next chunk of at most ChunkSize bytes, moving on to
// the next file when the current one is exhausted. Only the end of the last
// file yields an empty chunk, always together with io.EOF.
//
// The returned slice is only valid until the next call.
func (r *MultiFileReader) ReadChunk() ([]byte, error) {
	for {
		if r.current == nil {
			if r.next >= len(r.paths) {
				return nil, io.EOF
			}
			if err := r.openNext(); err != nil {
				return nil, err
			}
		}

		n, err := io.ReadFull(r.current, r.buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read '%s': %w", r.current.Name(), err)
		}
		if n > 0 {
			metrics.BytesStreamed(n)
			return r.buf[:n], nil
		}
		if err := r.closeCurrent(); err != nil {
			return nil, err
		}
	}
}

// WriteAll drains the remaining stream into sink and closes it.
//
// A write error stops the copy at once and is returned wrapped, so callers
// can detect a consumer that went away (errors.Is(err, syscall.EPIPE)).
func (r *MultiFileReader) WriteAll(sink io.WriteCloser) error {
	for {
		chunk, err := r.ReadChunk()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sink.Close()
			return err
		}
		if _, err := sink.Write(chunk); err != nil {
			sink.Close()
			return fmt.Errorf("failed to write input stream: %w", err)
		}
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close input stream: %w", err)
	}
	return nil
}

// Rewind closes the open file, if any, and restarts the stream before the
// first file.
func (r *MultiFileReader) Rewind() error {
	err := r.closeCurrent()
	r.next = 0
	return err
}

// Close releases the open file. The reader can be reused after Rewind.
func (r *MultiFileReader) Close() error {
	err := r.closeCurrent()
	r.next = len(r.paths)
	return err
}

func (r *MultiFileReader) openNext() error {
	if err := r.closeCurrent(); err != nil {
		return err
	}
	path := r.paths[r.next]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	r.current = f
	r.next++
	return nil
}

func (r *MultiFileReader) closeCurrent() error {
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	if err != nil {
		return fmt.Errorf("failed to close input file: %w", err)
	}
	return nil
}
