package concatenator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidplan/models"
)

// fakeSource serves prepared profiles by path.
type fakeSource struct {
	profiles map[string]*models.MediaProfile
	probed   []string
}

func (f *fakeSource) Probe(_ context.Context, path string) (*models.MediaProfile, error) {
	f.probed = append(f.probed, path)
	p, ok := f.profiles[path]
	if !ok {
		return nil, &models.ParseError{Path: path, Field: models.FieldFrameRate, Reason: "no frame rate found"}
	}
	return p, nil
}

func profile(t *testing.T, path string, fps float64) *models.MediaProfile {
	t.Helper()
	p, err := models.NewProfileBuilder(path).
		SetVideoFPS(fps).SetVideoWidth(720).SetVideoHeight(480).
		SetVideoScan(models.ScanInterlaced).SetVideoFormat("MPEG Video").
		SetVideoBitrate(6000).
		SetAudioCodecID("A_AC3").SetAudioChannels(2).SetAudioSampleRate(48000).
		Build()
	require.NoError(t, err)
	return p
}

// group writes files of the given sizes and returns a reader over them.
func group(t *testing.T, sizes ...int) (*MultiFileReader, []byte) {
	t.Helper()
	dir := t.TempDir()
	source := &fakeSource{profiles: map[string]*models.MediaProfile{}}

	var paths []string
	var all bytes.Buffer
	for i, size := range sizes {
		data := make([]byte, size)
		for j := range data {
			data[j] = byte(i*31 + j)
		}
		path := filepath.Join(dir, fmt.Sprintf("part%d.vob", i))
		require.NoError(t, os.WriteFile(path, data, 0o644))
		source.profiles[path] = profile(t, path, 29.97)
		paths = append(paths, path)
		all.Write(data)
	}

	r, err := NewMultiFileReader(context.Background(), source, paths)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, all.Bytes()
}

func drain(t *testing.T, r *MultiFileReader) []byte {
	t.Helper()
	var out bytes.Buffer
	for {
		chunk, err := r.ReadChunk()
		if errors.Is(err, io.EOF) {
			assert.Empty(t, chunk)
			return out.Bytes()
		}
		require.NoError(t, err)
		require.NotEmpty(t, chunk, "empty chunk before end of stream")
		require.LessOrEqual(t, len(chunk), ChunkSize)
		out.Write(chunk)
	}
}

// recordingSink is a WriteCloser that can fail after a number of writes.
type recordingSink struct {
	bytes.Buffer
	writes    int
	failAfter int
	err       error
	closed    bool
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.err != nil && s.writes > s.failAfter {
		return 0, s.err
	}
	return s.Buffer.Write(p)
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestNewMultiFileReader_NoFiles(t *testing.T) {
	_, err := NewMultiFileReader(context.Background(), &fakeSource{}, nil)
	assert.Error(t, err)
}

func TestNewMultiFileReader_ProbeFailure(t *testing.T) {
	source := &fakeSource{profiles: map[string]*models.MediaProfile{}}
	_, err := NewMultiFileReader(context.Background(), source, []string{"missing.vob"})

	var perr *models.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestNewMultiFileReader_Incompatible(t *testing.T) {
	source := &fakeSource{profiles: map[string]*models.MediaProfile{
		"a.vob": profile(t, "a.vob", 29.97),
		"b.vob": profile(t, "b.vob", 25),
		"c.vob": profile(t, "c.vob", 29.97),
	}}

	r, err := NewMultiFileReader(context.Background(), source, []string{"a.vob", "b.vob", "c.vob"})
	assert.Nil(t, r)

	var cerr *models.CompatibilityError
	require.True(t, errors.As(err, &cerr), "expected *CompatibilityError, got %v", err)
	assert.Equal(t, "a.vob", cerr.First)
	assert.Equal(t, "b.vob", cerr.Other)
	assert.Equal(t, "Differing FPS: 29.97 != 25", cerr.Diff)
	assert.Contains(t, err.Error(), "files 'a.vob' and 'b.vob' are incompatible")
	assert.Equal(t, []string{"a.vob", "b.vob"}, source.probed, "validation stops at the first mismatch")
}

func TestMultiFileReader_Profile(t *testing.T) {
	r, _ := group(t, 10, 20)
	assert.Equal(t, 29.97, *r.Profile().Video.FPS)
	assert.Len(t, r.Paths(), 2)
}

func TestMultiFileReader_ReadChunk(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
	}{
		{"single small file", []int{100}},
		{"exact chunk", []int{ChunkSize}},
		{"spans chunks", []int{ChunkSize*2 + 17}},
		{"several files", []int{5000, 10, ChunkSize}},
		{"empty file in the middle", []int{300, 0, 0, 300}},
		{"empty first and last", []int{0, 1234, 0}},
		{"all empty", []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, want := group(t, tt.sizes...)
			got := drain(t, r)
			assert.Equal(t, len(want), len(got))
			assert.True(t, bytes.Equal(want, got), "concatenated bytes differ")

			// Exhausted streams stay exhausted.
			chunk, err := r.ReadChunk()
			assert.Empty(t, chunk)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestMultiFileReader_ChunksAreFixedSize(t *testing.T) {
	r, _ := group(t, ChunkSize*3)
	for i := 0; i < 3; i++ {
		chunk, err := r.ReadChunk()
		require.NoError(t, err)
		assert.Len(t, chunk, ChunkSize)
	}
}

func TestMultiFileReader_OneFileOpenAtATime(t *testing.T) {
	r, _ := group(t, 10, 10)

	_, err := r.ReadChunk()
	require.NoError(t, err)
	first := r.current
	require.NotNil(t, first)

	_, err = r.ReadChunk()
	require.NoError(t, err)
	assert.NotSame(t, first, r.current)

	// The first file was closed when the second was opened.
	_, err = first.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestMultiFileReader_WriteAll(t *testing.T) {
	r, want := group(t, 5000, 0, 3000)
	sink := &recordingSink{}

	require.NoError(t, r.WriteAll(sink))
	assert.True(t, sink.closed)
	assert.True(t, bytes.Equal(want, sink.Bytes()))
	assert.Nil(t, r.current)
}

func TestMultiFileReader_WriteAllPropagatesSinkFailure(t *testing.T) {
	r, _ := group(t, ChunkSize*4)
	gone := errors.New("broken pipe")
	sink := &recordingSink{failAfter: 1, err: gone}

	err := r.WriteAll(sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, gone)
	assert.Equal(t, 2, sink.writes, "no writes after the failure")
	assert.Equal(t, ChunkSize, sink.Len())
}

func TestMultiFileReader_Rewind(t *testing.T) {
	r, want := group(t, 6000, 2500)

	first := drain(t, r)
	require.NoError(t, r.Rewind())
	second := drain(t, r)

	assert.True(t, bytes.Equal(want, first))
	assert.True(t, bytes.Equal(first, second))
}

func TestMultiFileReader_RewindMidStream(t *testing.T) {
	r, want := group(t, ChunkSize*2, 100)

	_, err := r.ReadChunk()
	require.NoError(t, err)
	open := r.current
	require.NotNil(t, open)

	require.NoError(t, r.Rewind())
	assert.Nil(t, r.current)
	_, err = open.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)

	sink := &recordingSink{}
	require.NoError(t, r.WriteAll(sink))
	assert.True(t, bytes.Equal(want, sink.Bytes()))
}

func TestMultiFileReader_MissingFileAfterValidation(t *testing.T) {
	r, _ := group(t, 10, 10)
	require.NoError(t, os.Remove(r.paths[1]))

	_, err := r.ReadChunk()
	require.NoError(t, err)
	_, err = r.ReadChunk()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
