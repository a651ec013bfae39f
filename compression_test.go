package sheetql

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionHandler_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		compressionType CompressionType
	}{
		{name: "No compression", compressionType: CompressionNone},
		{name: "Gzip compression", compressionType: CompressionGZ},
		{name: "XZ compression", compressionType: CompressionXZ},
		{name: "ZSTD compression", compressionType: CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			testData := []byte("Name,Status\nAnn,open\n")
			handler := newCompressionHandler(tt.compressionType)

			var compressed bytes.Buffer
			w, closeWriter, err := handler.writer(&compressed)
			require.NoError(t, err)
			_, err = w.Write(testData)
			require.NoError(t, err)
			require.NoError(t, closeWriter())

			r, closeReader, err := handler.reader(&compressed)
			require.NoError(t, err)
			defer closeReader()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, testData, got)
		})
	}
}

func TestCompressionHandler_BZ2Writer(t *testing.T) {
	t.Parallel()

	_, _, err := newCompressionHandler(CompressionBZ2).writer(io.Discard)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetectCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want CompressionType
	}{
		{path: "book.xlsx", want: CompressionNone},
		{path: "book.xlsx.gz", want: CompressionGZ},
		{path: "book.xlsx.BZ2", want: CompressionBZ2},
		{path: "book.xlsx.xz", want: CompressionXZ},
		{path: "book.xlsx.zst", want: CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := detectCompression(tt.path); got != tt.want {
				t.Errorf("detectCompression(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestTrimCompressionExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "book.xlsx", trimCompressionExt("book.xlsx.gz"))
	assert.Equal(t, "book.xlsx", trimCompressionExt("book.xlsx.ZST"))
	assert.Equal(t, "book.xlsx", trimCompressionExt("book.xlsx"))
}

func TestCompressedFile(t *testing.T) {
	t.Parallel()

	t.Run("write then read", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "data.csv.xz")

		w, cleanup, err := createCompressedFile(path, detectCompression(path))
		require.NoError(t, err)
		_, err = io.WriteString(w, "hello")
		require.NoError(t, err)
		require.NoError(t, cleanup())

		data, err := readCompressedFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("bz2 does not truncate an existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "data.csv.bz2")
		require.NoError(t, os.WriteFile(path, []byte("keep"), 0600))

		_, _, err := createCompressedFile(path, CompressionBZ2)
		require.ErrorIs(t, err, ErrUnsupportedFormat)

		data, err := os.ReadFile(path) //nolint:gosec // test file in TempDir
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := readCompressedFile(filepath.Join(t.TempDir(), "none.gz"))
		assert.Error(t, err)
	})
}
