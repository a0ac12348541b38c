package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/toby-sam/budget/internal/encoding"
)

const sample = "Date,Description,Amount\n03/11/2025,Piñata café,-12.50\n"

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String(sample)
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(sample)
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(sample)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "UTF8Passthrough", input: []byte(sample)},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, sample...)},
		{name: "Windows1252", input: []byte(latin1)},
		{name: "UTF16LE", input: []byte(utf16le)},
		{name: "UTF16BE", input: []byte(utf16be)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, sample, readAll(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_RuneAcrossSniffBoundary(t *testing.T) {
	// 4095 ASCII bytes put the two-byte "ñ" across the 4096-byte sniff window.
	input := strings.Repeat("a", 4095) + "ñ\n"

	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Equal(t, "", readAll(t, nil))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("plain ascii")))
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte{0xEF, 0xBB, 0xBF, 'x'}))
	assert.Equal(t, encoding.UTF16LE, encoding.Detect([]byte{0xFF, 0xFE, 'x', 0}))
	assert.Equal(t, encoding.UTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0, 'x'}))
}

func TestDecode(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(`{"income":5}`)
	require.NoError(t, err)

	got, err := encoding.Decode([]byte(utf16le))
	require.NoError(t, err)
	assert.Equal(t, `{"income":5}`, string(got))

	got, err = encoding.Decode(append([]byte{0xEF, 0xBB, 0xBF}, `{"a":1}`...))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}
