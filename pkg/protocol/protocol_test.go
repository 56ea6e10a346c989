package protocol

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFieldTrimsLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unix newline", input: "Inception\n", want: "Inception"},
		{name: "crlf", input: "Inception\r\n", want: "Inception"},
		{name: "empty field", input: "\n", want: ""},
		{name: "truncated by peer close", input: "Inception", want: "Inception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))
			got, err := ReadField(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFieldEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	_, err := ReadField(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFieldRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteField(&buf, "Inception"))
	require.NoError(t, WriteField(&buf, "Nolan"))

	r := bufio.NewReader(&buf)
	first, err := ReadField(r)
	require.NoError(t, err)
	second, err := ReadField(r)
	require.NoError(t, err)

	assert.Equal(t, "Inception", first)
	assert.Equal(t, "Nolan", second)
}

func TestResponseRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "single line", text: "Movie registered successfully! ID: 1", want: "Movie registered successfully! ID: 1"},
		{name: "multi line", text: "Movies (ID - Title):\n1 - Inception\n2 - Alien\n", want: "Movies (ID - Title):\n1 - Inception\n2 - Alien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteResponse(&buf, tt.text))

			got, err := ReadResponse(bufio.NewReader(&buf))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseTerminatorSeparatesBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, "first"))
	require.NoError(t, WriteResponse(&buf, "second\nblock"))

	r := bufio.NewReader(&buf)
	first, err := ReadResponse(r)
	require.NoError(t, err)
	second, err := ReadResponse(r)
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "second\nblock", second)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "42", want: 42},
		{input: " 42 ", want: 42},
		{input: "-7", want: -7},
		{input: "", want: 0},
		{input: "abc", want: 0},
		{input: "12x", want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceInt(tt.input), "CoerceInt(%q)", tt.input)
	}
}

func TestOpCodeString(t *testing.T) {
	assert.Equal(t, "register", OpRegister.String())
	assert.Equal(t, "list_by_genre", OpListByGenre.String())
	assert.Equal(t, "invalid", OpCode(99).String())
}
