// Package protocol implements the plain-text wire protocol between MovieCat
// clients and the server.
//
// A conversation is a sequence of requests on one TCP connection. The client
// first sends an operation code as ASCII digits, then the operation's fields,
// each as one newline-terminated line. The server answers codes 1-7 with
// exactly one response: a block of non-empty text lines terminated by a
// single blank line. Code 0 closes the connection with no response; any
// unrecognized code consumes no further fields and yields an invalid-option
// response.
//
// Fields carry raw text with no escaping, so a field cannot contain a
// newline. Numeric fields follow the tolerant-parse policy: input that fails
// to parse degrades to zero instead of rejecting the request. Note the
// consequence for the operation code itself: garbage coerces to 0, which
// terminates the connection.
//
// Operation field sequences:
//
//	OpRegister:    title, director, year, genres (semicolon-joined)
//	OpAddGenre:    id, genre
//	OpRemove:      id
//	OpListTitles:  (none)
//	OpListMovies:  (none)
//	OpGetMovie:    id
//	OpListByGenre: genre
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OpCode selects which request type a connection issues next.
type OpCode int

// Operation codes understood by the server.
const (
	OpQuit        OpCode = 0 // close the connection, no response
	OpRegister    OpCode = 1 // register a new movie
	OpAddGenre    OpCode = 2 // append a genre to a movie
	OpRemove      OpCode = 3 // remove a movie by id
	OpListTitles  OpCode = 4 // list (id, title) pairs
	OpListMovies  OpCode = 5 // list full info for every movie
	OpGetMovie    OpCode = 6 // full info for one movie
	OpListByGenre OpCode = 7 // full info for movies matching a genre
)

// String returns a stable lowercase name for the op, suitable as a metric
// label. Unknown codes report as "invalid".
func (op OpCode) String() string {
	switch op {
	case OpQuit:
		return "quit"
	case OpRegister:
		return "register"
	case OpAddGenre:
		return "add_genre"
	case OpRemove:
		return "remove"
	case OpListTitles:
		return "list_titles"
	case OpListMovies:
		return "list_movies"
	case OpGetMovie:
		return "get_movie"
	case OpListByGenre:
		return "list_by_genre"
	default:
		return "invalid"
	}
}

// CoerceInt parses s as a decimal integer, degrading to 0 on any parse
// failure. This is the tolerant-parse policy shared by the wire protocol and
// the persisted file format.
func CoerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ReadField reads one field from the connection: a single line with the
// trailing newline (and optional carriage return) stripped. An EOF with no
// preceding bytes is returned as io.EOF so callers can tell a clean
// disconnect from a truncated field.
func ReadField(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			// Peer closed mid-field; treat what arrived as the field.
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteField sends one field as a newline-terminated line.
func WriteField(w io.Writer, field string) error {
	if _, err := fmt.Fprintf(w, "%s\n", field); err != nil {
		return fmt.Errorf("write field: %w", err)
	}
	return nil
}

// WriteResponse frames a text response: the text (given a trailing newline if
// it lacks one) followed by one blank line marking the end of the response.
// Response text must not itself contain blank lines.
func WriteResponse(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(w, text+"\n"); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// ReadResponse reads one response block: all lines up to (not including) the
// blank terminator line, joined with newlines.
func ReadResponse(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}
