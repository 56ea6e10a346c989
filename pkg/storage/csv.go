// Package storage persists the movie catalog to a flat delimited file.
//
// The format is one movie per line, fields joined by commas in the order
// id,title,director,year,genres, where genres is itself a semicolon-joined
// token list. There is no header line and no escaping: a comma inside a text
// field corrupts that line on reload. That is a known limitation of the flat
// format, kept for compatibility with existing catalog files.
//
// Loading is tolerant: a missing file yields an empty catalog, lines with too
// few fields are skipped, and numeric fields that fail to parse are coerced
// to zero. Saving rewrites the whole file atomically (temp file, fsync,
// rename), so readers never observe a partially written catalog.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/moviecat/moviecat/pkg/catalog"
)

// fieldSeparator joins the top-level fields of one persisted line.
const fieldSeparator = ","

// fieldCount is the number of top-level fields per line.
const fieldCount = 5

// CSVStore reads and writes the catalog file at a fixed path.
// It implements catalog.Saver.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store for the given file path. The file does not
// need to exist yet; it is created on the first Save.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the file path this store reads and writes.
func (s *CSVStore) Path() string {
	return s.path
}

// Load parses the catalog file into movies. A missing file is not an error
// and yields an empty result. Malformed lines are skipped; malformed numeric
// fields degrade to zero.
func (s *CSVStore) Load() ([]catalog.Movie, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open catalog file %s: %w", s.path, err)
	}
	defer f.Close()

	var movies []catalog.Movie
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		// The genres field is last and may itself contain the secondary
		// separator, so only the first four commas split fields.
		parts := strings.SplitN(line, fieldSeparator, fieldCount)
		if len(parts) < fieldCount {
			continue
		}

		movies = append(movies, catalog.Movie{
			ID:       coerceInt(parts[0]),
			Title:    parts[1],
			Director: parts[2],
			Year:     coerceInt(parts[3]),
			Genres:   catalog.SplitGenres(parts[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", s.path, err)
	}

	return movies, nil
}

// Save rewrites the catalog file from scratch, one line per movie in the
// given order. The write is atomic and durable: content goes to a temp file
// which is fsynced and renamed over the target, so a crash mid-save leaves
// the previous file intact.
func (s *CSVStore) Save(movies []catalog.Movie) error {
	pending, err := renameio.NewPendingFile(s.path)
	if err != nil {
		return fmt.Errorf("create pending catalog file: %w", err)
	}
	// Cleanup after a successful replace is a no-op.
	defer func() { _ = pending.Cleanup() }()

	w := bufio.NewWriter(pending)
	for _, m := range movies {
		fields := []string{
			strconv.Itoa(m.ID),
			m.Title,
			m.Director,
			strconv.Itoa(m.Year),
			m.GenreLine(),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, fieldSeparator)); err != nil {
			return fmt.Errorf("write catalog line: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush catalog file: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

// coerceInt applies the tolerant-parse policy: unparsable input becomes 0.
func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
