// Package catalog provides the in-memory movie catalog that backs the MovieCat server.
//
// The catalog owns the full set of registered movies and is the unit of both
// locking and persistence. All operations are thread-safe: a single RWMutex
// serializes mutations from concurrent connections, and every successful
// mutation hands a snapshot to the configured Saver before the lock is
// released, so the on-disk copy never interleaves partial writes.
//
// Storage is a flat slice. Removal swaps the last movie into the freed slot
// and truncates, which is O(1) but means iteration order is not stable across
// removals. Callers that care about order must not assume insertion order
// once a removal has happened.
//
// Example usage:
//
//	cat := catalog.New(1000, store, logger)
//	id, err := cat.Register("Inception", "Nolan", 2010, []string{"SciFi", "Thriller"})
//	movie, err := cat.Get(id)
//	matches, total := cat.ByGenre("SciFi")
package catalog

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// GenreSeparator joins the tokens of a movie's genre list on the wire and on
// disk, e.g. "SciFi;Thriller".
const GenreSeparator = ";"

var (
	// ErrNotFound is returned when no movie has the requested ID.
	ErrNotFound = errors.New("movie not found")

	// ErrCatalogFull is returned by Register when the catalog already holds
	// the configured maximum number of movies.
	ErrCatalogFull = errors.New("movie limit reached")
)

// Movie is one managed record. IDs are server-assigned and unique across all
// live movies. The genre list preserves duplicates and insertion order and is
// never empty after registration.
type Movie struct {
	ID       int
	Title    string
	Director string
	Year     int
	Genres   []string
}

// GenreLine returns the movie's genres joined with GenreSeparator, the form
// used on the wire and in the persisted file.
func (m Movie) GenreLine() string {
	return strings.Join(m.Genres, GenreSeparator)
}

func (m Movie) clone() Movie {
	m.Genres = append([]string(nil), m.Genres...)
	return m
}

// SplitGenres splits a GenreSeparator-joined genre string into its tokens.
// An empty string yields nil rather than a single empty token.
func SplitGenres(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, GenreSeparator)
}

// Title is one entry of the (id, title) listing.
type Title struct {
	ID   int
	Name string
}

// Saver persists a full catalog snapshot. It is called while the catalog lock
// is held, so implementations never see two overlapping calls.
type Saver interface {
	Save(movies []Movie) error
}

// Catalog is the thread-safe movie store. The zero value is not usable;
// construct it with New.
type Catalog struct {
	mu      sync.RWMutex
	movies  []Movie
	maxSize int
	saver   Saver
	logger  zerolog.Logger
}

// New creates an empty Catalog bounded at maxSize movies. saver may be nil,
// in which case mutations are kept in memory only (useful in tests).
func New(maxSize int, saver Saver, logger zerolog.Logger) *Catalog {
	return &Catalog{
		maxSize: maxSize,
		saver:   saver,
		logger:  logger,
	}
}

// Restore replaces the catalog contents with previously persisted movies.
// It is meant for startup, before the server starts accepting connections,
// and does not trigger a save. Movies beyond the configured maximum are
// dropped, so the capacity bound holds even when the file outgrew a lowered
// limit.
func (c *Catalog) Restore(movies []Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(movies) > c.maxSize {
		c.logger.Warn().
			Int("loaded", len(movies)).
			Int("max", c.maxSize).
			Msg("movie limit reached, truncating restored catalog")
		movies = movies[:c.maxSize]
	}

	c.movies = make([]Movie, 0, len(movies))
	for _, m := range movies {
		c.movies = append(c.movies, m.clone())
	}
}

// Register adds a new movie and returns its assigned ID. The ID is one more
// than the highest live ID (1 for an empty catalog); IDs freed by removals
// are not reused unless the removed ID was the maximum.
//
// Returns ErrCatalogFull when the catalog is at capacity; the catalog is not
// modified in that case.
func (c *Catalog) Register(title, director string, year int, genres []string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.movies) >= c.maxSize {
		return 0, ErrCatalogFull
	}

	id := c.nextID()
	c.movies = append(c.movies, Movie{
		ID:       id,
		Title:    title,
		Director: director,
		Year:     year,
		Genres:   append([]string(nil), genres...),
	})

	c.persist()
	return id, nil
}

// AddGenre appends a genre to the movie's genre list. On the wire and on disk
// the new genre is joined to the existing ones with GenreSeparator; a movie
// with no genres yet gets the genre set directly, with no leading separator.
//
// Returns ErrNotFound if no movie has the given ID.
func (c *Catalog) AddGenre(id int, genre string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	c.movies[i].Genres = append(c.movies[i].Genres, genre)

	c.persist()
	return nil
}

// Remove deletes the movie with the given ID by overwriting its slot with
// the current last movie and truncating. This reorders iteration; the
// remaining movies are unchanged otherwise.
//
// Returns ErrNotFound if no movie has the given ID.
func (c *Catalog) Remove(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	last := len(c.movies) - 1
	c.movies[i] = c.movies[last]
	c.movies[last] = Movie{}
	c.movies = c.movies[:last]

	c.persist()
	return nil
}

// Get returns a copy of the movie with the given ID, or ErrNotFound.
func (c *Catalog) Get(id int) (Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return Movie{}, ErrNotFound
	}
	return c.movies[i].clone(), nil
}

// Titles returns an (id, title) snapshot in current iteration order.
func (c *Catalog) Titles() []Title {
	c.mu.RLock()
	defer c.mu.RUnlock()

	titles := make([]Title, 0, len(c.movies))
	for _, m := range c.movies {
		titles = append(titles, Title{ID: m.ID, Name: m.Title})
	}
	return titles
}

// Movies returns a full snapshot in current iteration order.
func (c *Catalog) Movies() []Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshotLocked()
}

// ByGenre returns all movies whose joined genre string contains genre as a
// substring, together with the total number of movies in the same snapshot.
// The match is deliberately substring containment, not exact token equality:
// a movie with genre "Romantic-Comedy" matches the query "Comedy". The total
// lets callers distinguish an empty catalog from a query with no matches
// without a second lock acquisition.
func (c *Catalog) ByGenre(genre string) ([]Movie, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []Movie
	for _, m := range c.movies {
		if strings.Contains(m.GenreLine(), genre) {
			matches = append(matches, m.clone())
		}
	}
	return matches, len(c.movies)
}

// Len returns the number of live movies.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.movies)
}

// nextID computes max(live IDs) + 1. Caller must hold the lock.
func (c *Catalog) nextID() int {
	maxID := 0
	for _, m := range c.movies {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}

// indexOf returns the slot of the movie with the given ID, or -1.
// Caller must hold the lock.
func (c *Catalog) indexOf(id int) int {
	for i, m := range c.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) snapshotLocked() []Movie {
	snapshot := make([]Movie, 0, len(c.movies))
	for _, m := range c.movies {
		snapshot = append(snapshot, m.clone())
	}
	return snapshot
}

// persist hands a snapshot to the Saver. Durability is best-effort: a save
// failure is logged and the in-memory mutation stands. Caller must hold the
// lock, which is what guarantees saves never interleave.
func (c *Catalog) persist() {
	if c.saver == nil {
		return
	}
	if err := c.saver.Save(c.snapshotLocked()); err != nil {
		c.logger.Error().Err(err).Int("movies", len(c.movies)).Msg("failed to persist catalog")
	}
}
