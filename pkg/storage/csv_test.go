package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/storage"
)

func TestRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	store := storage.NewCSVStore(path)

	movies := []catalog.Movie{
		{ID: 1, Title: "Inception", Director: "Nolan", Year: 2010, Genres: []string{"SciFi", "Thriller"}},
		{ID: 3, Title: "Alien", Director: "Scott", Year: 1979, Genres: []string{"Horror"}},
		{ID: 2, Title: "Up", Director: "Docter", Year: 2009, Genres: []string{"Animation", "Family"}},
	}

	require.NoError(t, store.Save(movies))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, movies, got, "load after save must preserve records and order")
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	store := storage.NewCSVStore(filepath.Join(t.TempDir(), "nope.csv"))

	movies, err := store.Load()
	require.NoError(t, err, "a missing catalog file is not an error")
	assert.Empty(t, movies)
}

func TestLoadSkipsShortLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	content := "1,Inception,Nolan,2010,SciFi;Thriller\n" +
		"garbage line\n" +
		"2,Alien,Scott\n" +
		"\n" +
		"3,Up,Docter,2009,Animation\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	movies, err := storage.NewCSVStore(path).Load()
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, "Up", movies[1].Title)
}

func TestLoadCoercesBadNumbersToZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte("oops,Inception,Nolan,year,SciFi\n"), 0o644))

	movies, err := storage.NewCSVStore(path).Load()
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 0, movies[0].ID)
	assert.Equal(t, 0, movies[0].Year)
	assert.Equal(t, "Inception", movies[0].Title)
}

func TestSaveRewritesFromScratch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	store := storage.NewCSVStore(path)

	require.NoError(t, store.Save([]catalog.Movie{
		{ID: 1, Title: "One", Director: "A", Year: 2001, Genres: []string{"Drama"}},
		{ID: 2, Title: "Two", Director: "B", Year: 2002, Genres: []string{"Drama"}},
	}))
	require.NoError(t, store.Save([]catalog.Movie{
		{ID: 2, Title: "Two", Director: "B", Year: 2002, Genres: []string{"Drama"}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2,Two,B,2002,Drama\n", string(data))
}

func TestGenresKeepSecondarySeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	store := storage.NewCSVStore(path)

	movies := []catalog.Movie{
		{ID: 1, Title: "Movie", Director: "Someone", Year: 2000, Genres: []string{"SciFi", "Thriller", "Drama"}},
	}
	require.NoError(t, store.Save(movies))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Movie,Someone,2000,SciFi;Thriller;Drama\n", string(data))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, movies, got)
}
