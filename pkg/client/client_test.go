package client_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecat/moviecat/internal/server"
	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/client"
	"github.com/moviecat/moviecat/pkg/config"
)

func startServer(t *testing.T) string {
	t.Helper()

	cfg := &config.ServerConfig{
		Host:      "127.0.0.1",
		Port:      0,
		DataFile:  "unused.csv",
		MaxMovies: config.DefaultMaxMovies,
		LogLevel:  "info",
	}
	srv := server.New(cfg, catalog.New(cfg.MaxMovies, nil, zerolog.Nop()))

	go func() {
		_ = srv.Start()
	}()
	t.Cleanup(func() { _ = srv.Stop() })

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != nil {
			return addr.String()
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server did not start listening")
	return ""
}

func TestClientOperations(t *testing.T) {
	addr := startServer(t)

	c, err := client.New(addr)
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Register("Inception", "Nolan", 2010, []string{"SciFi", "Thriller"})
	require.NoError(t, err)
	assert.Equal(t, "Movie registered successfully! ID: 1", resp)

	resp, err = c.AddGenre(1, "Drama")
	require.NoError(t, err)
	assert.Equal(t, "Genre 'Drama' added to movie ID 1.", resp)

	resp, err = c.GetMovie(1)
	require.NoError(t, err)
	assert.Contains(t, resp, "Title: Inception")
	assert.Contains(t, resp, "Genres: SciFi;Thriller;Drama")

	resp, err = c.ListTitles()
	require.NoError(t, err)
	assert.Equal(t, "Movies (ID - Title):\n1 - Inception", resp)

	resp, err = c.ListMovies()
	require.NoError(t, err)
	assert.Contains(t, resp, "ID: 1 | Title: Inception | Director: Nolan | Year: 2010")

	resp, err = c.ListByGenre("Thriller")
	require.NoError(t, err)
	assert.Contains(t, resp, "Inception")

	resp, err = c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "Movie with ID 1 removed successfully.", resp)

	resp, err = c.GetMovie(1)
	require.NoError(t, err)
	assert.Equal(t, "Error: movie with ID 1 not found.", resp)
}

func TestClientValidatesConfig(t *testing.T) {
	_, err := client.NewWithConfig(&config.ClientConfig{Addr: "no-port", DialTimeout: 5})
	assert.Error(t, err)
}

func TestClientConcurrentUse(t *testing.T) {
	addr := startServer(t)

	c, err := client.New(addr)
	require.NoError(t, err)
	defer c.Close()

	// Requests from concurrent goroutines must not interleave on the wire.
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := c.ListTitles()
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		assert.NoError(t, <-done)
	}
}
