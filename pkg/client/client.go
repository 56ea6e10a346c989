// Package client provides a small SDK for talking to a MovieCat server.
//
// The client holds one TCP connection and issues requests over it: an
// operation code, the operation's fields in order, then one text response.
// Responses are the server's human-readable text, returned verbatim so
// callers can display them directly.
//
// The client is safe for concurrent use; a mutex serializes requests on the
// shared connection, since a request is a multi-message conversation that
// must not interleave with another.
//
// Basic usage:
//
//	c, err := client.New("localhost:8000")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Register("Inception", "Nolan", 2010, []string{"SciFi", "Thriller"})
//	fmt.Println(resp)
package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/config"
	"github.com/moviecat/moviecat/pkg/protocol"
)

// Client is a connected MovieCat protocol client.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

// New connects to the server at addr ("host:port") with the default dial
// timeout.
func New(addr string) (*Client, error) {
	return NewWithConfig(&config.ClientConfig{
		Addr:        addr,
		DialTimeout: config.DefaultDialTimeoutSecs,
	})
}

// NewWithConfig connects using an explicit client configuration.
func NewWithConfig(cfg *config.ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	conn, err := net.DialTimeout("tcp", cfg.Addr, time.Duration(cfg.DialTimeout)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Addr, err)
	}

	return &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
	}, nil
}

// Close tells the server to end the conversation and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Best-effort: the quit code has no response, so a write failure here
	// only means the server already saw the disconnect.
	_ = protocol.WriteField(c.conn, strconv.Itoa(int(protocol.OpQuit)))
	return c.conn.Close()
}

// Register registers a new movie and returns the server's response text,
// which contains the assigned ID on success.
func (c *Client) Register(title, director string, year int, genres []string) (string, error) {
	return c.do(protocol.OpRegister, title, director, strconv.Itoa(year), strings.Join(genres, catalog.GenreSeparator))
}

// AddGenre appends a genre to the movie with the given ID.
func (c *Client) AddGenre(id int, genre string) (string, error) {
	return c.do(protocol.OpAddGenre, strconv.Itoa(id), genre)
}

// Remove deletes the movie with the given ID.
func (c *Client) Remove(id int) (string, error) {
	return c.do(protocol.OpRemove, strconv.Itoa(id))
}

// ListTitles returns the (id, title) listing.
func (c *Client) ListTitles() (string, error) {
	return c.do(protocol.OpListTitles)
}

// ListMovies returns the full-info listing of every movie.
func (c *Client) ListMovies() (string, error) {
	return c.do(protocol.OpListMovies)
}

// GetMovie returns the full info of one movie.
func (c *Client) GetMovie(id int) (string, error) {
	return c.do(protocol.OpGetMovie, strconv.Itoa(id))
}

// ListByGenre returns the full info of every movie whose genre list contains
// the given genre as a substring.
func (c *Client) ListByGenre(genre string) (string, error) {
	return c.do(protocol.OpListByGenre, genre)
}

// do sends one request (op code, then fields, each as its own line) and
// reads the response block.
func (c *Client) do(op protocol.OpCode, fields ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := protocol.WriteField(c.conn, strconv.Itoa(int(op))); err != nil {
		return "", fmt.Errorf("send op %s: %w", op, err)
	}
	for _, field := range fields {
		if err := protocol.WriteField(c.conn, field); err != nil {
			return "", fmt.Errorf("send %s field: %w", op, err)
		}
	}

	resp, err := protocol.ReadResponse(c.r)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", op, err)
	}
	return resp, nil
}
