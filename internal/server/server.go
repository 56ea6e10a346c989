// Package server implements the MovieCat TCP server: connection acceptance
// and the per-connection request loop over the plain-text protocol.
//
// Architecture:
//   - One accept loop; every accepted connection gets its own goroutine.
//     There is no cap on concurrent connections — a deliberate, documented
//     capacity limitation inherited from the protocol's origins.
//   - Each handler loop reads an operation code, reads that operation's
//     fixed field sequence, performs exactly one catalog call, and writes
//     one formatted text response.
//   - Request fields are read outside the catalog lock; only the catalog
//     call (including its persistence side-effect) runs under it. A peer
//     that stalls mid-request therefore starves only itself.
//   - No read or write deadlines: clients are interactive and may sit idle
//     between requests indefinitely.
//
// Example usage:
//
//	srv := server.New(cfg, cat)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	xlog "github.com/moviecat/moviecat/internal/log"
	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/config"
	"github.com/moviecat/moviecat/pkg/protocol"
)

// Server accepts MovieCat protocol connections and serves catalog requests.
type Server struct {
	catalog  *catalog.Catalog
	cfg      *config.ServerConfig
	logger   zerolog.Logger
	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server for the given configuration and catalog. The server
// does not listen until Start is called.
func New(cfg *config.ServerConfig, cat *catalog.Catalog) *Server {
	return &Server{
		catalog: cat,
		cfg:     cfg,
		logger:  xlog.WithComponent("server"),
	}
}

// Start binds the listening socket and serves connections until Stop is
// called or the listener fails. A failure to accept one connection is logged
// and does not stop the accept loop. Start returns nil after Stop closes the
// listener.
func (s *Server) Start() error {
	addr := s.cfg.Address()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	catalogSize.Set(float64(s.catalog.Len()))
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("moviecat server listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn().Err(err).Msg("failed to accept connection")
			continue
		}

		go s.handleConnection(conn)
	}
}

// Stop closes the listener, causing Start to return. Connections already
// being served run to completion.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Addr returns the listener's address, or nil before Start has bound the
// socket. Useful when the configured port is 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// handleConnection runs one connection's request loop to completion. The
// loop ends on a quit code, peer disconnect, or a read/write failure; none
// of those affect other connections or the catalog.
func (s *Server) handleConnection(conn net.Conn) {
	connectionsTotal.Inc()
	connectionsActive.Inc()
	defer connectionsActive.Dec()

	logger := s.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Debug().Msg("client connected")

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug().Err(err).Msg("error closing connection")
		}
	}()

	r := bufio.NewReader(conn)
	for {
		field, err := protocol.ReadField(r)
		if err != nil {
			logger.Debug().Msg("client disconnected")
			return
		}

		op := protocol.OpCode(protocol.CoerceInt(field))
		if op == protocol.OpQuit {
			logger.Debug().Msg("client requested close")
			return
		}

		resp, err := s.execute(r, op)
		if err != nil {
			logger.Warn().Err(err).Stringer("op", op).Msg("failed to read request fields")
			return
		}
		requestsTotal.WithLabelValues(op.String()).Inc()

		if err := protocol.WriteResponse(conn, resp); err != nil {
			logger.Warn().Err(err).Stringer("op", op).Msg("failed to write response")
			return
		}
	}
}

// execute reads the operation's field sequence and performs its catalog
// call. The returned string is the complete response text; a non-nil error
// means the connection failed mid-request and must be dropped.
func (s *Server) execute(r *bufio.Reader, op protocol.OpCode) (string, error) {
	switch op {
	case protocol.OpRegister:
		return s.handleRegister(r)
	case protocol.OpAddGenre:
		return s.handleAddGenre(r)
	case protocol.OpRemove:
		return s.handleRemove(r)
	case protocol.OpListTitles:
		return s.handleListTitles()
	case protocol.OpListMovies:
		return s.handleListMovies()
	case protocol.OpGetMovie:
		return s.handleGetMovie(r)
	case protocol.OpListByGenre:
		return s.handleListByGenre(r)
	default:
		// Unknown codes consume no fields.
		return "Invalid option.", nil
	}
}

func (s *Server) handleRegister(r *bufio.Reader) (string, error) {
	fields, err := readFields(r, 4)
	if err != nil {
		return "", err
	}
	title, director, yearField, genresField := fields[0], fields[1], fields[2], fields[3]

	id, err := s.catalog.Register(title, director, protocol.CoerceInt(yearField), catalog.SplitGenres(genresField))
	if errors.Is(err, catalog.ErrCatalogFull) {
		return "Error: movie limit reached.", nil
	}
	if err != nil {
		return "", err
	}

	catalogSize.Set(float64(s.catalog.Len()))
	return fmt.Sprintf("Movie registered successfully! ID: %d", id), nil
}

func (s *Server) handleAddGenre(r *bufio.Reader) (string, error) {
	fields, err := readFields(r, 2)
	if err != nil {
		return "", err
	}
	id := protocol.CoerceInt(fields[0])
	genre := fields[1]

	if err := s.catalog.AddGenre(id, genre); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Sprintf("Error: movie with ID %d not found.", id), nil
		}
		return "", err
	}
	return fmt.Sprintf("Genre '%s' added to movie ID %d.", genre, id), nil
}

func (s *Server) handleRemove(r *bufio.Reader) (string, error) {
	fields, err := readFields(r, 1)
	if err != nil {
		return "", err
	}
	id := protocol.CoerceInt(fields[0])

	if err := s.catalog.Remove(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Sprintf("Error: movie with ID %d not found.", id), nil
		}
		return "", err
	}

	catalogSize.Set(float64(s.catalog.Len()))
	return fmt.Sprintf("Movie with ID %d removed successfully.", id), nil
}

func (s *Server) handleListTitles() (string, error) {
	titles := s.catalog.Titles()
	if len(titles) == 0 {
		return "No movies registered.", nil
	}

	var b strings.Builder
	b.WriteString("Movies (ID - Title):\n")
	for _, t := range titles {
		fmt.Fprintf(&b, "%d - %s\n", t.ID, t.Name)
	}
	return b.String(), nil
}

func (s *Server) handleListMovies() (string, error) {
	movies := s.catalog.Movies()
	if len(movies) == 0 {
		return "No movies registered.", nil
	}

	var b strings.Builder
	b.WriteString("All movies:\n")
	for _, m := range movies {
		b.WriteString(formatMovieLine(m))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (s *Server) handleGetMovie(r *bufio.Reader) (string, error) {
	fields, err := readFields(r, 1)
	if err != nil {
		return "", err
	}
	id := protocol.CoerceInt(fields[0])

	m, err := s.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Sprintf("Error: movie with ID %d not found.", id), nil
		}
		return "", err
	}

	return fmt.Sprintf("Movie details (ID %d):\nTitle: %s\nDirector: %s\nYear: %d\nGenres: %s",
		m.ID, m.Title, m.Director, m.Year, m.GenreLine()), nil
}

func (s *Server) handleListByGenre(r *bufio.Reader) (string, error) {
	fields, err := readFields(r, 1)
	if err != nil {
		return "", err
	}
	genre := fields[0]

	matches, total := s.catalog.ByGenre(genre)
	if total == 0 {
		return "No movies registered.", nil
	}
	if len(matches) == 0 {
		return "No movies found for that genre.", nil
	}

	var b strings.Builder
	b.WriteString("Movies matching genre:\n")
	for _, m := range matches {
		b.WriteString(formatMovieLine(m))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// readFields reads n request fields in order. Fields arrive outside the
// catalog lock.
func readFields(r *bufio.Reader, n int) ([]string, error) {
	fields := make([]string, n)
	for i := range fields {
		field, err := protocol.ReadField(r)
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}
	return fields, nil
}

func formatMovieLine(m catalog.Movie) string {
	return fmt.Sprintf("ID: %d | Title: %s | Director: %s | Year: %d | Genres: %s",
		m.ID, m.Title, m.Director, m.Year, m.GenreLine())
}
