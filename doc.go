// Package moviecat provides a concurrent TCP record-management service for a
// movie catalog.
//
// Clients connect over a stream socket, select an operation by numeric code,
// exchange a small fixed sequence of text fields, and receive a formatted
// text response. The server keeps the full catalog in memory and rewrites a
// flat delimited file after every mutation, so the on-disk copy always
// reflects the last successful change.
//
// # Architecture Overview
//
// MovieCat consists of several key components:
//
//   - Server (internal/server): accept loop plus one goroutine per
//     connection running the request/response loop
//   - Catalog (pkg/catalog): the mutex-guarded in-memory store, the unit of
//     both locking and persistence
//   - Storage (pkg/storage): the flat-file persistence adapter with atomic
//     full-file rewrites
//   - Protocol (pkg/protocol): the plain-text wire format (op codes,
//     newline-delimited fields, blank-line-terminated responses)
//   - Client SDK (pkg/client): a thin connected client returning server
//     response text verbatim
//   - Configuration (pkg/config): flags, MOVIECAT_* environment variables
//     and .env files
//
// # Quick Start
//
// Server:
//
//	cfg := config.LoadServerConfig()
//	store := storage.NewCSVStore(cfg.DataFile)
//	movies, _ := store.Load()
//	cat := catalog.New(cfg.MaxMovies, store, logger)
//	cat.Restore(movies)
//	log.Fatal(server.New(cfg, cat).Start())
//
// Client:
//
//	c, _ := client.New("localhost:8000")
//	defer c.Close()
//	resp, _ := c.Register("Inception", "Nolan", 2010, []string{"SciFi"})
//	fmt.Println(resp)
package moviecat
