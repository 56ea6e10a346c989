package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	xlog "github.com/moviecat/moviecat/internal/log"
	"github.com/moviecat/moviecat/internal/server"
	"github.com/moviecat/moviecat/pkg/catalog"
	"github.com/moviecat/moviecat/pkg/config"
	"github.com/moviecat/moviecat/pkg/storage"
)

func main() {
	cfg := config.LoadServerConfig()

	xlog.Configure(xlog.Config{Level: cfg.LogLevel})
	logger := xlog.WithComponent("main")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	store := storage.NewCSVStore(cfg.DataFile)
	movies, err := store.Load()
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.DataFile).Msg("failed to load catalog file")
	}

	cat := catalog.New(cfg.MaxMovies, store, xlog.WithComponent("catalog"))
	cat.Restore(movies)
	logger.Info().Int("movies", cat.Len()).Str("file", cfg.DataFile).Msg("catalog loaded")

	srv := server.New(cfg, cat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		return srv.Stop()
	})

	if cfg.MetricsAddr != "" {
		metricsSrv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
