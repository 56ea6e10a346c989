package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled protocol requests by operation, including
	// requests that answered with a not-found or invalid-option message.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviecat_requests_total",
		Help: "Total protocol requests handled, by operation",
	}, []string{"op"})

	// connectionsTotal counts accepted client connections.
	connectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviecat_connections_total",
		Help: "Total accepted client connections",
	})

	// connectionsActive tracks currently served connections. There is no
	// connection cap, so this gauge is the way to watch fan-out in production.
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moviecat_connections_active",
		Help: "Client connections currently being served",
	})

	// catalogSize mirrors the number of live movies in the catalog.
	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moviecat_catalog_size",
		Help: "Number of movies currently in the catalog",
	})
)
