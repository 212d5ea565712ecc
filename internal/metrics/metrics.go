package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Market metrics
	MarketCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phoenix_quoter_market_count",
		Help: "Total number of registered markets",
	})

	MarketRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phoenix_quoter_market_refreshes_total",
		Help: "Total number of completed market refresh cycles",
	})

	MarketRefreshFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phoenix_quoter_market_refresh_failures_total",
			Help: "Total number of failed market refreshes",
		},
		[]string{"reason"},
	)

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoenix_quoter_refresh_duration_seconds",
		Help:    "Full refresh cycle duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	LadderDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "phoenix_quoter_ladder_depth",
			Help: "Number of L2 levels per market side after the last refresh",
		},
		[]string{"market", "side"},
	)

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phoenix_quoter_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"status"},
	)

	QuoteSimDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoenix_quoter_quote_sim_duration_seconds",
		Help:    "Single ladder-walk simulation duration in seconds",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	PriceImpact = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoenix_quoter_price_impact_bps",
		Help:    "Quoted price impact in basis points",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 300, 500, 1000, 5000},
	})

	NotEnoughLiquidity = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phoenix_quoter_not_enough_liquidity_total",
		Help: "Quotes where the ladder could not absorb the requested budget",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phoenix_quoter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phoenix_quoter_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
