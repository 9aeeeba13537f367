package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DispatchRefusals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_dispatch_refusals_total",
		Help: "Operations refused because of an unknown protocol or an unsupported operation",
	}, []string{"protocol", "reason"})
	SkippedRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_mapping_skipped_rows_total",
		Help: "Raw auction rows skipped by the mapper",
	}, []string{"protocol"})
	SnapshotReplacements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_snapshot_replacements_total",
		Help: "Snapshots atomically replaced in the store",
	}, []string{"protocol"})
	StaleRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_snapshot_stale_total",
		Help: "Refreshes or operations rejected as stale",
	}, []string{"protocol"})
	OperationsBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_operations_built_total",
		Help: "Transaction bundles handed to the transaction layer",
	}, []string{"protocol", "kind"})
	PriceTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_price_ticks_total",
		Help: "Price ticks published by the feed leader",
	})
	FeedConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_feed_connections",
		Help: "Open price feed websocket connections",
	})
	BidsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_bids_recorded_total",
		Help: "Accepted bids written to bid history",
	})
)

func init() {
	prometheus.MustRegister(
		DispatchRefusals,
		SkippedRows,
		SnapshotReplacements,
		StaleRefreshes,
		OperationsBuilt,
		PriceTicks,
		FeedConnections,
		BidsRecorded,
	)
}
