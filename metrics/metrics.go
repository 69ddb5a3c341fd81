// Package metrics exposes Prometheus instrumentation for the sync core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediasync_uploads_total",
			Help: "Total number of upload attempts by result",
		},
		[]string{"result"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediasync_upload_bytes_total",
			Help: "Total bytes handed to the gateway by confirmed uploads",
		},
	)

	BulkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediasync_bulk_operations_total",
			Help: "Total number of bulk operations by kind and aggregate outcome",
		},
		[]string{"kind", "outcome"},
	)

	BulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediasync_bulk_items_total",
			Help: "Total number of per-item bulk gateway calls by kind and result",
		},
		[]string{"kind", "result"},
	)

	AssetsCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediasync_assets_cached",
			Help: "Number of assets currently tracked in the cache",
		},
	)
)
