package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/odyssey-erp/catalog/internal/shared"
)

// CatalogMetrics counts catalog fetches and delete outcomes.
type CatalogMetrics struct {
	fetches       *prometheus.CounterVec
	fetchedRows   prometheus.Histogram
	assetDeletes  *prometheus.CounterVec
	recordDeletes *prometheus.CounterVec
}

func newCatalogMetrics(registerer prometheus.Registerer) *CatalogMetrics {
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Catalog fetches by status.",
	}, []string{"status"})
	rows := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_fetch_rows",
		Help:    "Products returned per successful fetch.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	assets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_asset_delete_total",
		Help: "Product image deletions by status.",
	}, []string{"status"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_record_delete_total",
		Help: "Product record deletions by status.",
	}, []string{"status"})
	registerer.MustRegister(fetches, rows, assets, records)
	return &CatalogMetrics{fetches: fetches, fetchedRows: rows, assetDeletes: assets, recordDeletes: records}
}

// status labels an outcome. A target that was already gone is "missing".
func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, shared.ErrNotFound):
		return "missing"
	default:
		return "failure"
	}
}

// ObserveFetch records a catalog fetch.
func (m *CatalogMetrics) ObserveFetch(count int, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.fetchedRows.Observe(float64(count))
	}
}

// ObserveAssetDelete records an image deletion attempt.
func (m *CatalogMetrics) ObserveAssetDelete(err error) {
	if m == nil {
		return
	}
	m.assetDeletes.WithLabelValues(status(err)).Inc()
}

// ObserveRecordDelete records a record deletion attempt.
func (m *CatalogMetrics) ObserveRecordDelete(err error) {
	if m == nil {
		return
	}
	m.recordDeletes.WithLabelValues(status(err)).Inc()
}
