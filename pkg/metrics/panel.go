package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pricepanel"

// PanelMetrics tracks device traffic and catalog ingestion. A nil *PanelMetrics is a no-op.
type PanelMetrics struct {
	playlists      *prometheus.CounterVec
	playlistItems  *prometheus.HistogramVec
	pairings       *prometheus.CounterVec
	ingestRows     *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
}

// NewPanelMetrics registers the panel collectors on the provided registerer.
func NewPanelMetrics(reg prometheus.Registerer) *PanelMetrics {
	if reg == nil {
		return &PanelMetrics{}
	}
	m := &PanelMetrics{
		playlists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playlist_requests_total",
			Help:      "Playlist requests by outcome.",
		}, []string{"result"}),
		playlistItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "playlist_items",
			Help:      "Number of items in composed playlists.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"kind"}),
		pairings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_attempts_total",
			Help:      "Pairing code resolutions by outcome.",
		}, []string{"result"}),
		ingestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rows_total",
			Help:      "Spreadsheet rows processed by outcome.",
		}, []string{"outcome"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of spreadsheet ingestion runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
	}
	reg.MustRegister(m.playlists, m.playlistItems, m.pairings, m.ingestRows, m.ingestDuration)
	return m
}

func (m *PanelMetrics) PlaylistServed(products, videos int) {
	if m == nil || m.playlists == nil {
		return
	}
	m.playlists.WithLabelValues("served").Inc()
	m.playlistItems.WithLabelValues("table").Observe(float64(products))
	m.playlistItems.WithLabelValues("video").Observe(float64(videos))
}

func (m *PanelMetrics) PlaylistNotFound() {
	if m == nil || m.playlists == nil {
		return
	}
	m.playlists.WithLabelValues("not_found").Inc()
}

// PairingResolved counts a resolution attempt; matched is false for unknown codes.
func (m *PanelMetrics) PairingResolved(matched bool) {
	if m == nil || m.pairings == nil {
		return
	}
	result := "unknown_code"
	if matched {
		result = "matched"
	}
	m.pairings.WithLabelValues(result).Inc()
}

func (m *PanelMetrics) IngestFinished(format string, created, updated, skipped int, took time.Duration) {
	if m == nil || m.ingestRows == nil {
		return
	}
	m.ingestRows.WithLabelValues("created").Add(float64(created))
	m.ingestRows.WithLabelValues("updated").Add(float64(updated))
	m.ingestRows.WithLabelValues("skipped").Add(float64(skipped))
	m.ingestDuration.WithLabelValues(normalizeLabel(format)).Observe(took.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
