package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives counters from the scan and report paths.
type Recorder interface {
	IncChatsScanned()
	IncChatsSkipped()
	AddMessagesCounted(n int)
	AddJoinEventsCounted(n int)
	IncReceiptLookups()
	IncCacheHits()
	IncCacheMisses()
	IncReportsWritten(kind string)
	ObserveScanDuration(d time.Duration)
	Handler() http.Handler
}

type Provider struct {
	registry       *prometheus.Registry
	chatsScanned   prometheus.Counter
	chatsSkipped   prometheus.Counter
	messages       prometheus.Counter
	joinEvents     prometheus.Counter
	receiptLookups prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	reportsWritten *prometheus.CounterVec
	scanDuration   prometheus.Histogram
}

// New returns a prometheus-backed recorder on its own registry, or a no-op
// recorder when metrics are disabled.
func New(enabled bool) Recorder {
	if !enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	p := &Provider{
		registry: reg,
		chatsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_chats_scanned_total",
			Help: "Chats whose history was scanned for activity",
		}),
		chatsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_chats_skipped_total",
			Help: "Chats skipped because nothing countable was found",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_messages_counted_total",
			Help: "Messages that counted as activity",
		}),
		joinEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_join_events_counted_total",
			Help: "Join events that counted as activity",
		}),
		receiptLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_receipt_lookups_total",
			Help: "Delivery metadata lookups for operator messages",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_receipt_cache_hits_total",
			Help: "Receipt lookups served from cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "community_receipt_cache_misses_total",
			Help: "Receipt lookups that went to the platform",
		}),
		reportsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "community_reports_written_total",
			Help: "CSV reports written",
		}, []string{"kind"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "community_scan_duration_seconds",
			Help:    "Duration of inactivity scans",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}

	reg.MustRegister(
		p.chatsScanned,
		p.chatsSkipped,
		p.messages,
		p.joinEvents,
		p.receiptLookups,
		p.cacheHits,
		p.cacheMisses,
		p.reportsWritten,
		p.scanDuration,
	)

	return p
}

func (p *Provider) IncChatsScanned()                    { p.chatsScanned.Inc() }
func (p *Provider) IncChatsSkipped()                    { p.chatsSkipped.Inc() }
func (p *Provider) AddMessagesCounted(n int)            { p.messages.Add(float64(n)) }
func (p *Provider) AddJoinEventsCounted(n int)          { p.joinEvents.Add(float64(n)) }
func (p *Provider) IncReceiptLookups()                  { p.receiptLookups.Inc() }
func (p *Provider) IncCacheHits()                       { p.cacheHits.Inc() }
func (p *Provider) IncCacheMisses()                     { p.cacheMisses.Inc() }
func (p *Provider) IncReportsWritten(kind string)       { p.reportsWritten.WithLabelValues(kind).Inc() }
func (p *Provider) ObserveScanDuration(d time.Duration) { p.scanDuration.Observe(d.Seconds()) }

// Handler exposes the registry in the prometheus text format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncChatsScanned()                  {}
func (n *noopMetrics) IncChatsSkipped()                  {}
func (n *noopMetrics) AddMessagesCounted(_ int)          {}
func (n *noopMetrics) AddJoinEventsCounted(_ int)        {}
func (n *noopMetrics) IncReceiptLookups()                {}
func (n *noopMetrics) IncCacheHits()                     {}
func (n *noopMetrics) IncCacheMisses()                   {}
func (n *noopMetrics) IncReportsWritten(_ string)        {}
func (n *noopMetrics) ObserveScanDuration(time.Duration) {}
func (n *noopMetrics) Handler() http.Handler             { return http.NotFoundHandler() }
