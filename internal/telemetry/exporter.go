package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	totalDesc = prometheus.NewDesc(
		"weft_display_total",
		"Total packets reported by the dashboard at the last successful poll.",
		nil, nil,
	)
	acceptedDesc = prometheus.NewDesc(
		"weft_display_accepted",
		"Accepted packets reported by the dashboard.",
		nil, nil,
	)
	droppedDesc = prometheus.NewDesc(
		"weft_display_dropped",
		"Dropped packets reported by the dashboard.",
		nil, nil,
	)
	ppsDesc = prometheus.NewDesc(
		"weft_display_pps",
		"Packets per second reported by the dashboard.",
		nil, nil,
	)
	availableDesc = prometheus.NewDesc(
		"weft_display_available",
		"1 if the last stats poll succeeded, 0 otherwise.",
		nil, nil,
	)
	dosStateDesc = prometheus.NewDesc(
		"weft_dos_state",
		"Current DOS indicator; exactly one state is 1.",
		[]string{"state"}, nil,
	)
)

// Exporter publishes the reconciled display as Prometheus metrics. Value
// gauges are omitted while the display is unavailable so scrapers never
// see stale counters as live data.
type Exporter struct {
	rec *Reconciler
}

// NewExporter creates an Exporter reading from rec.
func NewExporter(rec *Reconciler) *Exporter {
	return &Exporter{rec: rec}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- totalDesc
	ch <- acceptedDesc
	ch <- droppedDesc
	ch <- ppsDesc
	ch <- availableDesc
	ch <- dosStateDesc
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	d := e.rec.Display()

	available := 0.0
	if d.Available {
		available = 1
	}
	ch <- prometheus.MustNewConstMetric(availableDesc, prometheus.GaugeValue, available)
	if !d.Available {
		return
	}

	ch <- prometheus.MustNewConstMetric(totalDesc, prometheus.GaugeValue, float64(d.Total))
	ch <- prometheus.MustNewConstMetric(acceptedDesc, prometheus.GaugeValue, float64(d.Accepted))
	ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.GaugeValue, float64(d.Dropped))
	ch <- prometheus.MustNewConstMetric(ppsDesc, prometheus.GaugeValue, d.PPS)
	for _, s := range []DOSState{StateNormal, StateWarn, StateDrop} {
		v := 0.0
		if d.State == s {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(dosStateDesc, prometheus.GaugeValue, v, s.String())
	}
}
