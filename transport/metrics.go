package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposed the way the teacher's stats package exposes Prometheus
// gauges/counters for its own stream and PDU bookkeeping.
var (
	channelsRegistered = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rwfgo",
		Subsystem: "transport",
		Name:      "channels_registered",
		Help:      "Number of open transport channels.",
	})
	queueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rwfgo",
		Subsystem: "transport",
		Name:      "queue_depth",
		Help:      "Buffers currently queued per priority class.",
	}, []string{"priority"})
	framesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rwfgo",
		Subsystem: "transport",
		Name:      "frames_sent_total",
		Help:      "Coalesced write spans handed to the transport.",
	})
	bytesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rwfgo",
		Subsystem: "transport",
		Name:      "bytes_sent_total",
		Help:      "Bytes handed to the transport across all channels.",
	})
)

// Register adds this package's collectors to r; call once per process.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{channelsRegistered, queueDepth, framesSent, bytesSent} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
