// Package metrics exposes the Prometheus series the CLI records around
// decode calls. The decode library itself stays free of instrumentation
// (it is a pure function of Metadata and input bytes); these series are
// only ever touched from cmd-*.go, at the process boundary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var DecodeLatencySeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "decode_latency_seconds",
		Help:    "Latency of a single top-level decode call (metadata load or extrinsic decode)",
		Buckets: prometheus.ExponentialBuckets(0.000001, 10, 10),
	},
	[]string{"operation"},
)

var DecodeErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "decode_errors_total",
		Help: "Decode failures by error kind",
	},
	[]string{"operation", "kind"},
)

var Version = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "version",
		Help: "Version information of this binary",
	},
	[]string{"started_at", "tag", "commit", "compiler", "goarch", "goos", "goamd64", "vcs", "vcs_revision", "vcs_time", "vcs_modified"},
)
