// Package metrics holds Prometheus instruments that are used across the
// API.  All collectors are registered with the global registry, so serving
// promhttp.Handler() is enough to expose them on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConfigResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_resolutions_total",
			Help: "Configuration resolutions by result (ok, error).",
		}, []string{"result"})

	ConfigInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "config_info",
			Help: "Set to 1 for the environment, local, and production mode of the last resolution.",
		}, []string{"environment", "local", "production"})

	SearchProbeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_probe_total",
			Help: "Search endpoint readiness probes by result (ok, error).",
		}, []string{"result"})

	MetadataLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_load_total",
			Help: "Metadata document loads by source (local, remote) and result.",
		}, []string{"source", "result"})
)

func init() {
	prometheus.MustRegister(
		ConfigResolutionsTotal,
		ConfigInfo,
		SearchProbeTotal,
		MetadataLoadTotal,
	)
}

// ObserveConfig replaces the config_info series with the given mode.
func ObserveConfig(environment string, local, production bool) {
	ConfigInfo.Reset()
	ConfigInfo.WithLabelValues(environment,
		strconv.FormatBool(local), strconv.FormatBool(production)).Set(1)
}
