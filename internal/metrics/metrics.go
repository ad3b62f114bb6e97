package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Exit outcomes recorded by ObserveExit.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSignal  = "signal"
)

var (
	registry = prometheus.NewRegistry()

	serviceSpawns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "service_spawns_total",
		Help:      "Total number of dev server processes spawned per service.",
	}, []string{"service"})

	serviceSpawnFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "service_spawn_failures_total",
		Help:      "Total number of failed spawn attempts per service.",
	}, []string{"service"})

	serviceExits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "service_exits_total",
		Help:      "Total number of observed process exits per service and outcome.",
	}, []string{"service", "outcome"})

	logLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "log_lines_total",
		Help:      "Lines captured from service output streams.",
	}, []string{"service", "stream"})

	logWriteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "log_write_failures_total",
		Help:      "Log file writes that failed and were discarded.",
	}, []string{"service"})

	registryPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "groo",
		Name:      "registry_pruned_total",
		Help:      "Stale service records removed from the state registry.",
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "groo",
		Name:      "build_info",
		Help:      "Build metadata for the running groo binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(serviceSpawns, serviceSpawnFailures, serviceExits, logLines, logWriteFailures, registryPruned, buildInfo)
}

// Registry returns the Prometheus registry containing all groo metrics.
func Registry() *prometheus.Registry {
	return registry
}

// IncrementSpawn records a successful spawn.
func IncrementSpawn(service string) {
	if service == "" {
		return
	}
	serviceSpawns.WithLabelValues(service).Inc()
}

// IncrementSpawnFailure records a spawn that never produced a process.
func IncrementSpawnFailure(service string) {
	if service == "" {
		return
	}
	serviceSpawnFailures.WithLabelValues(service).Inc()
}

// ObserveExit records how a supervised process ended.
func ObserveExit(service, outcome string) {
	if service == "" {
		return
	}
	serviceExits.WithLabelValues(service, outcome).Inc()
}

// IncrementLogLine counts one captured output line.
func IncrementLogLine(service, stream string) {
	logLines.WithLabelValues(service, stream).Inc()
}

// IncrementLogWriteFailure counts a discarded log file write.
func IncrementLogWriteFailure(service string) {
	logWriteFailures.WithLabelValues(service).Inc()
}

// AddRegistryPruned records stale registry entries dropped during cleanup.
func AddRegistryPruned(n int) {
	if n <= 0 {
		return
	}
	registryPruned.Add(float64(n))
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
