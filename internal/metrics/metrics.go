// Package metrics holds the Prometheus counters of a vidplan run.
//
// A CLI run is short lived, so nothing is served over HTTP; the registry is
// written once to a node_exporter textfile when a metrics file is configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects every vidplan metric.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	profilesParsed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidplan",
		Subsystem: "probe",
		Name:      "profiles_total",
		Help:      "Media reports parsed, by result",
	}, []string{"result"})

	compatibilityFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "vidplan",
		Subsystem: "concat",
		Name:      "incompatible_groups_total",
		Help:      "File groups rejected as incompatible",
	})

	bytesStreamed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "vidplan",
		Subsystem: "concat",
		Name:      "bytes_streamed_total",
		Help:      "Bytes read from concatenated input files",
	})

	plansBuilt = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidplan",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Encode plans computed, by scaling branch",
	}, []string{"branch"})

	stepDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vidplan",
		Subsystem: "transcode",
		Name:      "step_duration_seconds",
		Help:      "Wall time of external tool invocations",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"step", "result"})
)

// ProfileParsed counts one parsed report.
func ProfileParsed(err error) {
	profilesParsed.WithLabelValues(result(err)).Inc()
}

// IncompatibleGroup counts one rejected file group.
func IncompatibleGroup() {
	compatibilityFailures.Inc()
}

// BytesStreamed adds n bytes read by the concatenating reader.
func BytesStreamed(n int) {
	bytesStreamed.Add(float64(n))
}

// PlanBuilt counts one plan for the scaling branch that produced it.
func PlanBuilt(branch string) {
	plansBuilt.WithLabelValues(branch).Inc()
}

// ObserveStep records how long an external step ran.
func ObserveStep(step string, seconds float64, err error) {
	stepDuration.WithLabelValues(step, result(err)).Observe(seconds)
}

// WriteTextfile writes the registry in the Prometheus text format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to '%s': %w", path, err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
