package skeleton

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// skeletonMetrics scopes the package-level promauto collectors to one
// Skeleton instance via the "skeleton_id" label, since multiple skeletons
// can be alive in one process.
type skeletonMetrics struct {
	atomsAdded   prometheus.Counter
	atomsRemoved prometheus.Counter
	linksAdded   prometheus.Counter
	linksRemoved prometheus.Counter
	facesAdded   prometheus.Counter
	facesRemoved prometheus.Counter

	id string
}

func (m *skeletonMetrics) bulkFilterTimer(tier Tier) *prometheus.Timer {
	return prometheus.NewTimer(metricBulkFilterDuration.WithLabelValues(m.id, tier.String()))
}

var (
	metricAtomsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "atoms_added_total",
		Help:      "Total number of atoms added across all skeleton instances.",
	}, []string{"skeleton_id"})
	metricAtomsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "atoms_removed_total",
		Help:      "Total number of atoms removed, including cascade removals.",
	}, []string{"skeleton_id"})
	metricLinksAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "links_added_total",
		Help:      "Total number of links added, including links auto-created by add_face.",
	}, []string{"skeleton_id"})
	metricLinksRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "links_removed_total",
		Help:      "Total number of links removed, including cascade removals.",
	}, []string{"skeleton_id"})
	metricFacesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "faces_added_total",
		Help:      "Total number of faces added.",
	}, []string{"skeleton_id"})
	metricFacesRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Name:      "faces_removed_total",
		Help:      "Total number of faces removed, including cascade removals.",
	}, []string{"skeleton_id"})
	metricBulkFilterDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skeleton",
		Name:      "bulk_filter_duration_seconds",
		Help:      "Time spent in remove_atoms/remove_links/remove_faces.",
		Buckets:   prometheus.ExponentialBuckets(.0001, 4, 8),
	}, []string{"skeleton_id", "tier"})
)

func newSkeletonMetrics(skeletonID string) *skeletonMetrics {
	return &skeletonMetrics{
		atomsAdded:   metricAtomsAdded.WithLabelValues(skeletonID),
		atomsRemoved: metricAtomsRemoved.WithLabelValues(skeletonID),
		linksAdded:   metricLinksAdded.WithLabelValues(skeletonID),
		linksRemoved: metricLinksRemoved.WithLabelValues(skeletonID),
		facesAdded:   metricFacesAdded.WithLabelValues(skeletonID),
		facesRemoved: metricFacesRemoved.WithLabelValues(skeletonID),
		id:           skeletonID,
	}
}
