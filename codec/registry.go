// Package codec implements the medial-skeleton persistence formats:
// MOFF text, JSON "median", BALLS (atoms only, read/write) and a write-only
// ".web" browser summary, plus the process-wide loader/saver registry
// clients resolve by file extension.
package codec

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/median-path/skeleton/skeleton"
)

var (
	metricLoadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Subsystem: "codec",
		Name:      "load_total",
		Help:      "Total number of load attempts, by format and outcome.",
	}, []string{"format", "outcome"})
	metricSaveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skeleton",
		Subsystem: "codec",
		Name:      "save_total",
		Help:      "Total number of save attempts, by format and outcome.",
	}, []string{"format", "outcome"})
)

// ErrNoCodec reports that no registered codec claims a given path.
var ErrNoCodec = errors.New("codec: no registered codec handles this path")

// Loader reads a skeleton from path, resetting s to the loaded contents on
// success.
type Loader interface {
	Name() string
	CanLoad(path string) bool
	Load(s *skeleton.Skeleton, path string) error
}

// Saver writes a skeleton to path.
type Saver interface {
	Name() string
	CanSave(path string) bool
	Save(s *skeleton.Skeleton, path string) error
}

// Registry holds two ordered, mutex-guarded loader/saver lists, consulted
// in registration order. The zero value is usable empty; Default() returns
// a lazily built registry pre-populated with this package's own codecs.
type Registry struct {
	mu      sync.Mutex
	loaders []Loader
	savers  []Saver
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, registering MOFF, median and
// BALLS (load+save) plus the write-only web saver on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = &Registry{}
		defaultReg.RegisterLoader(moffCodec{})
		defaultReg.RegisterSaver(moffCodec{})
		defaultReg.RegisterLoader(medianCodec{})
		defaultReg.RegisterSaver(medianCodec{})
		defaultReg.RegisterLoader(ballsCodec{})
		defaultReg.RegisterSaver(ballsCodec{})
		defaultReg.RegisterSaver(webCodec{})
	})
	return defaultReg
}

// RegisterLoader appends l to the loader list, consulted in registration
// order by Load.
func (r *Registry) RegisterLoader(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = append(r.loaders, l)
}

// RegisterSaver appends s to the saver list, consulted in registration
// order by Save.
func (r *Registry) RegisterSaver(s Saver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.savers = append(r.savers, s)
}

// Load finds the first registered loader whose CanLoad(path) is true and
// runs it. Failure leaves dst unchanged or empty; it never leaves a
// partially-loaded skeleton observable to the caller.
func (r *Registry) Load(dst *skeleton.Skeleton, path string) error {
	r.mu.Lock()
	loaders := append([]Loader(nil), r.loaders...)
	r.mu.Unlock()

	for _, l := range loaders {
		if !l.CanLoad(path) {
			continue
		}
		if err := l.Load(dst, path); err != nil {
			metricLoadTotal.WithLabelValues(l.Name(), "error").Inc()
			return errors.Wrapf(err, "codec %s: load %s", l.Name(), path)
		}
		metricLoadTotal.WithLabelValues(l.Name(), "ok").Inc()
		return nil
	}
	return errors.Wrapf(ErrNoCodec, "load %s", path)
}

// Save finds the first registered saver whose CanSave(path) is true and
// runs it.
func (r *Registry) Save(src *skeleton.Skeleton, path string) error {
	r.mu.Lock()
	savers := append([]Saver(nil), r.savers...)
	r.mu.Unlock()

	for _, s := range savers {
		if !s.CanSave(path) {
			continue
		}
		if err := s.Save(src, path); err != nil {
			metricSaveTotal.WithLabelValues(s.Name(), "error").Inc()
			return errors.Wrapf(err, "codec %s: save %s", s.Name(), path)
		}
		metricSaveTotal.WithLabelValues(s.Name(), "ok").Inc()
		return nil
	}
	return errors.Wrapf(ErrNoCodec, "save %s", path)
}

// Load is a convenience wrapper over Default().Load.
func Load(dst *skeleton.Skeleton, path string) error { return Default().Load(dst, path) }

// Save is a convenience wrapper over Default().Save.
func Save(src *skeleton.Skeleton, path string) error { return Default().Save(src, path) }
