// Package pool is a small bounded worker pool for pipeline clients that need
// to compute many independent payloads (e.g. per-atom intersection tests
// feeding a subsequent add_link/add_face pass) in parallel before funneling
// the results, one at a time, into a Skeleton's single-mutator API: a
// Skeleton itself is never safe for concurrent structural mutation, but the
// read-only work that decides *what* to mutate usually is.
package pool

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"
)

const queueLengthReportInterval = 15 * time.Second

var (
	metricQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skeleton",
		Subsystem: "pool",
		Name:      "queue_length",
		Help:      "Current number of jobs queued or in flight.",
	})
	metricQueueMax = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skeleton",
		Subsystem: "pool",
		Name:      "queue_max",
		Help:      "Configured maximum queue depth.",
	})
)

// JobFunc computes one result from one payload. It must not mutate any
// Skeleton; results are meant to be applied by the caller afterward, single
// threaded.
type JobFunc func(payload interface{}) (interface{}, error)

type job struct {
	index   int
	payload interface{}
	fn      JobFunc

	wg      *sync.WaitGroup
	results []interface{}
	stopped *atomic.Bool
	err     *atomic.Error
}

// Pool runs JobFuncs over a fixed set of long-lived workers reading from a
// bounded channel.
type Pool struct {
	cfg  *Config
	size *atomic.Int32

	workQueue chan *job
	closeOnce sync.Once
}

// New starts cfg.MaxWorkers goroutines reading from a queue of depth
// cfg.QueueDepth. A nil cfg uses defaultConfig.
func New(cfg *Config) *Pool {
	if cfg == nil {
		cfg = defaultConfig()
	}

	q := make(chan *job, cfg.QueueDepth)
	p := &Pool{
		cfg:       cfg,
		workQueue: q,
		size:      atomic.NewInt32(0),
	}

	for i := 0; i < cfg.MaxWorkers; i++ {
		go p.worker(q)
	}

	metricQueueMax.Set(float64(cfg.QueueDepth))
	go p.reportQueueLength()

	return p
}

// RunAll submits every payload to the pool and blocks until all of them have
// run fn, returning their results in the same order as payloads. A failing
// job does not stop the others: RunAll still waits for every job, then
// returns a job error (the last one stored, if several failed) and discards
// all results.
func (p *Pool) RunAll(payloads []interface{}, fn JobFunc) ([]interface{}, error) {
	total := len(payloads)
	if total == 0 {
		return nil, nil
	}

	if int(p.size.Load())+total > p.cfg.QueueDepth {
		return nil, fmt.Errorf("pool: queue doesn't have room for %d jobs", total)
	}

	results := make([]interface{}, total)
	wg := &sync.WaitGroup{}
	stopped := atomic.NewBool(false)
	errBox := atomic.NewError(nil)

	wg.Add(total)
	for i, payload := range payloads {
		j := &job{
			index:   i,
			fn:      fn,
			payload: payload,
			wg:      wg,
			results: results,
			stopped: stopped,
			err:     errBox,
		}

		select {
		case p.workQueue <- j:
			p.size.Inc()
		default:
			stopped.Store(true)
			return nil, fmt.Errorf("pool: failed to queue job %d, queue full", i)
		}
	}

	wg.Wait()
	if err := errBox.Load(); err != nil {
		return nil, err
	}
	return results, nil
}

// Shutdown stops accepting new work and terminates the worker goroutines
// once the queue drains.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() { close(p.workQueue) })
}

func (p *Pool) worker(jobs <-chan *job) {
	for j := range jobs {
		p.size.Dec()

		if j.stopped.Load() {
			j.wg.Done()
			continue
		}

		result, err := j.fn(j.payload)
		if err != nil {
			j.err.Store(err)
			j.wg.Done()
			continue
		}
		j.results[j.index] = result
		j.wg.Done()
	}
}

func (p *Pool) reportQueueLength() {
	ticker := time.NewTicker(queueLengthReportInterval)
	defer ticker.Stop()
	for range ticker.C {
		metricQueueLength.Set(float64(p.size.Load()))
	}
}
