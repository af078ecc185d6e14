package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

const CachedStatus = "cached"

type DefaultMetric struct {
	mu          *sync.Mutex
	stepElapsed time.Duration
	runs        int64
	cacheHits   int64
	errors      int64
	lastStatus  string
}

// AddDuration records a successful execution.
func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.runs++
	mt.stepElapsed += elapsed
	mt.lastStatus = model.StatusOK
}

func (mt *DefaultMetric) AddCacheHit() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.cacheHits++
	mt.lastStatus = CachedStatus
}

// AddError records a failed execution. Its duration is not accounted.
func (mt *DefaultMetric) AddError() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.errors++
	mt.lastStatus = model.StatusError
}

// AVGDuration is the average duration of the successful executions.
func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.runs == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.runs)))
}

func (mt *DefaultMetric) TotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.stepElapsed
}

func (mt *DefaultMetric) Runs() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.runs
}

func (mt *DefaultMetric) CacheHits() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.cacheHits
}

func (mt *DefaultMetric) Errors() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.errors
}

func (mt *DefaultMetric) LastStatus() string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.lastStatus
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
