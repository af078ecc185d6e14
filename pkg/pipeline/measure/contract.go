package measure

import "time"

// Measure holds the metrics of every step of a pipeline.
type Measure interface {
	AddMetric(path string) Metric
	GetMetric(path string) Metric
	AllMetrics() map[string]Metric
	AddPass()
	Passes() int
}

// Metric accumulates the executions of one step position.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddCacheHit()
	AddError()
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Runs() int64
	CacheHits() int64
	Errors() int64
	// LastStatus is the status of the last invocation, "cached" for a cache hit.
	LastStatus() string
}
