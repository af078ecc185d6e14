package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu     *sync.Mutex
	Steps  map[string]Metric
	passes int
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		mu:    &sync.Mutex{},
		Steps: make(map[string]Metric),
	}
}

// AddMetric returns the metric of path, creating it when needed.
func (m *DefaultMeasure) AddMetric(path string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Steps[path]; ok {
		return mt
	}

	mt := &DefaultMetric{mu: &sync.Mutex{}}
	m.Steps[path] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(path string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[path]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[string]Metric, len(m.Steps))
	for k, v := range m.Steps {
		all[k] = v
	}

	return all
}

func (m *DefaultMeasure) AddPass() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passes++
}

func (m *DefaultMeasure) Passes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.passes
}

var _ Measure = (*DefaultMeasure)(nil)
