// Package measure collects per step execution metrics of a pipeline: how
// many times each step ran, hit the cache or failed, and how long it took.
package measure
