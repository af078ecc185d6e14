// Package log builds the structured loggers used by the pipeline engine and
// provides attribute helpers so every component logs with the same keys.
package log
