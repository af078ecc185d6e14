// Package config loads pipeline settings from a YAML file and PASSPIPE_*
// environment variables and turns them into pipeline options.
package config
