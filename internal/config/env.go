// Package config provides shared configuration utilities.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LookupFunc looks up a configuration value by key, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Reader parses typed values from a lookup source, remembering the first
// parse error so callers can read a batch of keys and check once.
type Reader struct {
	lookup LookupFunc
	err    error
}

// NewReader creates a Reader over lookup. A nil lookup reads the process environment.
func NewReader(lookup LookupFunc) *Reader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Reader{lookup: lookup}
}

// Err returns the first parse error encountered.
func (r *Reader) Err() error {
	return r.err
}

// String returns the value for key, or fallback if unset.
func (r *Reader) String(key, fallback string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return fallback
}

// Float returns key parsed as a float, or fallback if unset.
func (r *Reader) Float(key string, fallback float64) float64 {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return f
}

// Int returns key parsed as an int, or fallback if unset.
func (r *Reader) Int(key string, fallback int) int {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return n
}

// Duration returns key parsed as a duration ("150ms", "2s"), or fallback if unset.
func (r *Reader) Duration(key string, fallback time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return d
}

func (r *Reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s=%q: %w", key, value, err)
	}
}
