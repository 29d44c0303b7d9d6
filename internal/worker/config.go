package worker

import (
	"errors"
	"fmt"
	"time"
)

// Config tunes the report and view-refresh worker.
type Config struct {
	Concurrency  int           // polling goroutines
	PollInterval time.Duration // idle wait between queue checks

	// JobTimeout bounds a single job. A monochrome report for an offender
	// with hundreds of B.O.s is the slowest case.
	JobTimeout time.Duration

	ShutdownTimeout time.Duration

	// StaleJobThreshold is how long a job may sit in 'running' before it is
	// assumed orphaned by a crashed process and requeued on startup.
	StaleJobThreshold time.Duration
}

func DefaultConfig() Config {
	return Config{
		Concurrency:       2,
		PollInterval:      5 * time.Second,
		JobTimeout:        5 * time.Minute,
		ShutdownTimeout:   30 * time.Second,
		StaleJobThreshold: 10 * time.Minute,
	}
}

const maxConcurrency = 100

// Validate reports every out-of-range value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Concurrency < 1 || c.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Errorf("concurrency must be between 1 and %d, got %d", maxConcurrency, c.Concurrency))
	}

	minimums := []struct {
		name string
		got  time.Duration
		min  time.Duration
	}{
		{"poll interval", c.PollInterval, time.Second},
		{"job timeout", c.JobTimeout, time.Second},
		{"shutdown timeout", c.ShutdownTimeout, time.Second},
		{"stale job threshold", c.StaleJobThreshold, time.Minute},
	}
	for _, m := range minimums {
		if m.got < m.min {
			errs = append(errs, fmt.Errorf("%s must be at least %v, got %v", m.name, m.min, m.got))
		}
	}

	if c.StaleJobThreshold <= c.JobTimeout {
		errs = append(errs, fmt.Errorf("stale job threshold (%v) must exceed job timeout (%v)", c.StaleJobThreshold, c.JobTimeout))
	}
	return errors.Join(errs...)
}
