package metrics

import "time"

// JobStarted marks a job as executing.
func JobStarted(jobType string) {
	JobsInFlight.WithLabelValues(jobType).Inc()
}

// JobCompleted records a successful job.
func JobCompleted(jobType string, duration time.Duration) {
	JobsInFlight.WithLabelValues(jobType).Dec()
	JobsTotal.WithLabelValues(jobType, "completed").Inc()
	JobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// JobFailed records a failed attempt. Attempts that will be retried also
// count toward job_retries_total.
func JobFailed(jobType string, duration time.Duration, willRetry bool) {
	JobsInFlight.WithLabelValues(jobType).Dec()
	JobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
	if willRetry {
		JobRetriesTotal.WithLabelValues(jobType).Inc()
		return
	}
	JobsTotal.WithLabelValues(jobType, "failed").Inc()
}
