package models

import "sync"

// Job status values.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobPartial    = "partial"
	JobFailed     = "failed"
)

// JobResponse is the immediate response for POST /api/v1/jobs.
type JobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// JobStatusResponse is the response for GET /api/v1/jobs/:id.
// Outcomes is included only once the job has settled.
type JobStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Outcomes  []Outcome `json:"outcomes,omitempty"`
}

// Job tracks an in-progress asynchronous batch scrape. Workers record
// outcomes concurrently while pollers snapshot progress, so all mutable
// state sits behind the mutex.
type Job struct {
	ID        string
	Total     int
	CreatedAt int64 // unix timestamp

	mu        sync.Mutex
	status    string
	completed int
	failed    int
	outcomes  []Outcome
}

// NewJob creates a processing job with one outcome slot per URL.
func NewJob(id string, total int, createdAt int64) *Job {
	return &Job{
		ID:        id,
		Total:     total,
		CreatedAt: createdAt,
		status:    JobProcessing,
		outcomes:  make([]Outcome, total),
	}
}

// RecordOutcome stores the outcome for one slot and advances the
// progress counter.
func (j *Job) RecordOutcome(idx int, out Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcomes[idx] = out
	j.completed++
	if out.Status == StatusFailed {
		j.failed++
	}
}

// Finish marks the job settled, deriving the terminal status from the
// failure tally: failed when nothing succeeded, partial on a mix,
// completed otherwise. Returns the terminal status.
func (j *Job) Finish() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case j.failed == j.Total:
		j.status = JobFailed
	case j.failed > 0:
		j.status = JobPartial
	default:
		j.status = JobCompleted
	}
	return j.status
}

// Snapshot returns a point-in-time view of the job for API responses.
func (j *Job) Snapshot() JobStatusResponse {
	j.mu.Lock()
	defer j.mu.Unlock()

	resp := JobStatusResponse{
		ID:        j.ID,
		Status:    j.status,
		Completed: j.completed,
		Total:     j.Total,
	}
	if j.status != JobProcessing {
		resp.Outcomes = append([]Outcome(nil), j.outcomes...)
	}
	return resp
}
