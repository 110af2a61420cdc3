package frame

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Job is one background task launched by `cmd &` (a CommandList item
// lowered with past.Background).
type Job struct {
	id     int
	done   chan struct{}
	status int
}

// ID is the job number `jobs`/`wait %N` would display.
func (j *Job) ID() int { return j.id }

// Done reports whether the job has finished, without blocking.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Status returns the job's exit status; only meaningful once Done.
func (j *Job) Status() int { return j.status }

// JobStore is the default, concrete implementation of the opaque
// "job store" boundary spec §4.6/§6 names. It is grounded on the
// teacher's background-job bookkeeping (interp's bgShells/Runner.Wait,
// since deleted from this tree — see DESIGN.md), rebuilt around
// golang.org/x/sync's errgroup instead of the teacher's direct os.Process
// coupling, so a host can swap in its own process model without
// reimplementing the bookkeeping.
type JobStore struct {
	mu     sync.Mutex
	g      *errgroup.Group
	ctx    context.Context
	jobs   []*Job
	nextID int
}

// NewJobStore returns an empty JobStore.
func NewJobStore() *JobStore {
	return &JobStore{g: new(errgroup.Group), ctx: context.Background()}
}

// Launch starts run in the background and returns a handle to it. run
// receives the store's shared context, which the store never cancels.
func (s *JobStore) Launch(run func(ctx context.Context) int) *Job {
	s.mu.Lock()
	s.nextID++
	j := &Job{id: s.nextID, done: make(chan struct{})}
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	s.g.Go(func() error {
		j.status = run(s.ctx)
		close(j.done)
		return nil
	})
	return j
}

// ReapCompletedJobs implements the frame's "reap completed jobs" call
// (spec §5): when wait is true it blocks for every outstanding job
// (`wait` with no arguments); either way it then drops finished jobs from
// the store's bookkeeping and reports whether any were reaped.
func (s *JobStore) ReapCompletedJobs(wait bool) bool {
	if wait {
		s.g.Wait()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.jobs[:0]
	reaped := false
	for _, j := range s.jobs {
		if j.Done() {
			reaped = true
			continue
		}
		remaining = append(remaining, j)
	}
	s.jobs = remaining
	return reaped
}

// Outstanding returns the number of jobs not yet reaped.
func (s *JobStore) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
