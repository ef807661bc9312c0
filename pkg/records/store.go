package records

import "sync"

// Store is the in-memory record and job store backing the service.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []Record
	jobs    []Job
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddRecords(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Records returns a copy of all stored records in insertion order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Jobs returns up to take jobs starting at skip, newest first. Callers
// paginating pass a take one larger than their page size to detect a
// following page.
func (s *Store) Jobs(skip, take int) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.jobs)
	if skip >= n {
		return nil
	}

	out := make([]Job, 0, take)
	for i := n - 1 - skip; i >= 0 && len(out) < take; i-- {
		out = append(out, s.jobs[i])
	}
	return out
}
