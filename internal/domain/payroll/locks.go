package payroll

import "sync"

// detailLocks serializes recomputation per (run, employee). Concurrent
// operations on the same employee queue up; operations on different
// employees in the same run proceed in parallel. Entries are never evicted:
// the key space is bounded by run membership.
type detailLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDetailLocks() *detailLocks {
	return &detailLocks{locks: make(map[string]*sync.Mutex)}
}

func (d *detailLocks) lock(runID, employeeID string) func() {
	key := runID + "/" + employeeID

	d.mu.Lock()
	entry, ok := d.locks[key]
	if !ok {
		entry = &sync.Mutex{}
		d.locks[key] = entry
	}
	d.mu.Unlock()

	entry.Lock()
	return entry.Unlock
}
