package bus

import "sync"

// Journal records how to undo every store write since the last Reset
type Journal struct {
	entries []func()
	lock    sync.Mutex
}

func NewJournal() *Journal {
	return &Journal{}
}

// Record appends undo, run by RevertToSnapshot in reverse order
func (j *Journal) Record(undo func()) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.entries = append(j.entries, undo)
}

// Snapshot returns an id to revert to
func (j *Journal) Snapshot() int {
	j.lock.Lock()
	defer j.lock.Unlock()

	return len(j.entries)
}

// RevertToSnapshot undoes every write recorded after snapshot id
func (j *Journal) RevertToSnapshot(id int) {
	j.lock.Lock()
	entries := j.entries
	if id < 0 || id > len(entries) {
		j.lock.Unlock()
		return
	}
	j.entries = entries[:id]
	j.lock.Unlock()

	for i := len(entries) - 1; i >= id; i-- {
		entries[i]()
	}
}

// Reset forgets all recorded writes
func (j *Journal) Reset() {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.entries = nil
}

func (j *Journal) Len() int {
	j.lock.Lock()
	defer j.lock.Unlock()

	return len(j.entries)
}
