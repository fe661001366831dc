package bus

import "testing"

func TestJournalRevert(t *testing.T) {
	j := NewJournal()
	value := 0

	set := func(v int) {
		prev := value
		value = v
		j.Record(func() { value = prev })
	}

	set(1)
	snapshot := j.Snapshot()
	set(2)
	set(3)

	j.RevertToSnapshot(snapshot)
	if value != 1 {
		t.Fatalf("value %d, want 1", value)
	}
	if j.Len() != snapshot {
		t.Fatalf("journal length %d, want %d", j.Len(), snapshot)
	}

	j.RevertToSnapshot(0)
	if value != 0 {
		t.Fatalf("value %d, want 0", value)
	}

	set(5)
	j.Reset()
	j.RevertToSnapshot(0)
	if value != 5 {
		t.Fatalf("reset journal reverted value to %d", value)
	}
}
