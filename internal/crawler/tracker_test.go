package crawler

import "testing"

func TestTrackerMarkAndContains(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	if tr.Contains("tt001") {
		t.Fatal("empty tracker should not contain anything")
	}

	tr.Mark("tt001")
	if !tr.Contains("tt001") {
		t.Fatal("marked id should be contained")
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}

	// Marking twice is a no-op.
	tr.Mark("tt001")
	if tr.Len() != 1 {
		t.Fatalf("Len() after re-mark = %d, want 1", tr.Len())
	}
}

func TestTrackerSeededFromExisting(t *testing.T) {
	t.Parallel()

	seed := map[string]struct{}{"tt001": {}, "tt002": {}}
	tr := NewTrackerFrom(seed)

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if !tr.Contains("tt001") || !tr.Contains("tt002") {
		t.Fatal("seeded ids should be contained")
	}

	// The tracker owns its own set; mutating it must not touch the seed.
	tr.Mark("tt003")
	if _, ok := seed["tt003"]; ok {
		t.Fatal("marking must not write through to the seed map")
	}
}
