package forest

import "testing"

func TestForest_ConnectAndGetCluster(t *testing.T) {
	f := New(2, 3, 10)
	for _, e := range []int{1, 2, 3} {
		f.CreateLeaf(e)
	}

	f.Connect(1, 0, 0)
	f.Connect(2, 0, 1)

	f.ComputeClusters(1)
	f.ComputeClusters(2)

	if got := f.GetCluster(0, 1); got != 0 {
		t.Fatalf("expected element 1 in cluster 0 at level 0, got %d", got)
	}
	if got := f.GetCluster(0, 2); got != 1 {
		t.Fatalf("expected element 2 in cluster 1 at level 0, got %d", got)
	}
}

func TestForest_NbClustersReflectsPopulatedSlots(t *testing.T) {
	f := New(3, 1, 10)
	for _, e := range []int{1, 2} {
		f.CreateLeaf(e)
	}
	f.Connect(1, 0, 0)
	f.Connect(2, 0, 1)

	if got := f.GetNbClusters(0); got != 2 {
		t.Fatalf("expected 2 populated clusters, got %d", got)
	}
}

func TestForest_SmallestValidLevelTracksLeftovers(t *testing.T) {
	f := New(2, 2, 10)
	f.CreateLeaf(1)

	// brand new element has nowhere to go yet: lands in the highest
	// leftovers bucket until connected.
	f.AddHighestLeftovers(1)
	if got := f.GetSmallestValidLevel(); got != -1 {
		t.Fatalf("expected no valid level while an element sits in the highest leftovers bucket, got %d", got)
	}
}

func TestForest_RemoveUnmarkedElement(t *testing.T) {
	f := New(2, 2, 10)
	f.CreateLeaf(1)
	f.CreateLeaf(2)
	f.Connect(1, 0, 0)
	f.Connect(2, 0, 0) // 1 is the marked center of slot (0, 0); 2 is grafted under it as an
	// unmarked leaf, the parent/child relationship the caller's assignment logic builds.

	marked, _ := f.Remove(2)
	if marked {
		t.Fatalf("freshly grafted leaf should not be marked as a center")
	}
	if f.HasElement(2) {
		t.Fatalf("expected element 2 removed from the forest")
	}
}

// TestForest_RemoveMarkedElementReinsertsSurvivors covers the case
// TestForest_RemoveUnmarkedElement doesn't: removing a marked center whose
// subtree holds other live elements. Those elements must come back as
// reinsert candidates with working leaves, not ones torn out by the same
// free that reclaims the removed center's own node.
func TestForest_RemoveMarkedElementReinsertsSurvivors(t *testing.T) {
	f := New(2, 2, 10)
	for _, e := range []int{1, 2, 3, 4} {
		f.CreateLeaf(e)
	}
	f.Connect(1, 0, 0) // 1 becomes the center of cluster 0 at level 0
	f.Connect(2, 0, 0) // grafted under 1
	f.Connect(3, 0, 0) // grafted under 1
	f.Connect(4, 0, 0) // grafted under 1

	marked, reinsert := f.Remove(1)
	if !marked {
		t.Fatalf("expected element 1 to be removed as a marked center")
	}
	if f.HasElement(1) {
		t.Fatalf("expected element 1 removed from the forest")
	}

	got := map[int]bool{}
	for _, e := range reinsert {
		got[e] = true
	}
	for _, e := range []int{2, 3, 4} {
		if !got[e] {
			t.Fatalf("expected element %d among reinsert candidates, got %v", e, reinsert)
		}
		if !f.HasElement(e) {
			t.Fatalf("expected element %d to still be live after eviction", e)
		}
		// the leaf handle torn out of the removed subtree must still be
		// usable: reconnecting must not panic or dereference a freed node.
		f.Connect(e, 0, 1)
		f.ComputeClusters(e)
		if got := f.GetCluster(0, e); got != 1 {
			t.Fatalf("expected element %d reconnected into cluster 1 at level 0, got %d", e, got)
		}
	}
}
