package task

import "testing"

func TestSortTotalOrder(t *testing.T) {
	a := Task{ID: 5, Priority: High}
	b := Task{ID: 3, Priority: High}
	c := Task{ID: 9, Priority: Low}
	d := Task{ID: 1, Priority: High, Completed: true}

	tasks := []Task{d, c, b, a}
	Sort(tasks)

	want := []int64{5, 3, 9, 1}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: got id %d, want %d (order %v)", i, tasks[i].ID, id, ids(tasks))
		}
	}
}

func TestLessCompletedAfterPending(t *testing.T) {
	pendingLow := Task{ID: 1, Priority: Low}
	doneHigh := Task{ID: 2, Priority: High, Completed: true}
	if !Less(pendingLow, doneHigh) || Less(doneHigh, pendingLow) {
		t.Error("pending must sort before completed regardless of priority")
	}
}

func TestLessIsIrreflexive(t *testing.T) {
	x := Task{ID: 4, Priority: Medium}
	if Less(x, x) {
		t.Error("Less(x, x) must be false")
	}
}

func ids(tasks []Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
