package task

import "sort"

// Less orders pending before completed, then higher priority first, then newest (highest id) first.
func Less(a, b Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID > b.ID
}

// Sort orders tasks in place using Less.
func Sort(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}
