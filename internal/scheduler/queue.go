package scheduler

import (
	"container/heap"

	"t4auto/internal/domain"
)

// entry is a queued action plus the sequence number it was pushed with.
// The sequence breaks any tie left by domain.ActionRow.Before, so the pop
// order is total and reproducible.
type entry struct {
	action *domain.ActionRow
	seq    uint64
}

// actionQueue is a min-heap of actions ordered by (ActionTime, Index).
type actionQueue struct {
	entries []entry
	nextSeq uint64
}

func (q *actionQueue) Len() int { return len(q.entries) }

func (q *actionQueue) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if a.action.Before(*b.action) {
		return true
	}
	if b.action.Before(*a.action) {
		return false
	}
	return a.seq < b.seq
}

func (q *actionQueue) Swap(i, j int) { q.entries[i], q.entries[j] = q.entries[j], q.entries[i] }

func (q *actionQueue) Push(x any) { q.entries = append(q.entries, x.(entry)) }

func (q *actionQueue) Pop() any {
	old := q.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	q.entries = old[:n-1]
	return e
}

// push inserts an action. Re-armed actions go through the same path as
// fresh ones.
func (q *actionQueue) push(a *domain.ActionRow) {
	heap.Push(q, entry{action: a, seq: q.nextSeq})
	q.nextSeq++
}

// peek returns the earliest action without removing it.
func (q *actionQueue) peek() *domain.ActionRow {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0].action
}

// pop removes and returns the earliest action.
func (q *actionQueue) pop() *domain.ActionRow {
	if len(q.entries) == 0 {
		return nil
	}
	return heap.Pop(q).(entry).action
}
