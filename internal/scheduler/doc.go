// Package scheduler executes availability actions in perpetual daily
// repetition.
//
// # Ordering
//
// Pending actions live in a min-heap keyed by (ActionTime, Index). The loop
// peeks the earliest action, sleeps on the cancellation signal until it is
// due, dispatches it, advances it by one calendar day and pushes it back.
// Re-armed actions are indistinguishable from fresh ones, so the execution
// order across days is the same total order.
//
// # Failures
//
// An executor error is logged and reported to the Recorder; it never stops
// the loop. The failed action is retried at its next daily occurrence, not
// immediately.
//
// # Cancellation
//
// Run returns once the signal is triggered. The signal is checked before
// every wait and every dispatch; a dispatch already in flight is allowed to
// finish.
package scheduler
