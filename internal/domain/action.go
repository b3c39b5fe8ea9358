package domain

import (
	"fmt"
	"strings"
	"time"
)

// ActionKind is the effect an action has on the catalog.
type ActionKind int

const (
	// TakeOffline marks matching items unavailable for sale.
	TakeOffline ActionKind = iota
	// TakeOnline removes the availability rules created by TakeOffline.
	TakeOnline
)

// String returns the kind as used in logs and the execution history.
func (k ActionKind) String() string {
	switch k {
	case TakeOffline:
		return "offline"
	case TakeOnline:
		return "online"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseActionKind is the inverse of ActionKind.String.
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offline":
		return TakeOffline, nil
	case "online":
		return TakeOnline, nil
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// DefaultReason is sent to the remote service when an action has no reason.
const DefaultReason = "Deleted by t4auto"

// ActionRow is one scheduled catalog state change.
//
// ActionTime is the only field that changes after scheduling begins: the
// scheduler advances it by one calendar day after each attempt.
type ActionRow struct {
	// Index is the creation order of the schedule row this action was
	// expanded from. Both actions of a row share it.
	Index int

	Keyword string

	// StoreID is the resolved location the action applies to.
	StoreID int

	ActionTime time.Time
	Kind       ActionKind

	// Reason is free text sent to the remote service. Empty means DefaultReason.
	Reason string
}

// Validate reports whether the action can be scheduled.
func (a ActionRow) Validate() error {
	if strings.TrimSpace(a.Keyword) == "" {
		return fmt.Errorf("%w: keyword is required", ErrInvalidAction)
	}
	if a.StoreID <= 0 {
		return fmt.Errorf("%w: keyword %q has no resolved location", ErrInvalidAction, a.Keyword)
	}
	return nil
}

// EffectiveReason returns Reason, or DefaultReason when it is blank.
func (a ActionRow) EffectiveReason() string {
	if strings.TrimSpace(a.Reason) == "" {
		return DefaultReason
	}
	return a.Reason
}

// Before orders actions by (ActionTime, Index). Actions of the same row
// that fall on the same instant run offline first.
func (a ActionRow) Before(b ActionRow) bool {
	if !a.ActionTime.Equal(b.ActionTime) {
		return a.ActionTime.Before(b.ActionTime)
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Kind < b.Kind
}

// Rearm advances the action to its next daily occurrence.
func (a *ActionRow) Rearm() {
	a.ActionTime = a.ActionTime.AddDate(0, 0, 1)
}

// Execution describes one dispatch of an action by the scheduler.
type Execution struct {
	Action   ActionRow
	Started  time.Time
	Duration time.Duration

	// Items is the number of catalog items or rules the mutation touched.
	Items int

	// Err is nil on success.
	Err error
}
