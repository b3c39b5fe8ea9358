// Package schedule holds the operator's schedule rows and turns them into
// the actions the scheduler runs.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"t4auto/internal/domain"
)

// Row is one user-entered schedule entry: take items matching Keyword
// offline at Start and back online at End, every day.
type Row struct {
	StoreID   int       `json:"store_id" yaml:"store_id"`
	StoreName string    `json:"store_name,omitempty" yaml:"store_name,omitempty"`
	Keyword   string    `json:"keyword" yaml:"keyword"`
	Start     TimeOfDay `json:"start" yaml:"start"`
	End       TimeOfDay `json:"end" yaml:"end"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Store returns a display label for the row's location.
func (r Row) Store() string {
	if r.StoreName != "" {
		return fmt.Sprintf("%s (%d)", r.StoreName, r.StoreID)
	}
	return fmt.Sprintf("%d", r.StoreID)
}

// Skipped is a row Expand left out, with the reason.
type Skipped struct {
	Position int
	Row      Row
	Reason   string
}

// Expand turns rows into two actions each (offline at Start, online at
// End) dated on ref's calendar day. Times already past on that day are due
// immediately. Rows without a keyword or a resolvable store are skipped;
// Index counts accepted rows only, so it stays dense.
//
// When stores is non-nil, a row's StoreID must be one of them; a row with
// no StoreID is resolved by StoreName (case-insensitive).
func Expand(rows []Row, ref time.Time, stores []domain.Store) ([]*domain.ActionRow, []Skipped) {
	var (
		actions []*domain.ActionRow
		skipped []Skipped
	)

	index := 0
	for pos, r := range rows {
		storeID, reason := resolveStore(r, stores)
		if strings.TrimSpace(r.Keyword) == "" {
			reason = "no keyword"
		}
		if reason != "" {
			skipped = append(skipped, Skipped{Position: pos, Row: r, Reason: reason})
			continue
		}

		base := domain.ActionRow{
			Index:   index,
			Keyword: strings.TrimSpace(r.Keyword),
			StoreID: storeID,
			Reason:  r.Reason,
		}
		off, on := base, base
		off.Kind, off.ActionTime = domain.TakeOffline, r.Start.On(ref)
		on.Kind, on.ActionTime = domain.TakeOnline, r.End.On(ref)

		actions = append(actions, &off, &on)
		index++
	}
	return actions, skipped
}

func resolveStore(r Row, stores []domain.Store) (int, string) {
	if stores == nil {
		if r.StoreID <= 0 {
			return 0, "no store"
		}
		return r.StoreID, ""
	}

	if r.StoreID > 0 {
		if _, ok := domain.FindStore(stores, r.StoreID); !ok {
			return 0, fmt.Sprintf("store %d is not available to this account", r.StoreID)
		}
		return r.StoreID, ""
	}

	name := strings.TrimSpace(r.StoreName)
	if name == "" {
		return 0, "no store"
	}
	for _, s := range stores {
		if strings.EqualFold(s.Name, name) {
			return s.ID, ""
		}
	}
	return 0, fmt.Sprintf("store %q not found", name)
}
