package redcat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"t4auto/internal/domain"
)

// TakeItemsOffline creates an availability rule at the action's store for
// every active item matching its keyword. It returns the number of items
// taken offline; no match is a successful no-op.
func (c *Client) TakeItemsOffline(ctx context.Context, action domain.ActionRow) (int, error) {
	s, err := c.current()
	if err != nil {
		return 0, err
	}

	items, err := searchAll[domain.Item](ctx, c, s, activeItemsPath, action.Keyword)
	if err != nil {
		return 0, fmt.Errorf("failed to search items for %q: %w", action.Keyword, err)
	}
	if len(items) == 0 {
		c.log.Info("no items matched", "keyword", action.Keyword, "store", action.StoreID)
		return 0, nil
	}

	codes := make([]string, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.PLUCode.String())
	}

	form := url.Values{
		"PLUCode":      codes,
		"CustomReason": {action.EffectiveReason()},
		"Reason":       {"Custom"},
		"StoreID":      {strconv.Itoa(action.StoreID)},
	}
	if err := c.mutate(ctx, s, http.MethodPost, form); err != nil {
		return 0, fmt.Errorf("failed to take %q offline: %w", action.Keyword, err)
	}

	c.log.Info("items offline", "keyword", action.Keyword, "store", action.StoreID, "items", len(codes))
	return len(codes), nil
}

// TakeItemsOnline deletes every availability rule the action's keyword
// search returns. It returns the number of rules removed; no match is a
// successful no-op.
func (c *Client) TakeItemsOnline(ctx context.Context, action domain.ActionRow) (int, error) {
	s, err := c.current()
	if err != nil {
		return 0, err
	}

	rules, err := searchAll[domain.AvailabilityRule](ctx, c, s, rulesPath, action.Keyword)
	if err != nil {
		return 0, fmt.Errorf("failed to search rules for %q: %w", action.Keyword, err)
	}

	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID.String())
	}
	if len(ids) == 0 {
		c.log.Info("no rules matched", "keyword", action.Keyword, "store", action.StoreID)
		return 0, nil
	}

	if err := c.mutate(ctx, s, http.MethodDelete, url.Values{"IDs": ids}); err != nil {
		return 0, fmt.Errorf("failed to take %q online: %w", action.Keyword, err)
	}

	c.log.Info("items online", "keyword", action.Keyword, "store", action.StoreID, "rules", len(ids))
	return len(ids), nil
}

// mutate sends a rules mutation. Mutations are not retried: a timed-out
// request may still have been applied.
func (c *Client) mutate(ctx context.Context, s *session, method string, form url.Values) error {
	var out envelope[any]
	if err := c.doJSON(ctx, s, method, rulesPath, nil, form, &out); err != nil {
		return err
	}
	return out.err()
}
