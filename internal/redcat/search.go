package redcat

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"t4auto/internal/domain"
)

// SearchItems returns every active catalog item matching keyword.
func (c *Client) SearchItems(ctx context.Context, keyword string) ([]domain.Item, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	items, err := searchAll[domain.Item](ctx, c, s, activeItemsPath, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search items for %q: %w", keyword, err)
	}
	return items, nil
}

// SearchRules returns every availability rule matching keyword.
func (c *Client) SearchRules(ctx context.Context, keyword string) ([]domain.AvailabilityRule, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	rules, err := searchAll[domain.AvailabilityRule](ctx, c, s, rulesPath, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search rules for %q: %w", keyword, err)
	}
	return rules, nil
}

// searchAll walks an offset/limit search until the reported total is
// reached or a page comes back empty. Any failed page fails the search;
// partial results are never returned.
func searchAll[T any](ctx context.Context, c *Client, s *session, path, keyword string) ([]T, error) {
	var all []T
	for start := 0; ; start += pageSize {
		query := url.Values{
			"qv":    {keyword},
			"start": {strconv.Itoa(start)},
			"limit": {strconv.Itoa(pageSize)},
		}
		page := start/pageSize + 1

		out, err := getJSON[envelope[[]T]](ctx, c, s, path, query)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if err := out.err(); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(out.Data) == 0 {
			break
		}
		all = append(all, out.Data...)
		if len(all) >= out.Total {
			break
		}
	}
	return all, nil
}
