package redcat

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"t4auto/internal/domain"
)

// apiStore is the lookup entry shape: the store ID arrives as "value",
// sometimes quoted.
type apiStore struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func (s apiStore) id() (int, error) {
	switch v := s.Value.(type) {
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("store %q has unexpected id %v", s.Name, s.Value)
}

// ListStores fetches the stores the logged-in account may manage, sorted by
// ID.
func (c *Client) ListStores(ctx context.Context) ([]domain.Store, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return c.listStores(ctx, s)
}

func (c *Client) listStores(ctx context.Context, s *session) ([]domain.Store, error) {
	out, err := getJSON[envelope[[]apiStore]](ctx, c, s, storesPath, url.Values{"restricted": {"true"}})
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	if err := out.err(); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	stores := make([]domain.Store, 0, len(out.Data))
	for _, a := range out.Data {
		id, err := a.id()
		if err != nil {
			return nil, fmt.Errorf("failed to list stores: %w", err)
		}
		stores = append(stores, domain.Store{ID: id, Name: a.Name})
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return stores, nil
}
