// Package store holds Redis-backed state that is owned by the service
// but not part of the relational model.  Today that is the per-user
// shopping cart, which used to live in browser local storage and was
// moved server-side so every device of a customer sees the same cart.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/anvule/columbarium-reservation/internal/model"
)

// ErrCartUnavailable is returned when no Redis connection is
// configured.  Cart endpoints degrade to 503 instead of failing the
// whole process.
var ErrCartUnavailable = errors.New("cart storage unavailable")

// CartStore keeps one Redis hash per user: field = item ID, value =
// the JSON-encoded CartItem.  Item IDs are unique per cart by
// construction; adding an existing ID increments its quantity.
type CartStore struct {
	rdb *redis.Client
}

// NewCartStore returns a CartStore over the given client.  A nil
// client is allowed; every method then returns ErrCartUnavailable.
func NewCartStore(rdb *redis.Client) *CartStore { return &CartStore{rdb: rdb} }

func cartKey(userID uint64) string { return "cart:" + strconv.FormatUint(userID, 10) }

// Add merges an item into the user's cart.  When the item ID already
// exists its quantity is incremented by the incoming quantity; the
// name, price and image of the existing row are kept.  Returns the
// merged row.
func (s *CartStore) Add(ctx context.Context, userID uint64, item model.CartItem) (model.CartItem, error) {
	if s.rdb == nil {
		return model.CartItem{}, ErrCartUnavailable
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	key := cartKey(userID)
	field := strconv.FormatUint(item.ID, 10)

	raw, err := s.rdb.HGet(ctx, key, field).Result()
	switch {
	case err == redis.Nil:
		// new row
	case err != nil:
		return model.CartItem{}, err
	default:
		var existing model.CartItem
		if jsonErr := json.Unmarshal([]byte(raw), &existing); jsonErr == nil {
			item = Merge(existing, item)
		}
	}

	buf, err := json.Marshal(item)
	if err != nil {
		return model.CartItem{}, err
	}
	if err := s.rdb.HSet(ctx, key, field, buf).Err(); err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// List returns the cart rows ordered by item ID for deterministic
// rendering.
func (s *CartStore) List(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	if s.rdb == nil {
		return nil, ErrCartUnavailable
	}
	raw, err := s.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(raw))
	for _, v := range raw {
		var it model.CartItem
		if err := json.Unmarshal([]byte(v), &it); err != nil {
			continue // skip rows written by an incompatible version
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Remove deletes one row from the cart.  Removing an absent ID is a
// no-op.
func (s *CartStore) Remove(ctx context.Context, userID uint64, itemID uint64) error {
	if s.rdb == nil {
		return ErrCartUnavailable
	}
	return s.rdb.HDel(ctx, cartKey(userID), strconv.FormatUint(itemID, 10)).Err()
}

// Clear empties the cart, used at checkout completion or on explicit
// clear.
func (s *CartStore) Clear(ctx context.Context, userID uint64) error {
	if s.rdb == nil {
		return ErrCartUnavailable
	}
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}

// Merge applies the idempotent-add rule to an in-memory row pair.  It
// is the single place the quantity-merge semantics live, shared by Add
// and by tests.
func Merge(existing, incoming model.CartItem) model.CartItem {
	existing.Quantity += incoming.Quantity
	return existing
}
