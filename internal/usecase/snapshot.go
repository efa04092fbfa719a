package usecase

import (
	"context"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

const (
	KeyTeams   = "local_teams"
	KeyPlayers = "local_players"
	KeyEvents  = "local_events"
)

// snapshot is one cache slot holding a whole collection as a JSON array.
// Read-modify-write helpers are not atomic; concurrent writers race and the
// last one wins.
type snapshot[T any] struct {
	store  cache.Store
	key    string
	logger *logging.Logger
}

// load returns the cached collection. Missing, unreadable and empty
// snapshots all report false.
func (s snapshot[T]) load(ctx context.Context) ([]T, bool) {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "read cache snapshot failed", "collection", s.key, "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var items []T
	if err := sonic.UnmarshalString(raw, &items); err != nil {
		s.logger.WarnContext(ctx, "decode cache snapshot failed", "collection", s.key, "error", err)
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

func (s snapshot[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := sonic.MarshalString(items)
	if err != nil {
		return crerr.Wrapf(err, "encode snapshot %s", s.key)
	}
	return s.store.Set(ctx, s.key, raw)
}

func (s snapshot[T]) append(ctx context.Context, item T) error {
	items, _ := s.load(ctx)
	return s.save(ctx, append(items, item))
}

// replace swaps the first matching item. A snapshot without a match is
// left as is.
func (s snapshot[T]) replace(ctx context.Context, match func(T) bool, item T) error {
	items, ok := s.load(ctx)
	if !ok {
		return nil
	}
	for idx := range items {
		if match(items[idx]) {
			items[idx] = item
			return s.save(ctx, items)
		}
	}
	return nil
}

func (s snapshot[T]) remove(ctx context.Context, match func(T) bool) error {
	items, ok := s.load(ctx)
	if !ok {
		return nil
	}
	kept := items[:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

// saveOrWarn writes through and only logs a failure; a cache write never
// fails the caller's operation.
func (s snapshot[T]) saveOrWarn(ctx context.Context, items []T) {
	if err := s.save(ctx, items); err != nil {
		s.logger.WarnContext(ctx, "write cache snapshot failed", "collection", s.key, "error", err)
	}
}

func (s snapshot[T]) warnOnError(ctx context.Context, op string, err error) {
	if err != nil {
		s.logger.WarnContext(ctx, "update cache snapshot failed", "collection", s.key, "op", op, "error", err)
	}
}

// listWithFallback serves a collection from the backend, then the cached
// snapshot, then the seed. Backend rows and the seed are written through.
func listWithFallback[T any](
	ctx context.Context,
	snap snapshot[T],
	remote func(context.Context) ([]T, error),
	seed func() []T,
) Result[[]T] {
	items, err := remote(ctx)
	switch {
	case err != nil:
		snap.logger.WarnContext(ctx, "backend list failed, falling back to cache", "collection", snap.key, "error", err)
	case len(items) > 0:
		snap.saveOrWarn(ctx, items)
		return Result[[]T]{Data: items, Source: SourceRemote}
	default:
		snap.logger.DebugContext(ctx, "backend returned no rows, trying cache", "collection", snap.key)
	}

	if cached, ok := snap.load(ctx); ok {
		return Result[[]T]{Data: cached, Source: SourceCache}
	}

	seeded := seed()
	snap.saveOrWarn(ctx, seeded)
	snap.logger.InfoContext(ctx, "serving seed dataset", "collection", snap.key, "count", len(seeded))
	return Result[[]T]{Data: seeded, Source: SourceSeed}
}
