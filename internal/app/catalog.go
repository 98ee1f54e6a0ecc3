package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotelverse/internal/adapters/observability"
	"hotelverse/internal/domain"
)

// CatalogService seeds and lists rooms, dishes and experiences.
type CatalogService struct {
	store    domain.DocumentStore
	cache    domain.Cache // optional
	cacheTTL time.Duration
	fixtures Fixtures
}

func NewCatalogService(s domain.DocumentStore, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{store: s, cache: c, cacheTTL: ttl, fixtures: DefaultFixtures()}
}

// WithFixtures swaps the seed data; used by tests and alternative deployments.
func (s *CatalogService) WithFixtures(f Fixtures) *CatalogService {
	s.fixtures = f
	return s
}

// Seed inserts the fixtures for kind when its collection is empty and returns how many were written.
func (s *CatalogService) Seed(ctx context.Context, kind domain.Kind) (int, error) {
	docs, err := s.fixtures.docs(kind)
	if err != nil {
		return 0, err
	}
	coll := kind.Collection()
	n, err := s.store.InsertManyIfEmpty(ctx, coll, docs)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", coll, err)
	}
	observability.ObserveSeed(coll, n)
	if n > 0 && s.cache != nil {
		if err := s.cache.DelPrefix(ctx, cachePrefix(coll)); err != nil {
			log.Warn().Err(err).Str("collection", coll).Msg("cache eviction after seed failed")
		}
	}
	return n, nil
}

// ListRooms filters by view (equality) and minimum capacity; zero values mean "any".
func (s *CatalogService) ListRooms(ctx context.Context, view string, minCapacity int) ([]domain.Room, error) {
	var f domain.Filter
	if view != "" {
		f = append(f, domain.Eq("view", view))
	}
	if minCapacity > 0 {
		f = append(f, domain.Gte("capacity", minCapacity))
	}
	return listDocs[domain.Room](ctx, s, domain.KindRooms.Collection(), f)
}

func (s *CatalogService) ListDishes(ctx context.Context, category string) ([]domain.Dish, error) {
	return listDocs[domain.Dish](ctx, s, domain.KindDishes.Collection(), categoryFilter(category))
}

func (s *CatalogService) ListExperiences(ctx context.Context, category string) ([]domain.Experience, error) {
	return listDocs[domain.Experience](ctx, s, domain.KindExperiences.Collection(), categoryFilter(category))
}

func categoryFilter(category string) domain.Filter {
	if category == "" {
		return nil
	}
	return domain.Filter{domain.Eq("category", category)}
}

// listDocs is a read-through cache over store.Find. The result is never nil.
func listDocs[T any](ctx context.Context, s *CatalogService, coll string, f domain.Filter) ([]T, error) {
	// availability is checked first so a warm cache never hides a missing database
	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	key := cachePrefix(coll) + f.Key()
	if s.cache != nil {
		var cached []T
		ok, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			// unreadable entry: drop it and fall through to the store
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
			if err := s.cache.Del(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache eviction failed")
			}
		case ok && cached != nil:
			return cached, nil
		}
	}

	out := []T{}
	if err := s.store.Find(ctx, coll, f, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", coll, err)
	}
	if out == nil {
		out = []T{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

func cachePrefix(coll string) string { return "catalog:" + coll + ":" }

type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Driver           string   `json:"driver"`
	Collections      []string `json:"collections"`
}

// Diagnose reports store connectivity. It never fails; problems are described in the result.
func (s *CatalogService) Diagnose(ctx context.Context, urlSet, nameSet bool) Diagnostics {
	d := Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      setFlag(urlSet),
		DatabaseName:     setFlag(nameSet),
		ConnectionStatus: "Not Connected",
		Driver:           s.store.Driver(),
		Collections:      []string{},
	}
	if s.store.Ready() != nil {
		return d
	}
	d.Database = "✅ Connected & Working"
	d.ConnectionStatus = "Connected"
	names, err := s.store.Collections(ctx)
	if err != nil {
		d.Database = "⚠️ Connected but error listing collections: " + truncate(err.Error(), 80)
		return d
	}
	if len(names) > 10 {
		names = names[:10]
	}
	if names != nil {
		d.Collections = names
	}
	return d
}

func setFlag(ok bool) string {
	if ok {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
