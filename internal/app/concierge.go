package app

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"hotelverse/internal/domain"
)

const (
	greetingBase     = "Welcome to the AR Hotel Universe"
	defaultSuggested = 3
)

type ConciergeService struct {
	store  domain.DocumentStore
	ranker Ranker
}

// NewConciergeService uses FirstN{3} when r is nil.
func NewConciergeService(s domain.DocumentStore, r Ranker) *ConciergeService {
	if r == nil {
		r = FirstN{N: defaultSuggested}
	}
	return &ConciergeService{store: s, ranker: r}
}

// Advise loads the full menu and experience snapshots and builds suggestions for p.
func (s *ConciergeService) Advise(ctx context.Context, p domain.Preference) (domain.ConciergeAdvice, error) {
	if err := s.store.Ready(); err != nil {
		return domain.ConciergeAdvice{}, err
	}

	var (
		dishes []domain.Dish
		exps   []domain.Experience
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.Find(gctx, domain.KindDishes.Collection(), nil, &dishes); err != nil {
			return fmt.Errorf("load dishes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.store.Find(gctx, domain.KindExperiences.Collection(), nil, &exps); err != nil {
			return fmt.Errorf("load experiences: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ConciergeAdvice{}, err
	}

	return Advise(p, dishes, exps, s.ranker), nil
}

// Advise is the pure suggestion step over in-memory snapshots.
func Advise(p domain.Preference, dishes []domain.Dish, exps []domain.Experience, r Ranker) domain.ConciergeAdvice {
	var suggestedDishes []domain.Dish
	if len(p.Dietary) > 0 {
		suggestedDishes = ExcludeAllergens(dishes, p.Dietary)
	} else {
		suggestedDishes = r.RankDishes(p, dishes)
	}
	suggestedExps := r.RankExperiences(p, exps)

	if suggestedDishes == nil {
		suggestedDishes = []domain.Dish{}
	}
	if suggestedExps == nil {
		suggestedExps = []domain.Experience{}
	}
	return domain.ConciergeAdvice{
		Greeting: Greeting(p.Language),
		Suggestions: []domain.Suggestion{
			{Type: domain.SuggestionDish, Items: suggestedDishes},
			{Type: domain.SuggestionExperience, Items: suggestedExps},
		},
	}
}

// ExcludeAllergens keeps dishes containing none of the avoided allergens (case-insensitive), in order.
func ExcludeAllergens(dishes []domain.Dish, avoid []string) []domain.Dish {
	set := make(map[string]struct{}, len(avoid))
	for _, a := range avoid {
		set[strings.ToLower(a)] = struct{}{}
	}
	out := make([]domain.Dish, 0, len(dishes))
	for _, d := range dishes {
		if !containsAny(d.Allergens, set) {
			out = append(out, d)
		}
	}
	return out
}

func containsAny(allergens []string, set map[string]struct{}) bool {
	for _, a := range allergens {
		if _, ok := set[strings.ToLower(a)]; ok {
			return true
		}
	}
	return false
}

// Greeting appends the language verbatim; it is not a locale switch.
func Greeting(language *string) string {
	if language != nil && *language != "" {
		return greetingBase + ", " + *language + "!"
	}
	return greetingBase + "!"
}
