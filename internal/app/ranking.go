package app

import "hotelverse/internal/domain"

// Ranker picks suggestions when the guest gave no dietary constraints, and always for experiences.
// Implementations must not modify the input slices.
type Ranker interface {
	RankDishes(p domain.Preference, dishes []domain.Dish) []domain.Dish
	RankExperiences(p domain.Preference, exps []domain.Experience) []domain.Experience
}

// FirstN keeps the first N items in stored order and ignores the preference.
type FirstN struct{ N int }

func (r FirstN) RankDishes(_ domain.Preference, dishes []domain.Dish) []domain.Dish {
	return firstN(dishes, r.N)
}

func (r FirstN) RankExperiences(_ domain.Preference, exps []domain.Experience) []domain.Experience {
	return firstN(exps, r.N)
}

// firstN copies so callers never alias the snapshot's backing array.
func firstN[T any](xs []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(xs) < n {
		n = len(xs)
	}
	out := make([]T, n)
	copy(out, xs[:n])
	return out
}
