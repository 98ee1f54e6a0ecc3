package app

import (
	"fmt"

	"hotelverse/internal/domain"
)

// Fixtures is the static seed content per collection.
type Fixtures struct {
	Rooms       []domain.Room
	Dishes      []domain.Dish
	Experiences []domain.Experience
}

func DefaultFixtures() Fixtures {
	return Fixtures{
		Rooms: []domain.Room{
			{
				Name:          "Sky Suite",
				Description:   ptr("Penthouse with panoramic skyline views and holographic ambient lighting."),
				PricePerNight: 899,
				View:          ptr("city"),
				Capacity:      2,
				Features:      []string{"holographic desk", "smart glass walls", "immersive audio"},
				Images:        []string{"/images/rooms/sky-suite-1.jpg"},
			},
			{
				Name:          "Ocean Nebula",
				Description:   ptr("Futuristic ocean-facing room with neon wave lighting and AR balcony guide."),
				PricePerNight: 659,
				View:          ptr("ocean"),
				Capacity:      3,
				Features:      []string{"neon wave lights", "ar balcony guide", "ai butler"},
				Images:        []string{"/images/rooms/ocean-nebula-1.jpg"},
			},
		},
		Dishes: []domain.Dish{
			{
				Name:        "Galactic Nigiri",
				Category:    "main",
				Description: ptr("Bluefin with edible stardust and yuzu nebula gel."),
				Price:       42,
				Calories:    ptr(320),
				Allergens:   []string{"fish", "soy"},
				Ingredients: []string{"tuna", "rice", "yuzu", "soy"},
				Models:      []string{"/models/dishes/nigiri.glb"},
			},
			{
				Name:        "Quantum Mousse",
				Category:    "dessert",
				Description: ptr("Dark chocolate sphere with liquid light core."),
				Price:       18,
				Calories:    ptr(540),
				Allergens:   []string{"dairy"},
				Ingredients: []string{"cacao", "cream", "sugar"},
				Models:      []string{"/models/dishes/mousse.glb"},
			},
		},
		Experiences: []domain.Experience{
			{
				Title:           "Zero-Gravity Spa",
				Description:     ptr("Float therapy with ambient galaxy soundscapes."),
				Category:        "spa",
				DurationMinutes: ptr(60),
				Images:          []string{"/images/experiences/spa-zerog.jpg"},
			},
			{
				Title:           "Sky Lounge VR Tour",
				Description:     ptr("360° tour of the sky lounge with sunrise simulation."),
				Category:        "sky lounge",
				DurationMinutes: ptr(15),
				Images:          []string{"/images/experiences/sky-lounge.jpg"},
			},
		},
	}
}

// docs returns the validated fixture documents for kind, defaults applied.
func (f Fixtures) docs(kind domain.Kind) ([]any, error) {
	var out []any
	add := func(doc any) error {
		if err := domain.Validate(doc); err != nil {
			return fmt.Errorf("%s fixture: %w", kind, err)
		}
		out = append(out, doc)
		return nil
	}
	switch kind {
	case domain.KindRooms:
		for _, r := range f.Rooms {
			r.ApplyDefaults()
			if err := add(r); err != nil {
				return nil, err
			}
		}
	case domain.KindDishes:
		for _, d := range f.Dishes {
			d.ApplyDefaults()
			if err := add(d); err != nil {
				return nil, err
			}
		}
	case domain.KindExperiences:
		for _, e := range f.Experiences {
			e.ApplyDefaults()
			if err := add(e); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }
