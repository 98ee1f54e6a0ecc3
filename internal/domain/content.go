package domain

import "fmt"

type Room struct {
	ID            string   `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string   `json:"name" bson:"name" validate:"required"`
	Description   *string  `json:"description" bson:"description"`
	PricePerNight float64  `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	View          *string  `json:"view" bson:"view"` // ocean, city, garden
	Capacity      int      `json:"capacity" bson:"capacity" validate:"gte=1"`
	Features      []string `json:"features" bson:"features"`
	Images        []string `json:"images" bson:"images"`
}

// ApplyDefaults fills the fields that have a non-zero default.
func (r *Room) ApplyDefaults() {
	if r.Capacity == 0 {
		r.Capacity = 2
	}
	if r.Features == nil {
		r.Features = []string{}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
}

type Dish struct {
	ID          string   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string   `json:"name" bson:"name" validate:"required"`
	Category    string   `json:"category" bson:"category" validate:"required"` // appetizer, main, dessert
	Description *string  `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price" validate:"gte=0"`
	Calories    *int     `json:"calories" bson:"calories"`
	Allergens   []string `json:"allergens" bson:"allergens"`
	Ingredients []string `json:"ingredients" bson:"ingredients"`
	Models      []string `json:"models" bson:"models"` // 3D asset URLs, opaque
}

func (d *Dish) ApplyDefaults() {
	if d.Allergens == nil {
		d.Allergens = []string{}
	}
	if d.Ingredients == nil {
		d.Ingredients = []string{}
	}
	if d.Models == nil {
		d.Models = []string{}
	}
}

type Experience struct {
	ID              string   `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string   `json:"title" bson:"title" validate:"required"`
	Description     *string  `json:"description" bson:"description"`
	Category        string   `json:"category" bson:"category" validate:"required"` // spa, pool, gym, sky lounge
	DurationMinutes *int     `json:"duration_minutes" bson:"duration_minutes"`
	Images          []string `json:"images" bson:"images"`
}

func (e *Experience) ApplyDefaults() {
	if e.Images == nil {
		e.Images = []string{}
	}
}

// Kind names a content collection as it appears in URLs (/seed/{kind}).
type Kind string

const (
	KindRooms       Kind = "rooms"
	KindDishes      Kind = "dishes"
	KindExperiences Kind = "experiences"
)

var AllKinds = []Kind{KindRooms, KindDishes, KindExperiences}

func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Collection is the store collection backing the kind.
func (k Kind) Collection() string {
	switch k {
	case KindRooms:
		return "room"
	case KindDishes:
		return "dish"
	case KindExperiences:
		return "experience"
	}
	return ""
}
