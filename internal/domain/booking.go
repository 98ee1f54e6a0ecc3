package domain

type BookingRequest struct {
	RoomID   *string  `json:"room_id"`
	CheckIn  string   `json:"check_in" validate:"required"`
	CheckOut string   `json:"check_out" validate:"required"`
	Guests   int      `json:"guests" validate:"gte=1"`
	Addons   []string `json:"addons"`
}

// NewBookingRequest returns a request carrying the field defaults; decode JSON on top of it.
func NewBookingRequest() BookingRequest {
	return BookingRequest{Guests: 1, Addons: []string{}}
}

type AddonCharge struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Quote struct {
	NightlyRate float64       `json:"nightly_rate"`
	Nights      int           `json:"nights"`
	Addons      []AddonCharge `json:"addons"`
	Total       float64       `json:"total"`
	Suggestion  *string       `json:"suggestion"`
}
