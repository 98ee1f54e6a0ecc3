package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"hotelverse/internal/adapters/observability"
	"hotelverse/internal/domain"
)

const (
	// BaseNightlyRate applies to every room; room_id does not change it.
	BaseNightlyRate   = 500.0
	WeekendMultiplier = 1.1
	DefaultAddonPrice = 50.0

	secondsPerDay = 24 * 60 * 60

	SundayArrivalSuggestion = "Consider arriving Sunday night for better rates"
)

var AddonPrices = map[string]float64{
	"flowers":     60,
	"wine":        120,
	"candlelight": 200,
}

// Accepted stay date layouts, date-only first.
var stayDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
}

type QuoteService struct {
	store domain.DocumentStore
}

func NewQuoteService(s domain.DocumentStore) *QuoteService {
	return &QuoteService{store: s}
}

// Quote prices req. The store is not read, but an unavailable store still rejects the request.
func (s *QuoteService) Quote(ctx context.Context, req domain.BookingRequest) (domain.Quote, error) {
	if err := s.store.Ready(); err != nil {
		return domain.Quote{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Quote{}, err
	}
	q, checkIn, err := CalculateQuote(req)
	if err != nil {
		return domain.Quote{}, err
	}
	observability.ObserveQuote(isWeekend(checkIn))
	return q, nil
}

// CalculateQuote is the pure pricing step. It also returns the parsed check-in.
func CalculateQuote(req domain.BookingRequest) (domain.Quote, time.Time, error) {
	checkIn, err := parseStayDate("check_in", req.CheckIn)
	if err != nil {
		return domain.Quote{}, time.Time{}, err
	}
	checkOut, err := parseStayDate("check_out", req.CheckOut)
	if err != nil {
		return domain.Quote{}, time.Time{}, err
	}

	nights := nightsBetween(checkIn, checkOut)

	multiplier := 1.0
	if isWeekend(checkIn) {
		multiplier = WeekendMultiplier
	}
	nightly := round2(BaseNightlyRate * multiplier)

	addons := make([]domain.AddonCharge, 0, len(req.Addons))
	addonSum := 0.0
	for _, name := range req.Addons {
		price, ok := AddonPrices[name]
		if !ok {
			price = DefaultAddonPrice
		}
		addons = append(addons, domain.AddonCharge{Name: name, Price: price})
		addonSum += price
	}

	q := domain.Quote{
		NightlyRate: nightly,
		Nights:      nights,
		Addons:      addons,
		Total:       round2(nightly*float64(nights) + addonSum),
	}
	if checkIn.Weekday() == time.Saturday {
		s := SundayArrivalSuggestion
		q.Suggestion = &s
	}
	return q, checkIn, nil
}

func parseStayDate(field, v string) (time.Time, error) {
	for _, layout := range stayDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s %q", domain.ErrInvalidDateFormat, field, v)
}

// nightsBetween floors the whole days between the dates and never returns less than 1.
// It counts in Unix seconds; time.Duration tops out near 292 years.
func nightsBetween(in, out time.Time) int {
	secs := out.Unix() - in.Unix()
	if out.Nanosecond() < in.Nanosecond() {
		secs-- // a partial second does not complete a day
	}
	days := secs / secondsPerDay
	if days < 1 {
		return 1
	}
	return int(days)
}

// Friday and Saturday check-ins carry the weekend surcharge.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
