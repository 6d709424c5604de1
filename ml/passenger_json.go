package ml

import (
	"encoding/json"
	"fmt"
	"io"
)

// passengerDocument mirrors PassengerInput with pointer numerics so an omitted
// field can be told apart from an explicit zero.
type passengerDocument struct {
	Gender            Gender          `json:"gender"`
	CustomerType      CustomerType    `json:"customer_type"`
	Age               *int            `json:"age"`
	TravelType        TravelType      `json:"travel_type"`
	Class             Class           `json:"class"`
	FlightDistanceKm  *int            `json:"flight_distance_km"`
	Ratings           *ratingDocument `json:"ratings"`
	DepartureDelayMin *int            `json:"departure_delay_min"`
	ArrivalDelayMin   *int            `json:"arrival_delay_min"`
}

type ratingDocument struct {
	Wifi            *int `json:"wifi"`
	TimeConvenience *int `json:"time_convenience"`
	OnlineBooking   *int `json:"online_booking"`
	Food            *int `json:"food"`
	OnlineBoarding  *int `json:"online_boarding"`
	SeatComfort     *int `json:"seat_comfort"`
	Entertainment   *int `json:"entertainment"`
	OnboardService  *int `json:"onboard_service"`
	Legroom         *int `json:"legroom"`
	Baggage         *int `json:"baggage"`
	Checkin         *int `json:"checkin"`
	InflightService *int `json:"inflight_service"`
	Cleanliness     *int `json:"cleanliness"`
}

func (d *ratingDocument) values() [RatingCount]*int {
	return [RatingCount]*int{
		d.Wifi,
		d.TimeConvenience,
		d.OnlineBooking,
		d.Food,
		d.OnlineBoarding,
		d.SeatComfort,
		d.Entertainment,
		d.OnboardService,
		d.Legroom,
		d.Baggage,
		d.Checkin,
		d.InflightService,
		d.Cleanliness,
	}
}

func missingField(field string) error {
	return &InputError{Field: field, Value: "", Kind: ErrOutOfRange}
}

// DecodePassenger reads one passenger JSON document. Unknown keys and malformed
// JSON are decode errors. A missing or null numeric field is an out-of-range
// InputError naming that field. Missing categories decode as empty and are
// rejected by Encode.
func DecodePassenger(r io.Reader) (PassengerInput, error) {
	var in PassengerInput
	var doc passengerDocument

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return in, fmt.Errorf("decode passenger: %w", err)
	}

	in.Gender = doc.Gender
	in.CustomerType = doc.CustomerType
	in.TravelType = doc.TravelType
	in.Class = doc.Class

	required := []struct {
		field string
		src   *int
		dst   *int
	}{
		{"age", doc.Age, &in.Age},
		{"flight_distance_km", doc.FlightDistanceKm, &in.FlightDistanceKm},
	}
	for _, f := range required {
		if f.src == nil {
			return in, missingField(f.field)
		}
		*f.dst = *f.src
	}

	if doc.Ratings == nil {
		return in, missingField("ratings")
	}
	for i, score := range doc.Ratings.values() {
		if score == nil {
			return in, missingField(RatingNames[i])
		}
		in.Ratings.SetByName(RatingNames[i], *score)
	}

	if doc.DepartureDelayMin == nil {
		return in, missingField("departure_delay_min")
	}
	in.DepartureDelayMin = *doc.DepartureDelayMin
	if doc.ArrivalDelayMin == nil {
		return in, missingField("arrival_delay_min")
	}
	in.ArrivalDelayMin = *doc.ArrivalDelayMin
	return in, nil
}
