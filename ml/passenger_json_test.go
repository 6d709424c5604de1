package ml

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPassengerJSON = `{
	"gender": "Female",
	"customer_type": "Disloyal",
	"age": 0,
	"travel_type": "Personal",
	"class": "EcoPlus",
	"flight_distance_km": 2500,
	"ratings": {
		"wifi": 0, "time_convenience": 1, "online_booking": 2, "food": 3,
		"online_boarding": 4, "seat_comfort": 5, "entertainment": 0,
		"onboard_service": 1, "legroom": 2, "baggage": 3, "checkin": 4,
		"inflight_service": 5, "cleanliness": 0
	},
	"departure_delay_min": 0,
	"arrival_delay_min": 15
}`

func TestDecodePassenger(t *testing.T) {
	in, err := DecodePassenger(strings.NewReader(fullPassengerJSON))
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, in.Gender)
	assert.Equal(t, ClassEcoPlus, in.Class)
	assert.Equal(t, 0, in.Age)
	assert.Equal(t, 2500, in.FlightDistanceKm)
	assert.Equal(t, [RatingCount]int{0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 0}, in.Ratings.Values())
	assert.Equal(t, 15, in.ArrivalDelayMin)
}

func TestDecodePassengerMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(string) string
		field string
	}{
		{"age", func(s string) string { return strings.Replace(s, `"age": 0,`, "", 1) }, "age"},
		{"null age", func(s string) string { return strings.Replace(s, `"age": 0,`, `"age": null,`, 1) }, "age"},
		{"distance", func(s string) string { return strings.Replace(s, `"flight_distance_km": 2500,`, "", 1) }, "flight_distance_km"},
		{"one rating", func(s string) string { return strings.Replace(s, `"legroom": 2,`, "", 1) }, "legroom"},
		{"departure delay", func(s string) string { return strings.Replace(s, `"departure_delay_min": 0,`, "", 1) }, "departure_delay_min"},
		{"arrival delay", func(s string) string {
			return strings.Replace(s, `,
	"arrival_delay_min": 15`, "", 1)
		}, "arrival_delay_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.edit(fullPassengerJSON)
			require.NotEqual(t, fullPassengerJSON, body)
			_, err := DecodePassenger(strings.NewReader(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOutOfRange)
			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestDecodePassengerMissingRatings(t *testing.T) {
	_, err := DecodePassenger(strings.NewReader(`{"gender": "Male", "age": 30, "flight_distance_km": 100}`))
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "ratings", inputErr.Field)
}

func TestDecodePassengerRejectsBadJSON(t *testing.T) {
	_, err := DecodePassenger(strings.NewReader(`{"age": 30, "seat": "12A"}`))
	require.Error(t, err)
	assert.False(t, IsInputError(err))

	_, err = DecodePassenger(strings.NewReader(`{`))
	require.Error(t, err)
	assert.False(t, IsInputError(err))
}

func TestDecodedMissingCategoryFailsEncode(t *testing.T) {
	body := strings.Replace(fullPassengerJSON, `"gender": "Female",`, "", 1)
	in, err := DecodePassenger(strings.NewReader(body))
	require.NoError(t, err)
	_, err = Encode(in)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
