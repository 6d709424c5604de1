package ml

import (
	"strings"

	"golang.org/x/text/cases"
)

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

type CustomerType string

const (
	CustomerLoyal    CustomerType = "Loyal"
	CustomerDisloyal CustomerType = "Disloyal"
)

type TravelType string

const (
	TravelBusiness TravelType = "Business"
	TravelPersonal TravelType = "Personal"
)

type Class string

const (
	ClassBusiness Class = "Business"
	ClassEco      Class = "Eco"
	ClassEcoPlus  Class = "EcoPlus"
)

// RatingCount is the number of service-quality ratings collected per passenger.
const RatingCount = 13

// Ratings are the 0-5 service scores. Field order is the feature order.
type Ratings struct {
	Wifi            int `json:"wifi"`
	TimeConvenience int `json:"time_convenience"`
	OnlineBooking   int `json:"online_booking"`
	Food            int `json:"food"`
	OnlineBoarding  int `json:"online_boarding"`
	SeatComfort     int `json:"seat_comfort"`
	Entertainment   int `json:"entertainment"`
	OnboardService  int `json:"onboard_service"`
	Legroom         int `json:"legroom"`
	Baggage         int `json:"baggage"`
	Checkin         int `json:"checkin"`
	InflightService int `json:"inflight_service"`
	Cleanliness     int `json:"cleanliness"`
}

// RatingNames lists the rating keys in feature order.
var RatingNames = [RatingCount]string{
	"wifi",
	"time_convenience",
	"online_booking",
	"food",
	"online_boarding",
	"seat_comfort",
	"entertainment",
	"onboard_service",
	"legroom",
	"baggage",
	"checkin",
	"inflight_service",
	"cleanliness",
}

func (r Ratings) Values() [RatingCount]int {
	return [RatingCount]int{
		r.Wifi,
		r.TimeConvenience,
		r.OnlineBooking,
		r.Food,
		r.OnlineBoarding,
		r.SeatComfort,
		r.Entertainment,
		r.OnboardService,
		r.Legroom,
		r.Baggage,
		r.Checkin,
		r.InflightService,
		r.Cleanliness,
	}
}

// SetByName assigns a rating by its RatingNames key.
func (r *Ratings) SetByName(name string, value int) bool {
	switch name {
	case "wifi":
		r.Wifi = value
	case "time_convenience":
		r.TimeConvenience = value
	case "online_booking":
		r.OnlineBooking = value
	case "food":
		r.Food = value
	case "online_boarding":
		r.OnlineBoarding = value
	case "seat_comfort":
		r.SeatComfort = value
	case "entertainment":
		r.Entertainment = value
	case "onboard_service":
		r.OnboardService = value
	case "legroom":
		r.Legroom = value
	case "baggage":
		r.Baggage = value
	case "checkin":
		r.Checkin = value
	case "inflight_service":
		r.InflightService = value
	case "cleanliness":
		r.Cleanliness = value
	default:
		return false
	}
	return true
}

// UniformRatings sets every rating to the same score.
func UniformRatings(score int) Ratings {
	return Ratings{
		Wifi:            score,
		TimeConvenience: score,
		OnlineBooking:   score,
		Food:            score,
		OnlineBoarding:  score,
		SeatComfort:     score,
		Entertainment:   score,
		OnboardService:  score,
		Legroom:         score,
		Baggage:         score,
		Checkin:         score,
		InflightService: score,
		Cleanliness:     score,
	}
}

// PassengerInput is one filled-in form. It is built per request and discarded.
type PassengerInput struct {
	Gender            Gender       `json:"gender"`
	CustomerType      CustomerType `json:"customer_type"`
	Age               int          `json:"age"`
	TravelType        TravelType   `json:"travel_type"`
	Class             Class        `json:"class"`
	FlightDistanceKm  int          `json:"flight_distance_km"`
	Ratings           Ratings      `json:"ratings"`
	DepartureDelayMin int          `json:"departure_delay_min"`
	ArrivalDelayMin   int          `json:"arrival_delay_min"`
}

// Option is a selectable category value with the label shown on the form.
type Option struct {
	Value string
	Label string
}

var (
	GenderOptions = []Option{
		{Value: string(GenderFemale), Label: "Female"},
		{Value: string(GenderMale), Label: "Male"},
	}
	CustomerTypeOptions = []Option{
		{Value: string(CustomerLoyal), Label: "Loyal Customer"},
		{Value: string(CustomerDisloyal), Label: "Disloyal Customer"},
	}
	TravelTypeOptions = []Option{
		{Value: string(TravelBusiness), Label: "Business Travel"},
		{Value: string(TravelPersonal), Label: "Personal Travel"},
	}
	ClassOptions = []Option{
		{Value: string(ClassBusiness), Label: "Business"},
		{Value: string(ClassEco), Label: "Eco"},
		{Value: string(ClassEcoPlus), Label: "Eco Plus"},
	}
)

// lookupOption matches text against both the value and the display label of each
// option, ignoring case.
func lookupOption(field, text string, options []Option) (string, error) {
	// A Caser is stateful; one per call keeps parsing safe across goroutines.
	folder := cases.Fold()
	key := folder.String(strings.TrimSpace(text))
	for _, opt := range options {
		if key == folder.String(opt.Value) || key == folder.String(opt.Label) {
			return opt.Value, nil
		}
	}
	return "", invalidCategory(field, text)
}

func ParseGender(text string) (Gender, error) {
	v, err := lookupOption("gender", text, GenderOptions)
	return Gender(v), err
}

func ParseCustomerType(text string) (CustomerType, error) {
	v, err := lookupOption("customer_type", text, CustomerTypeOptions)
	return CustomerType(v), err
}

func ParseTravelType(text string) (TravelType, error) {
	v, err := lookupOption("travel_type", text, TravelTypeOptions)
	return TravelType(v), err
}

func ParseClass(text string) (Class, error) {
	v, err := lookupOption("class", text, ClassOptions)
	return Class(v), err
}
