package ml

// FeatureCount is the width of the vector the classifier was trained on.
const FeatureCount = 20

// FeatureVector is the only input contract of the classifier. Slot order must
// match the trained artifact exactly.
type FeatureVector [FeatureCount]float64

const (
	MaxAge    = 120
	MaxRating = 5
)

const (
	BucketShort  = "Short"
	BucketMedium = "Medium"
	BucketLong   = "Long"

	BucketTeen       = "Teen"
	BucketYoungAdult = "Young Adult"
	BucketAdult      = "Adult"
	BucketSenior     = "Senior"
)

// The tables below are frozen: they reproduce the label encoding the model was
// trained with and are not ordered in any meaningful way.
var (
	genderCodes = map[Gender]float64{
		GenderFemale: 0,
		GenderMale:   1,
	}
	customerTypeCodes = map[CustomerType]float64{
		CustomerLoyal:    0,
		CustomerDisloyal: 1,
	}
	travelTypeCodes = map[TravelType]float64{
		TravelBusiness: 0,
		TravelPersonal: 1,
	}
	classCodes = map[Class]float64{
		ClassBusiness: 0,
		ClassEco:      1,
		ClassEcoPlus:  2,
	}
	distanceCodes = map[string]float64{
		BucketLong:   0,
		BucketMedium: 1,
		BucketShort:  2,
	}
	ageCodes = map[string]float64{
		BucketAdult:      0,
		BucketSenior:     1,
		BucketTeen:       2,
		BucketYoungAdult: 3,
	}
)

var featureNames = [FeatureCount]string{
	"gender",
	"customer_type",
	"age_group",
	"travel_type",
	"class",
	"flight_distance_group",
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
	"total_delay",
}

// FeatureNames returns the slot names of a FeatureVector in order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	copy(names, featureNames[:])
	return names
}

func DistanceBucket(km int) string {
	switch {
	case km < 500:
		return BucketShort
	case km < 1500:
		return BucketMedium
	default:
		return BucketLong
	}
}

func AgeBucket(age int) string {
	switch {
	case age < 18:
		return BucketTeen
	case age < 30:
		return BucketYoungAdult
	case age < 50:
		return BucketAdult
	default:
		return BucketSenior
	}
}

// Encode maps a passenger record to the classifier's feature vector. It never
// clamps or defaults: the first invalid field is returned as an *InputError.
func Encode(in PassengerInput) (FeatureVector, error) {
	var v FeatureVector

	gender, ok := genderCodes[in.Gender]
	if !ok {
		return v, invalidCategory("gender", string(in.Gender))
	}
	customer, ok := customerTypeCodes[in.CustomerType]
	if !ok {
		return v, invalidCategory("customer_type", string(in.CustomerType))
	}
	travel, ok := travelTypeCodes[in.TravelType]
	if !ok {
		return v, invalidCategory("travel_type", string(in.TravelType))
	}
	class, ok := classCodes[in.Class]
	if !ok {
		return v, invalidCategory("class", string(in.Class))
	}

	if in.Age < 0 || in.Age > MaxAge {
		return v, outOfRange("age", in.Age)
	}
	if in.FlightDistanceKm < 0 {
		return v, outOfRange("flight_distance_km", in.FlightDistanceKm)
	}
	ratings := in.Ratings.Values()
	for i, r := range ratings {
		if r < 0 || r > MaxRating {
			return v, outOfRange(RatingNames[i], r)
		}
	}
	if in.DepartureDelayMin < 0 {
		return v, outOfRange("departure_delay_min", in.DepartureDelayMin)
	}
	if in.ArrivalDelayMin < 0 {
		return v, outOfRange("arrival_delay_min", in.ArrivalDelayMin)
	}

	v[0] = gender
	v[1] = customer
	v[2] = ageCodes[AgeBucket(in.Age)]
	v[3] = travel
	v[4] = class
	v[5] = distanceCodes[DistanceBucket(in.FlightDistanceKm)]
	for i, r := range ratings {
		v[6+i] = float64(r) / 5.0
	}
	v[FeatureCount-1] = (float64(in.DepartureDelayMin) + float64(in.ArrivalDelayMin)) / 100.0
	return v, nil
}
