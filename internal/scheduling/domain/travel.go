package domain

import "strings"

// Region groups cities for travel-time estimation.
type Region string

const (
	RegionEuropeWest Region = "europe-west"
	RegionEuropeEast Region = "europe-east"
	RegionNAEast     Region = "na-east"
	RegionNAWest     Region = "na-west"
	RegionLatam      Region = "latam"
	RegionAsia       Region = "asia"
	RegionOceania    Region = "oceania"
	RegionUnknown    Region = ""
)

const (
	// SameCityTravelHours covers venue-to-venue moves inside one city.
	SameCityTravelHours = 1.0
	// IntraRegionTravelHours covers short-haul flights or rail.
	IntraRegionTravelHours = 4.0
	// UnknownRouteTravelHours is the conservative fallback used when a route
	// is not in the pair table.
	UnknownRouteTravelHours = 16.0
)

// cityRegions maps known cities (lower-cased) to their region.
var cityRegions = map[string]Region{
	"london":        RegionEuropeWest,
	"paris":         RegionEuropeWest,
	"berlin":        RegionEuropeWest,
	"amsterdam":     RegionEuropeWest,
	"madrid":        RegionEuropeWest,
	"barcelona":     RegionEuropeWest,
	"lisbon":        RegionEuropeWest,
	"milan":         RegionEuropeWest,
	"warsaw":        RegionEuropeEast,
	"prague":        RegionEuropeEast,
	"budapest":      RegionEuropeEast,
	"new york":      RegionNAEast,
	"toronto":       RegionNAEast,
	"miami":         RegionNAEast,
	"chicago":       RegionNAEast,
	"los angeles":   RegionNAWest,
	"san francisco": RegionNAWest,
	"seattle":       RegionNAWest,
	"vancouver":     RegionNAWest,
	"mexico city":   RegionLatam,
	"sao paulo":     RegionLatam,
	"buenos aires":  RegionLatam,
	"tokyo":         RegionAsia,
	"seoul":         RegionAsia,
	"singapore":     RegionAsia,
	"hong kong":     RegionAsia,
	"sydney":        RegionOceania,
	"melbourne":     RegionOceania,
	"auckland":      RegionOceania,
}

// regionPairHours holds cross-region estimates keyed by the sorted region
// pair. Within-region hops not listed here use IntraRegionTravelHours.
var regionPairHours = map[string]float64{
	pairKey(RegionEuropeWest, RegionEuropeEast): 3,
	pairKey(RegionEuropeWest, RegionNAEast):     12,
	pairKey(RegionEuropeWest, RegionNAWest):     14,
	pairKey(RegionEuropeWest, RegionLatam):      15,
	pairKey(RegionEuropeWest, RegionAsia):       14,
	pairKey(RegionEuropeWest, RegionOceania):    16,
	pairKey(RegionEuropeEast, RegionNAEast):     13,
	pairKey(RegionEuropeEast, RegionNAWest):     15,
	pairKey(RegionNAEast, RegionNAWest):         6,
	pairKey(RegionNAEast, RegionLatam):          8,
	pairKey(RegionNAEast, RegionAsia):           16,
	pairKey(RegionNAWest, RegionAsia):           13,
	pairKey(RegionNAWest, RegionOceania):        15,
	pairKey(RegionAsia, RegionOceania):          10,
	pairKey(RegionLatam, RegionOceania):         16,
}

func pairKey(a, b Region) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "|" + string(b)
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// RegionForCity resolves a city name to its region, or RegionUnknown.
func RegionForCity(city string) Region {
	return cityRegions[normalizeCity(city)]
}

// EstimateTravelHours estimates the travel time needed between two cities:
// roughly an hour inside one city, a short hop within a region, a long-haul
// figure across regions, and a conservative fallback for unknown routes.
func EstimateTravelHours(cityA, cityB string) float64 {
	a := normalizeCity(cityA)
	b := normalizeCity(cityB)
	if a == "" || b == "" {
		return UnknownRouteTravelHours
	}
	if a == b {
		return SameCityTravelHours
	}
	regionA := RegionForCity(a)
	regionB := RegionForCity(b)
	if regionA == RegionUnknown || regionB == RegionUnknown {
		return UnknownRouteTravelHours
	}
	if regionA == regionB {
		return IntraRegionTravelHours
	}
	if hours, ok := regionPairHours[pairKey(regionA, regionB)]; ok {
		return hours
	}
	return UnknownRouteTravelHours
}
