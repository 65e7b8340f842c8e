// Package geo provides great-circle distance and weight-based shipping cost
// calculation for warehouse-to-destination legs.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0088

// Coordinates is an immutable latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Distance returns the great-circle distance between two coordinates in
// kilometres. It is symmetric and returns 0 iff both points are equal.
func Distance(a, b Coordinates) float64 {
	if a == b {
		return 0
	}
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ShippingCost prices a shipment leg: linear in distance and total weight.
func ShippingCost(distanceKm, weightKg, ratePerKgPerKm float64) float64 {
	return distanceKm * weightKg * ratePerKgPerKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
