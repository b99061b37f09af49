package network

import "math"

// earthRadiusMiles is the mean Earth radius used for great-circle math.
const earthRadiusMiles = 3959

// GreatCircleMiles returns the haversine distance between two hubs.
func GreatCircleMiles(a, b Hub) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}
