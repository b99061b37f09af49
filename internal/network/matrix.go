package network

import "sort"

// matrixEntry carries curated point-to-point mileage per mode. A zero
// value means the mode is not tabulated for that pair.
type matrixEntry struct {
	Truck float64
	Rail  float64
}

// mileage is the curated pairwise matrix. Lookups are symmetric, so each
// pair appears once.
var mileage = map[string]matrixEntry{
	// Houston, TX connections
	"Houston, TX-New Orleans, LA":           {Truck: 350, Rail: 350},
	"Houston, TX-Mobile, AL":                {Truck: 335, Rail: 367},
	"Houston, TX-Tampa Bay, FL":             {Truck: 875, Rail: 920},
	"Houston, TX-Savannah, GA":              {Truck: 870, Rail: 915},
	"Houston, TX-Jacksonville, FL":          {Truck: 825, Rail: 890},
	"Houston, TX-Miami, FL":                 {Truck: 1190, Rail: 1250},
	"Houston, TX-New York/NJ":               {Truck: 1630, Rail: 1720},
	"Houston, TX-Philadelphia, PA":          {Truck: 1555, Rail: 1640},
	"Houston, TX-Norfolk, VA":               {Truck: 1420, Rail: 1510},
	"Houston, TX-Boston, MA":                {Truck: 1770, Rail: 1860},
	"Houston, TX-Long Beach, CA":            {Truck: 1545, Rail: 1720},
	"Houston, TX-Los Angeles, CA":           {Truck: 1555, Rail: 1546},
	"Houston, TX-Seattle, WA":               {Truck: 2350, Rail: 2480},
	"Houston, TX-Portland, OR":              {Truck: 2180, Rail: 2300},
	"Houston, TX-San Francisco/Oakland, CA": {Truck: 1920, Rail: 2050},
	"Houston, TX-Chicago, IL":               {Truck: 1080, Rail: 1092},
	"Houston, TX-St. Louis, MO":             {Truck: 780, Rail: 679},
	"Houston, TX-Memphis, TN":               {Truck: 570, Rail: 520},
	"Houston, TX-Duluth-Superior, MN/WI":    {Truck: 1350, Rail: 1200},

	// Los Angeles, CA connections
	"Los Angeles, CA-Long Beach, CA":            {Truck: 25, Rail: 25},
	"Los Angeles, CA-San Francisco/Oakland, CA": {Truck: 380, Rail: 382},
	"Los Angeles, CA-Seattle, WA":               {Truck: 1135, Rail: 1377},
	"Los Angeles, CA-Portland, OR":              {Truck: 965, Rail: 963},
	"Los Angeles, CA-New Orleans, LA":           {Truck: 1890, Rail: 2090},
	"Los Angeles, CA-Chicago, IL":               {Truck: 2015, Rail: 2256},
	"Los Angeles, CA-New York/NJ":               {Truck: 2790, Rail: 2800},
	"Los Angeles, CA-Miami, FL":                 {Truck: 2750, Rail: 2900},
	"Los Angeles, CA-Boston, MA":                {Truck: 3000, Rail: 3100},

	// Seattle, WA connections
	"Seattle, WA-Portland, OR":              {Truck: 170, Rail: 186},
	"Seattle, WA-San Francisco/Oakland, CA": {Truck: 810, Rail: 926},
	"Seattle, WA-Long Beach, CA":            {Truck: 1160, Rail: 1380},
	"Seattle, WA-Chicago, IL":               {Truck: 2065, Rail: 2062},
	"Seattle, WA-New York/NJ":               {Truck: 2860, Rail: 2852},

	// New York/NJ connections
	"New York/NJ-Philadelphia, PA": {Truck: 95, Rail: 83},
	"New York/NJ-Boston, MA":       {Truck: 215, Rail: 231},
	"New York/NJ-Norfolk, VA":      {Truck: 340, Rail: 375},
	"New York/NJ-Savannah, GA":     {Truck: 720, Rail: 785},
	"New York/NJ-Jacksonville, FL": {Truck: 940, Rail: 1020},
	"New York/NJ-Miami, FL":        {Truck: 1280, Rail: 1380},
	"New York/NJ-Chicago, IL":      {Truck: 790, Rail: 790},

	// Chicago, IL connections
	"Chicago, IL-St. Louis, MO":          {Truck: 300, Rail: 284},
	"Chicago, IL-Memphis, TN":            {Truck: 530, Rail: 341},
	"Chicago, IL-Duluth-Superior, MN/WI": {Truck: 350, Rail: 465},
	"Chicago, IL-Detroit, MI":            {Truck: 280, Rail: 285},

	// Gulf Coast connections
	"New Orleans, LA-Mobile, AL":    {Truck: 145, Rail: 150},
	"New Orleans, LA-Tampa Bay, FL": {Truck: 680, Rail: 720},
	"Mobile, AL-Tampa Bay, FL":      {Truck: 290, Rail: 340},

	// Southeast connections
	"Savannah, GA-Jacksonville, FL": {Truck: 140, Rail: 139},
	"Jacksonville, FL-Miami, FL":    {Truck: 345, Rail: 354},
	"Tampa Bay, FL-Miami, FL":       {Truck: 280, Rail: 281},
	"Miami, FL-Norfolk, VA":         {Truck: 971, Rail: 912},

	// Northeast connections
	"Philadelphia, PA-Norfolk, VA": {Truck: 300, Rail: 295},
	"Norfolk, VA-Savannah, GA":     {Truck: 375, Rail: 419},
	"Boston, MA-Philadelphia, PA":  {Truck: 314, Rail: 314},

	// Midwest connections
	"St. Louis, MO-Memphis, TN":   {Truck: 285, Rail: 305},
	"Memphis, TN-New Orleans, LA": {Truck: 340, Rail: 395},

	// West Coast connections
	"Portland, OR-San Francisco/Oakland, CA":   {Truck: 635, Rail: 713},
	"San Francisco/Oakland, CA-Long Beach, CA": {Truck: 400, Rail: 400},
}

func pairKey(a, b string) string {
	return a + "-" + b
}

// MatrixDistance returns the curated mileage between two hubs for the
// given mode. Lookups are symmetric: A-B and B-A resolve to the same
// entry. The second return is false when the pair or mode is not
// tabulated.
func MatrixDistance(origin, destination string, mode Mode) (float64, bool) {
	entry, ok := mileage[pairKey(origin, destination)]
	if !ok {
		entry, ok = mileage[pairKey(destination, origin)]
	}
	if !ok {
		return 0, false
	}
	var d float64
	switch mode {
	case ModeTruck:
		d = entry.Truck
	case ModeRail:
		d = entry.Rail
	}
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// MatrixRoute describes one tabulated corridor reachable from a hub.
type MatrixRoute struct {
	Destination   string
	DistanceMiles float64
	Mode          Mode
}

// AvailableRoutes lists all tabulated corridors from origin for a mode.
func AvailableRoutes(origin string, mode Mode) []MatrixRoute {
	var routes []MatrixRoute
	for key := range mileage {
		from, to := splitPairKey(key)
		if from == "" {
			continue
		}
		var dest string
		switch origin {
		case from:
			dest = to
		case to:
			dest = from
		default:
			continue
		}
		if d, found := MatrixDistance(origin, dest, mode); found {
			routes = append(routes, MatrixRoute{Destination: dest, DistanceMiles: d, Mode: mode})
		}
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Destination < routes[j].Destination })
	return routes
}

// splitPairKey resolves a pair key against the hub registry, tolerating
// dashes inside hub names.
func splitPairKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] != '-' {
			continue
		}
		from, to := key[:i], key[i+1:]
		if KnownHub(from) && KnownHub(to) {
			return from, to
		}
	}
	return "", ""
}
