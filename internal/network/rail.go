package network

// railGraph is the Class I railroad adjacency list. Only hubs present
// here are rail-served; connections may reference yards outside the hub
// registry (Dallas, Milwaukee) that the solver treats as pass-through
// nodes.
var railGraph = map[string][]string{
	"Houston, TX":     {"New Orleans, LA", "Dallas, TX", "San Antonio, TX", "Memphis, TN", "Chicago, IL"},
	"Chicago, IL":     {"Detroit, MI", "Milwaukee, WI", "St. Louis, MO", "Memphis, TN", "New Orleans, LA", "Houston, TX"},
	"Los Angeles, CA": {"Long Beach, CA", "San Francisco/Oakland, CA", "Seattle, WA", "Chicago, IL"},
	"New York/NJ":     {"Philadelphia, PA", "Boston, MA", "Norfolk, VA", "Chicago, IL"},
	"Seattle, WA":     {"Portland, OR", "Los Angeles, CA", "Chicago, IL"},
	"Long Beach, CA":  {"Los Angeles, CA", "San Francisco/Oakland, CA"},
	"New Orleans, LA": {"Houston, TX", "Mobile, AL", "Memphis, TN", "Chicago, IL"},
	"Norfolk, VA":     {"New York/NJ", "Philadelphia, PA", "Savannah, GA"},
	"Savannah, GA":    {"Norfolk, VA", "Jacksonville, FL", "Miami, FL"},
	"Memphis, TN":     {"New Orleans, LA", "Chicago, IL", "St. Louis, MO"},
	"St. Louis, MO":   {"Chicago, IL", "Memphis, TN", "Houston, TX"},
}

// railSegments carries edge mileage for the rail graph. Symmetric
// lookups; pairs missing here fall back to the solver's average-segment
// estimate.
var railSegments = map[string]float64{
	// West Coast
	"Los Angeles, CA-Long Beach, CA":            25,
	"Los Angeles, CA-San Francisco/Oakland, CA": 382,
	"Los Angeles, CA-Seattle, WA":               1377,
	"Los Angeles, CA-Portland, OR":              963,
	"Long Beach, CA-San Francisco/Oakland, CA":  400,
	"San Francisco/Oakland, CA-Portland, OR":    713,
	"San Francisco/Oakland, CA-Seattle, WA":     926,
	"Portland, OR-Seattle, WA":                  186,

	// Cross-continental
	"Los Angeles, CA-Chicago, IL": 2256,
	"Los Angeles, CA-Houston, TX": 1546,
	"Seattle, WA-Chicago, IL":     2062,
	"Seattle, WA-New York/NJ":     2852,

	// Gulf Coast
	"Houston, TX-New Orleans, LA":      350,
	"Houston, TX-Mobile, AL":           367,
	"Houston, TX-Chicago, IL":          1092,
	"New Orleans, LA-Mobile, AL":       150,
	"New Orleans, LA-Jacksonville, FL": 358,
	"Mobile, AL-Jacksonville, FL":      208,

	// Southeast
	"Jacksonville, FL-Savannah, GA": 139,
	"Jacksonville, FL-Miami, FL":    354,
	"Savannah, GA-Norfolk, VA":      419,
	"Norfolk, VA-Philadelphia, PA":  295,
	"Miami, FL-Tampa Bay, FL":       281,

	// Northeast corridor
	"New York/NJ-Philadelphia, PA": 83,
	"New York/NJ-Boston, MA":       231,
	"Philadelphia, PA-Norfolk, VA": 295,
	"Boston, MA-Philadelphia, PA":  314,

	// Midwest
	"Chicago, IL-St. Louis, MO":          284,
	"Chicago, IL-Memphis, TN":            341,
	"Chicago, IL-Duluth-Superior, MN/WI": 465,
	"St. Louis, MO-Memphis, TN":          305,
	"Memphis, TN-New Orleans, LA":        395,
}

// curatedRailPaths overrides solver output for corridors where the
// shortest graph walk does not match how freight actually moves. The
// override wins even when it is longer than the found path.
var curatedRailPaths = map[string][]string{
	"Seattle, WA-Chicago, IL": {"Seattle, WA", "Portland, OR", "Chicago, IL"},
	"Houston, TX-Chicago, IL": {"Houston, TX", "St. Louis, MO", "Chicago, IL"},
}

// RailNeighbors returns the rail connections of a hub, or nil when the
// hub is not rail-served.
func RailNeighbors(hub string) []string {
	return railGraph[hub]
}

// RailServedHub reports whether the named hub sits on the rail graph.
func RailServedHub(name string) bool {
	_, ok := railGraph[name]
	return ok
}

// RailSegmentDistance returns the tabulated mileage of one rail edge.
// Lookups are symmetric. The second return is false for untabulated
// edges.
func RailSegmentDistance(from, to string) (float64, bool) {
	if d, ok := railSegments[pairKey(from, to)]; ok {
		return d, true
	}
	d, ok := railSegments[pairKey(to, from)]
	return d, ok
}

// CuratedRailPath returns the hand-maintained path for a corridor, in
// origin→destination order, or nil when none exists. Reverse corridors
// resolve to the reversed path.
func CuratedRailPath(origin, destination string) []string {
	if p, ok := curatedRailPaths[pairKey(origin, destination)]; ok {
		out := make([]string, len(p))
		copy(out, p)
		return out
	}
	if p, ok := curatedRailPaths[pairKey(destination, origin)]; ok {
		out := make([]string, len(p))
		for i, hub := range p {
			out[len(p)-1-i] = hub
		}
		return out
	}
	return nil
}

// RailroadsFor collects the distinct railroads serving the hubs on a
// path, in first-seen order.
func RailroadsFor(path []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range path {
		h, ok := hubs[name]
		if !ok {
			continue
		}
		for _, rr := range h.Railroads {
			if !seen[rr] {
				seen[rr] = true
				out = append(out, rr)
			}
		}
	}
	return out
}
