// Package network holds the static freight network: the hub registry,
// the curated mileage matrix, and the rail graph the solver walks.
// Data covers 20 US ports and inland hubs served by Class I railroads.
package network

import "sort"

// Mode identifies a transport mode for a single leg. The set is closed;
// anything outside it is rejected at validation time.
type Mode string

const (
	ModeTruck Mode = "truck"
	ModeRail  Mode = "rail"
)

// Valid reports whether m is one of the supported transport modes.
func (m Mode) Valid() bool {
	return m == ModeTruck || m == ModeRail
}

// Modes lists the supported transport modes in planning order.
func Modes() []Mode {
	return []Mode{ModeTruck, ModeRail}
}

// Method records which resolution tier produced a distance figure.
// Every resolved leg carries its provenance so callers can tell curated
// data from estimates.
type Method string

const (
	MethodLiveDirections     Method = "live_directions"
	MethodDistanceMatrix     Method = "distance_matrix"
	MethodLocalRailData      Method = "local_rail_data"
	MethodNetworkRouting     Method = "network_routing"
	MethodCuratedPath        Method = "curated_path"
	MethodCoordinateEstimate Method = "coordinate_estimation"
)

// Estimated reports whether the method is a low-confidence fallback
// rather than curated or observed data.
func (m Method) Estimated() bool {
	return m == MethodCoordinateEstimate
}

// HubType classifies a hub's role in the network.
type HubType string

const (
	HubMajor    HubType = "major_hub"
	HubPort     HubType = "port_hub"
	HubTerminal HubType = "port_terminal"
	HubInland   HubType = "inland_hub"
)

// Hub is one node of the freight network.
type Hub struct {
	Name      string
	Lat       float64
	Lon       float64
	Type      HubType
	Railroads []string
}

// RailServed reports whether the hub sits on the rail graph.
func (h Hub) RailServed() bool {
	_, ok := railGraph[h.Name]
	return ok
}

var hubs = map[string]Hub{
	"Houston, TX":               {Name: "Houston, TX", Lat: 29.7604, Lon: -95.3698, Type: HubMajor, Railroads: []string{"BNSF", "Union Pacific"}},
	"New Orleans, LA":           {Name: "New Orleans, LA", Lat: 29.9511, Lon: -90.0715, Type: HubPort, Railroads: []string{"BNSF", "Union Pacific", "CSX", "Norfolk Southern"}},
	"Mobile, AL":                {Name: "Mobile, AL", Lat: 30.6944, Lon: -88.0431, Type: HubPort},
	"Tampa Bay, FL":             {Name: "Tampa Bay, FL", Lat: 27.9506, Lon: -82.4572, Type: HubPort},
	"Savannah, GA":              {Name: "Savannah, GA", Lat: 32.0835, Lon: -81.0998, Type: HubPort, Railroads: []string{"CSX", "Norfolk Southern"}},
	"Jacksonville, FL":          {Name: "Jacksonville, FL", Lat: 30.3322, Lon: -81.6557, Type: HubPort},
	"Miami, FL":                 {Name: "Miami, FL", Lat: 25.7617, Lon: -80.1918, Type: HubPort},
	"New York/NJ":               {Name: "New York/NJ", Lat: 40.7128, Lon: -74.0060, Type: HubMajor, Railroads: []string{"CSX", "Norfolk Southern", "Conrail"}},
	"Philadelphia, PA":          {Name: "Philadelphia, PA", Lat: 39.9526, Lon: -75.1652, Type: HubPort},
	"Norfolk, VA":               {Name: "Norfolk, VA", Lat: 36.8468, Lon: -76.2852, Type: HubPort, Railroads: []string{"CSX", "Norfolk Southern"}},
	"Boston, MA":                {Name: "Boston, MA", Lat: 42.3601, Lon: -71.0589, Type: HubPort},
	"Long Beach, CA":            {Name: "Long Beach, CA", Lat: 33.7701, Lon: -118.1937, Type: HubTerminal, Railroads: []string{"BNSF", "Union Pacific"}},
	"Los Angeles, CA":           {Name: "Los Angeles, CA", Lat: 34.0522, Lon: -118.2437, Type: HubMajor, Railroads: []string{"BNSF", "Union Pacific"}},
	"Seattle, WA":               {Name: "Seattle, WA", Lat: 47.6062, Lon: -122.3321, Type: HubMajor, Railroads: []string{"BNSF", "Union Pacific"}},
	"Portland, OR":              {Name: "Portland, OR", Lat: 45.5152, Lon: -122.6784, Type: HubPort},
	"San Francisco/Oakland, CA": {Name: "San Francisco/Oakland, CA", Lat: 37.7749, Lon: -122.4194, Type: HubPort},
	"Chicago, IL":               {Name: "Chicago, IL", Lat: 41.8781, Lon: -87.6298, Type: HubMajor, Railroads: []string{"BNSF", "Union Pacific", "CSX", "Norfolk Southern"}},
	"St. Louis, MO":             {Name: "St. Louis, MO", Lat: 38.6270, Lon: -90.1994, Type: HubInland, Railroads: []string{"BNSF", "Union Pacific", "Norfolk Southern"}},
	"Memphis, TN":               {Name: "Memphis, TN", Lat: 35.1495, Lon: -90.0490, Type: HubInland, Railroads: []string{"BNSF", "Union Pacific", "CSX", "Norfolk Southern"}},
	"Duluth-Superior, MN/WI":    {Name: "Duluth-Superior, MN/WI", Lat: 46.7867, Lon: -92.1005, Type: HubInland},
}

// HubByName returns the hub record for an exact hub name.
func HubByName(name string) (Hub, bool) {
	h, ok := hubs[name]
	return h, ok
}

// KnownHub reports whether name is a registered hub.
func KnownHub(name string) bool {
	_, ok := hubs[name]
	return ok
}

// HubNames returns all registered hub names in lexical order.
func HubNames() []string {
	names := make([]string, 0, len(hubs))
	for name := range hubs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hubs returns all hub records in lexical name order.
func Hubs() []Hub {
	names := HubNames()
	out := make([]Hub, 0, len(names))
	for _, name := range names {
		out = append(out, hubs[name])
	}
	return out
}
