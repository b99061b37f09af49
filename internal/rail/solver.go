// Package rail finds freight paths across the static Class I rail
// graph. Resolution prefers curated mileage and falls back to a
// frontier search over the adjacency list.
package rail

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
)

var (
	// ErrHubNotServed indicates the origin or destination has no rail
	// access at all.
	ErrHubNotServed = errors.New("hub not served by rail")

	// ErrNoRailPath indicates both hubs are rail-served but no path
	// connects them.
	ErrNoRailPath = errors.New("no rail path between hubs")
)

const (
	// freightSpeedMPH is the average freight rail speed including
	// scheduled stops.
	freightSpeedMPH = 45.0

	// hoursPerTerminal is the switching time added per terminal on the
	// path, capped at maxTerminalHours.
	hoursPerTerminal = 2.0
	maxTerminalHours = 6.0

	// avgSegmentMiles stands in for edges the segment table does not
	// cover.
	avgSegmentMiles = 400.0
)

// Path is a resolved rail movement between two hubs.
type Path struct {
	Origin        string
	Destination   string
	Hubs          []string
	DistanceMiles float64
	TransitHours  float64
	TerminalHours float64
	DurationHours float64
	Terminals     int
	Method        network.Method
	Railroads     []string
}

// SolverConfig configures a Solver.
type SolverConfig struct {
	Logger zerolog.Logger
}

// Solver resolves rail paths over the static network data.
type Solver struct {
	logger zerolog.Logger
}

// NewSolver creates a rail path solver.
func NewSolver(cfg SolverConfig) *Solver {
	return &Solver{logger: cfg.Logger}
}

// Solve finds a rail path from origin to destination. Curated mileage
// is preferred; the frontier search only runs when no tabulated figure
// exists for the pair.
func (s *Solver) Solve(origin, destination string) (*Path, error) {
	if d, ok := network.MatrixDistance(origin, destination, network.ModeRail); ok {
		return s.buildPath(origin, destination, d, []string{origin, destination}, network.MethodDistanceMatrix), nil
	}

	if d, ok := network.RailSegmentDistance(origin, destination); ok {
		return s.buildPath(origin, destination, d, []string{origin, destination}, network.MethodLocalRailData), nil
	}

	if !network.RailServedHub(origin) || !network.RailServedHub(destination) {
		return nil, fmt.Errorf("%w: %s to %s", ErrHubNotServed, origin, destination)
	}

	if p := s.search(origin, destination); p != nil {
		return p, nil
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrNoRailPath, origin, destination)
}

type frontierEntry struct {
	hub      string
	distance float64
	path     []string
}

// search walks the adjacency list keeping the frontier ordered by
// accumulated distance, so the first arrival at the destination is the
// cheapest known path.
func (s *Solver) search(origin, destination string) *Path {
	visited := make(map[string]bool)
	frontier := []frontierEntry{{hub: origin, distance: 0, path: []string{origin}}}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		if current.hub == destination {
			return s.buildPath(origin, destination, current.distance, current.path, network.MethodNetworkRouting)
		}

		if visited[current.hub] {
			continue
		}
		visited[current.hub] = true

		for _, next := range network.RailNeighbors(current.hub) {
			if visited[next] {
				continue
			}
			segment, ok := network.RailSegmentDistance(current.hub, next)
			if !ok {
				segment = avgSegmentMiles
			}
			path := make([]string, len(current.path), len(current.path)+1)
			copy(path, current.path)
			frontier = append(frontier, frontierEntry{
				hub:      next,
				distance: current.distance + segment,
				path:     append(path, next),
			})
		}

		sort.SliceStable(frontier, func(i, j int) bool { return frontier[i].distance < frontier[j].distance })
	}

	return nil
}

// buildPath assembles the response, swapping in the curated path for
// corridors that have one. The override wins even when the search found
// something shorter; terminal time follows the final hub count.
func (s *Solver) buildPath(origin, destination string, distance float64, hubs []string, method network.Method) *Path {
	if curated := network.CuratedRailPath(origin, destination); curated != nil {
		hubs = curated
		method = network.MethodCuratedPath
	}

	transit := math.Round(distance/freightSpeedMPH*10) / 10
	terminal := math.Min(maxTerminalHours, float64(len(hubs))*hoursPerTerminal)

	p := &Path{
		Origin:        origin,
		Destination:   destination,
		Hubs:          hubs,
		DistanceMiles: distance,
		TransitHours:  transit,
		TerminalHours: terminal,
		DurationHours: transit + terminal,
		Terminals:     len(hubs),
		Method:        method,
		Railroads:     network.RailroadsFor(hubs),
	}

	s.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Float64("distance_miles", distance).
		Float64("duration_hours", p.DurationHours).
		Str("method", string(method)).
		Strs("path", hubs).
		Msg("rail path resolved")

	return p
}
