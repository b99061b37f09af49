package planner

import (
	"math"

	"github.com/fuelroute/fuelroute/internal/network"
)

// Feasibility scores how suitable a mode is for a fuel over a distance.
// Scores start from a mode base and are penalized for fuels that are hard to
// handle on that mode and for long truck hauls.
func Feasibility(mode network.Mode, fuelType string, distanceMiles float64) float64 {
	var score float64
	switch mode {
	case network.ModeTruck:
		score = 0.8
	case network.ModeRail:
		score = 0.9
	default:
		score = 0.5
	}

	switch fuelType {
	case "hydrogen":
		if mode == network.ModeTruck {
			score *= 0.7
		}
	case "ammonia":
		if mode == network.ModeTruck {
			score *= 0.8
		}
		if mode == network.ModeRail {
			score *= 0.9
		}
	}

	if mode == network.ModeTruck && distanceMiles > 1000 {
		score *= 0.7
	}

	return math.Round(score*100) / 100
}

func riskLevel(score float64) RiskLevel {
	switch {
	case score > 0.8:
		return RiskLow
	case score > 0.6:
		return RiskMedium
	default:
		return RiskHigh
	}
}
