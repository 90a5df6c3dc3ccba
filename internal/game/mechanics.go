/*
Package game
File: mechanics.go
Description:
    The "physics" of travel: distances, fuel cost, headings and
    refuel pricing.
*/

package game

import "math"

// distance is the euclidean distance in world units.
func distance(a, b Position) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// CalculateDistance converts world-space distance between two systems to light years.
func CalculateDistance(a, b *System, lightYearScale float64) float64 {
	return distance(a.Position, b.Position) / lightYearScale
}

// FuelCost is one unit of fuel per started light year.
func FuelCost(lightYears float64) int {
	return int(math.Ceil(lightYears))
}

// TravelDays is the whole number of days a jump takes.
func TravelDays(lightYears float64) int {
	return int(math.Round(lightYears))
}

// Heading returns the direction from a to b in degrees, as atan2(dy, dx).
func Heading(a, b Position) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// RefuelUnitPrice uses the local market's fuel price when there is one,
// otherwise a tech-banded station rate.
func RefuelUnitPrice(sys *System) int {
	if sys.HasMarket {
		if entry, ok := sys.Market["fuel"]; ok && entry.BuyPrice > 0 {
			return entry.BuyPrice
		}
	}
	switch sys.Tech {
	case LevelHigh:
		return 10
	case LevelLow:
		return 20
	default:
		return 15
	}
}
