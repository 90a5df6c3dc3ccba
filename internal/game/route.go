/*
Package game
File: route.go
Description:
    Route planning over the jump graph. Systems are vertices; an edge
    joins two systems whose fuel cost fits in a full tank, weighted by
    that fuel cost. The cheapest path is the plotted route.
*/

package game

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
)

// RouteHop is one system on a plotted route.
type RouteHop struct {
	SystemID  int     `json:"system_id"`
	Name      string  `json:"name"`
	Distance  float64 `json:"distance"`  // From the previous hop
	FuelCost  int     `json:"fuel_cost"` // From the previous hop
	HasRefuel bool    `json:"has_refuel"`
}

// Route is a fuel-cheapest path between two systems.
type Route struct {
	Hops          []RouteHop `json:"hops"`
	TotalDistance float64    `json:"total_distance"`
	TotalFuel     int        `json:"total_fuel"`
}

// buildJumpGraph links every pair of systems reachable on maxFuel.
func buildJumpGraph(galaxy *Galaxy, maxFuel int, lyScale float64) (graph.Graph[int, int], error) {
	g := graph.New(graph.IntHash, graph.Weighted())
	for _, s := range galaxy.Systems {
		if err := g.AddVertex(s.ID); err != nil {
			return nil, fmt.Errorf("add system %d: %w", s.ID, err)
		}
	}
	for i, a := range galaxy.Systems {
		for _, b := range galaxy.Systems[i+1:] {
			cost := FuelCost(CalculateDistance(a, b, lyScale))
			if cost > maxFuel {
				continue
			}
			if err := g.AddEdge(a.ID, b.ID, graph.EdgeWeight(cost)); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("link %d-%d: %w", a.ID, b.ID, err)
			}
		}
	}
	return g, nil
}

// PlanRoute finds the cheapest route between two systems for a ship that
// holds maxFuel.
func PlanRoute(galaxy *Galaxy, from, to, maxFuel int, lyScale float64) (Route, error) {
	src, dst := galaxy.System(from), galaxy.System(to)
	if src == nil || dst == nil {
		return Route{}, fmt.Errorf("%w: route %d -> %d", ErrNotFound, from, to)
	}
	if from == to {
		return Route{Hops: []RouteHop{{SystemID: src.ID, Name: src.Name, HasRefuel: src.HasRefuel}}}, nil
	}

	g, err := buildJumpGraph(galaxy, maxFuel, lyScale)
	if err != nil {
		return Route{}, err
	}
	path, err := graph.ShortestPath(g, from, to)
	if err != nil {
		if errors.Is(err, graph.ErrTargetNotReachable) {
			return Route{}, fmt.Errorf("%w: %s to %s", ErrNoRoute, src.Name, dst.Name)
		}
		return Route{}, fmt.Errorf("plot route: %w", err)
	}

	route := Route{Hops: make([]RouteHop, 0, len(path))}
	for i, id := range path {
		sys := galaxy.System(id)
		hop := RouteHop{SystemID: sys.ID, Name: sys.Name, HasRefuel: sys.HasRefuel}
		if i > 0 {
			hop.Distance = CalculateDistance(galaxy.System(path[i-1]), sys, lyScale)
			hop.FuelCost = FuelCost(hop.Distance)
			route.TotalDistance += hop.Distance
			route.TotalFuel += hop.FuelCost
		}
		route.Hops = append(route.Hops, hop)
	}
	return route, nil
}

// PlanRoute plots from the current system using the ship's tank size.
func (w *World) PlanRoute(to int) (Route, error) {
	return PlanRoute(w.Galaxy, w.CurrentSystem, to, w.Ship.MaxFuel, w.Universe.BalanceConfig.LightYearScale)
}
