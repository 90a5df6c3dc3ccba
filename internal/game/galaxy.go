/*
Package game
File: galaxy.go
Description:
    Procedural galaxy generation.
    1. Positions come from Poisson-disk sampling, so no two systems sit
       closer than the size-dependent minimum distance.
    2. Hand-authored custom systems are placed first, at fixed anchors.
    3. Every other system draws an economy archetype, tech and security
       levels and capability flags from the archetype table.
    4. Markets are generated and a start system is chosen.
*/

package game

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// GalaxyShape selects the aspect of the bounding box.
type GalaxyShape string

const (
	ShapeBalanced GalaxyShape = "balanced"
	ShapeWide     GalaxyShape = "wide"
	ShapeTall     GalaxyShape = "tall"
)

// GenerationReport records how placement went.
type GenerationReport struct {
	Requested int `json:"requested"`
	Generated int `json:"generated"`
	Reseeds   int `json:"reseeds"`
}

// Galaxy is the generated set of systems plus the geometry used to build it.
type Galaxy struct {
	Systems     []*System        `json:"systems"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	MinDistance float64          `json:"min_distance"`
	StartID     int              `json:"start_id"`
	Report      GenerationReport `json:"report"`
}

// System returns the system with the given id, or nil.
func (g *Galaxy) System(id int) *System {
	if id < 0 || id >= len(g.Systems) {
		return nil
	}
	return g.Systems[id]
}

// MinDistanceFor shrinks spacing as the galaxy gets denser:
// base * sqrt(referenceSize / size).
func MinDistanceFor(b GameBalance, size int) float64 {
	return b.MinDistanceBase * math.Sqrt(float64(b.ReferenceSize)/float64(size))
}

// GenerateGalaxy builds a galaxy of up to size systems.
// Fewer systems are returned only if placement fails even after reseeding;
// Report says how many were produced.
func GenerateGalaxy(u *Universe, size int, shape GalaxyShape, rng *rand.Rand) (*Galaxy, error) {
	customs := u.CustomSystems
	if size <= len(customs) {
		return nil, fmt.Errorf("%w: size %d must exceed the %d landmark systems", ErrInvalidGalaxy, size, len(customs))
	}
	if u.BalanceConfig.MaxSize > 0 && size > u.BalanceConfig.MaxSize {
		return nil, fmt.Errorf("%w: size %d exceeds the maximum of %d", ErrInvalidGalaxy, size, u.BalanceConfig.MaxSize)
	}

	ext := u.Extent(shape, size)
	minDist := MinDistanceFor(u.BalanceConfig, size)

	// 1. Fixed anchors for the custom systems
	fixed := make([]Position, len(customs))
	for i, c := range customs {
		fixed[i] = Position{X: c.Anchor[0] * ext.Width, Y: c.Anchor[1] * ext.Height}
		for j := 0; j < i; j++ {
			if distance(fixed[i], fixed[j]) < minDist {
				return nil, fmt.Errorf("%w: landmarks %q and %q are closer than %.1f at size %d",
					ErrInvalidGalaxy, customs[i].Name, customs[j].Name, minDist, size)
			}
		}
	}

	// 2. Poisson-disk sampling around them
	sampler := poissonSampler{
		rng:        rng,
		width:      ext.Width,
		height:     ext.Height,
		margin:     u.BalanceConfig.EdgeMargin,
		minDist:    minDist,
		attempts:   u.BalanceConfig.PlacementAttempts,
		maxReseeds: u.BalanceConfig.MaxReseeds,
	}
	positions, reseeds := sampler.sample(fixed, size)
	if len(positions) < size {
		log.Warn("galaxy under-generated", "requested", size, "generated", len(positions), "reseeds", reseeds)
	}

	// 3. Names for the procedural systems
	reserved := make(map[string]bool, len(customs))
	for _, c := range customs {
		reserved[c.Name] = true
	}
	names := GenerateNames(rng, len(positions)-len(customs), reserved)

	galaxy := &Galaxy{
		Systems:     make([]*System, 0, len(positions)),
		Width:       ext.Width,
		Height:      ext.Height,
		MinDistance: minDist,
		Report:      GenerationReport{Requested: size, Generated: len(positions), Reseeds: reseeds},
	}

	for i, pos := range positions {
		var sys *System
		if i < len(customs) {
			sys = buildCustomSystem(u, customs[i], rng)
		} else {
			sys = buildSystem(u, names[i-len(customs)], rng)
		}
		sys.ID = i
		sys.Position = pos
		galaxy.Systems = append(galaxy.Systems, sys)
	}

	// 4. Start system
	galaxy.StartID = pickStartSystem(galaxy.Systems, rng)
	galaxy.Systems[galaxy.StartID].Discovered = true

	log.Info("galaxy generated",
		"size", len(galaxy.Systems), "shape", shape, "min_distance", minDist, "start", galaxy.Systems[galaxy.StartID].Name)
	return galaxy, nil
}

// buildSystem draws archetype, levels and capabilities for a procedural system.
func buildSystem(u *Universe, name string, rng *rand.Rand) *System {
	options := make([]Weighted[EconomyProfile], 0, len(u.Economies))
	for _, e := range u.Economies {
		if e.Key == EconomyCustom {
			continue
		}
		options = append(options, Weighted[EconomyProfile]{Item: e, Weight: e.Weight})
	}
	profile, _ := WeightedPick(rng, options)

	tech, ok := WeightedPick(rng, profile.TechWeights.Options())
	if !ok {
		tech = LevelNone
	}
	security, ok := WeightedPick(rng, profile.SecurityWeights.Options())
	if !ok {
		security = LevelNone
	}

	sys := &System{
		Name:        name,
		Economy:     profile.Key,
		Tech:        tech,
		Security:    security,
		HasShipyard: chance(rng, profile.ShipyardChance),
		HasRefuel:   profile.HasRefuel,
		HasMarket:   profile.HasMarket,
		HasSpecial:  chance(rng, profile.SpecialChance),
		Market:      map[string]*MarketEntry{},
	}
	if sys.HasMarket {
		GenerateMarket(u, sys, rng)
	}
	return sys
}

// buildCustomSystem copies a landmark's fixed data; literal market lines
// replace the price formula.
func buildCustomSystem(u *Universe, c CustomSystem, rng *rand.Rand) *System {
	sys := &System{
		Name:        c.Name,
		Economy:     EconomyCustom,
		Tech:        c.Tech,
		Security:    c.Security,
		HasShipyard: c.HasShipyard,
		HasRefuel:   c.HasRefuel,
		HasMarket:   c.HasMarket,
		HasSpecial:  c.HasSpecial,
		Market:      map[string]*MarketEntry{},
	}
	if !sys.HasMarket {
		return sys
	}
	if len(c.Market) == 0 {
		GenerateMarket(u, sys, rng)
		return sys
	}
	for goodID, o := range c.Market {
		good, _ := u.Good(goodID)
		sys.Market[goodID] = &MarketEntry{
			Name:        good.Name,
			BuyPrice:    o.Buy,
			SellPrice:   o.Sell,
			Quantity:    o.Quantity,
			MaxQuantity: o.maxQuantity(),
			Illegal:     good.Illegal,
		}
	}
	return sys
}

// pickStartSystem chooses uniformly among populated procedural systems,
// falling back to the first system.
func pickStartSystem(systems []*System, rng *rand.Rand) int {
	candidates := make([]int, 0, len(systems))
	for _, s := range systems {
		if s.Economy != EconomyUnpopulated && s.Economy != EconomyCustom {
			candidates = append(candidates, s.ID)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	return candidates[rng.IntN(len(candidates))]
}

// poissonSampler places points no closer than minDist inside a margin-inset box.
type poissonSampler struct {
	rng        *rand.Rand
	width      float64
	height     float64
	margin     float64
	minDist    float64
	attempts   int
	maxReseeds int
}

// sample returns up to target points, starting from fixed (which count
// toward the target), and the number of reseeds used.
func (p poissonSampler) sample(fixed []Position, target int) ([]Position, int) {
	points := make([]Position, 0, target)
	points = append(points, fixed...)
	active := make([]int, 0, target)
	for i := range fixed {
		active = append(active, i)
	}

	// Seed near the center.
	center := Position{
		X: p.width/2 + randFloat(p.rng, -p.minDist/4, p.minDist/4),
		Y: p.height/2 + randFloat(p.rng, -p.minDist/4, p.minDist/4),
	}
	if len(points) < target && p.fits(points, center) {
		points = append(points, center)
		active = append(active, len(points)-1)
	}

	reseeds := 0
	for len(points) < target {
		if len(active) == 0 {
			if reseeds >= p.maxReseeds {
				break
			}
			reseeds++
			if seed, ok := p.randomSeed(points); ok {
				points = append(points, seed)
				active = append(active, len(points)-1)
			}
			continue
		}

		slot := p.rng.IntN(len(active))
		origin := points[active[slot]]
		placed := false
		for i := 0; i < p.attempts; i++ {
			angle := p.rng.Float64() * 2 * math.Pi
			radius := randFloat(p.rng, p.minDist, 2*p.minDist)
			candidate := Position{
				X: origin.X + math.Cos(angle)*radius,
				Y: origin.Y + math.Sin(angle)*radius,
			}
			if p.fits(points, candidate) {
				points = append(points, candidate)
				active = append(active, len(points)-1)
				placed = true
				break
			}
		}
		if !placed {
			active[slot] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points, reseeds
}

// randomSeed looks for any free spot in the box.
func (p poissonSampler) randomSeed(points []Position) (Position, bool) {
	for i := 0; i < p.attempts; i++ {
		candidate := Position{
			X: randFloat(p.rng, p.margin, p.width-p.margin),
			Y: randFloat(p.rng, p.margin, p.height-p.margin),
		}
		if p.fits(points, candidate) {
			return candidate, true
		}
	}
	return Position{}, false
}

func (p poissonSampler) fits(points []Position, c Position) bool {
	if c.X < p.margin || c.X > p.width-p.margin || c.Y < p.margin || c.Y > p.height-p.margin {
		return false
	}
	for _, pt := range points {
		if distance(pt, c) < p.minDist {
			return false
		}
	}
	return true
}
