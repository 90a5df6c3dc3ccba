/*
Package game
File: config.go
Description:
    Loads and validates the static universe configuration.
    The default 'universe.yaml' is embedded in the binary; a replacement
    file can be supplied at startup. Everything the generators need
    (catalog, archetype table, custom systems, balance constants) comes
    from here.
*/

package game

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed universe.yaml
var defaultUniverseYAML []byte

// GameBalance stores global tuning variables.
type GameBalance struct {
	StartingCredits   int     `yaml:"starting_credits" json:"starting_credits"`
	LightYearScale    float64 `yaml:"light_year_scale" json:"light_year_scale"`       // World units per light year
	ReferenceSize     int     `yaml:"reference_size" json:"reference_size"`           // Size the min-distance base is tuned for
	MinDistanceBase   float64 `yaml:"min_distance_base" json:"min_distance_base"`     // Spacing at the reference size
	PlacementAttempts int     `yaml:"placement_attempts" json:"placement_attempts"`   // Poisson-disk candidates per active point
	EdgeMargin        float64 `yaml:"edge_margin" json:"edge_margin"`                 // Inset from the bounding box
	MaxReseeds        int     `yaml:"max_reseeds" json:"max_reseeds"`                 // Extra seed points once the active set empties
	EncounterChance   float64 `yaml:"encounter_chance" json:"encounter_chance"`       // Probability of an encounter on arrival
	MaxSize           int     `yaml:"max_size" json:"max_size"`
}

// RestockConfig defines the partial and full restock windows.
// Days elapsed in [PartialAfterDays, FullAfterDays) restock toward
// PartialRatio of max; anything from FullAfterDays up restocks toward max.
type RestockConfig struct {
	PartialAfterDays int     `yaml:"partial_after_days" json:"partial_after_days"`
	FullAfterDays    int     `yaml:"full_after_days" json:"full_after_days"`
	PartialRatio     float64 `yaml:"partial_ratio" json:"partial_ratio"`
	PartialStep      int     `yaml:"partial_step" json:"partial_step"`
	FullStep         int     `yaml:"full_step" json:"full_step"`
}

// Extent is the bounding box of a galaxy shape.
type Extent struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// MarketOverride is a literal market line for a custom system.
type MarketOverride struct {
	Buy         int `yaml:"buy"`
	Sell        int `yaml:"sell"`
	Quantity    int `yaml:"quantity"`
	MaxQuantity int `yaml:"max_quantity"`
}

// CustomSystem is a hand-authored landmark placed before procedural systems.
// Anchor is a fraction of the galaxy's width and height.
type CustomSystem struct {
	Name        string                    `yaml:"name"`
	Anchor      [2]float64                `yaml:"anchor"`
	Tech        TechLevel                 `yaml:"tech"`
	Security    SecurityLevel             `yaml:"security"`
	HasShipyard bool                      `yaml:"has_shipyard"`
	HasRefuel   bool                      `yaml:"has_refuel"`
	HasMarket   bool                      `yaml:"has_market"`
	HasSpecial  bool                      `yaml:"has_special"`
	Market      map[string]MarketOverride `yaml:"market"`
}

// KindWeights is one row of the encounter weight table.
type KindWeights struct {
	Pirate   int `yaml:"pirate" json:"pirate"`
	Police   int `yaml:"police" json:"police"`
	Trader   int `yaml:"trader" json:"trader"`
	Debris   int `yaml:"debris" json:"debris"`
	Distress int `yaml:"distress" json:"distress"`
	Anomaly  int `yaml:"anomaly" json:"anomaly"`
}

// EncounterWeights maps a system's security level to encounter weights.
type EncounterWeights struct {
	None   KindWeights `yaml:"none" json:"none"`
	Low    KindWeights `yaml:"low" json:"low"`
	Medium KindWeights `yaml:"medium" json:"medium"`
	High   KindWeights `yaml:"high" json:"high"`
}

// ForSecurity returns the weight row for a security level.
func (e EncounterWeights) ForSecurity(sec SecurityLevel) KindWeights {
	switch sec {
	case LevelLow:
		return e.Low
	case LevelMedium:
		return e.Medium
	case LevelHigh:
		return e.High
	default:
		return e.None
	}
}

// PirateConfig controls pirate generation.
type PirateConfig struct {
	Names   []string `yaml:"names"`
	MinTier int      `yaml:"min_tier"`
	MaxTier int      `yaml:"max_tier"`
}

// PoliceConfig is the fixed statline used when an inspection turns violent.
type PoliceConfig struct {
	Name     string `yaml:"name"`
	Tier     int    `yaml:"tier"`
	Hull     int    `yaml:"hull"`
	Damage   int    `yaml:"damage"`
	Accuracy int    `yaml:"accuracy"`
}

// Universe is the root configuration struct, mapping to the entire 'universe.yaml' file.
type Universe struct {
	BalanceConfig    GameBalance       `yaml:"game_balance"`
	Restock          RestockConfig     `yaml:"restock"`
	Shapes           map[string]Extent `yaml:"galaxy_shapes"`
	PlayerShipConfig Ship              `yaml:"player_ship"`
	Goods            []Good            `yaml:"goods"`
	Economies        []EconomyProfile  `yaml:"economies"`
	CustomSystems    []CustomSystem    `yaml:"custom_systems"`
	Upgrades         []Upgrade         `yaml:"upgrades"`
	EncounterWeights EncounterWeights  `yaml:"encounter_weights"`
	Pirates          PirateConfig      `yaml:"pirates"`
	Police           PoliceConfig      `yaml:"police"`
}

// DefaultUniverse parses the embedded configuration.
func DefaultUniverse() (*Universe, error) {
	return ParseUniverse(defaultUniverseYAML)
}

// LoadUniverse reads and validates a universe file from disk.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	return ParseUniverse(data)
}

// ParseUniverse unmarshals and validates universe YAML.
func ParseUniverse(data []byte) (*Universe, error) {
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Validate checks cross references and value ranges.
func (u *Universe) Validate() error {
	var errs []error

	if len(u.Goods) == 0 {
		errs = append(errs, errors.New("catalog has no goods"))
	}
	if u.BalanceConfig.LightYearScale <= 0 {
		errs = append(errs, errors.New("light_year_scale must be positive"))
	}
	if u.BalanceConfig.MinDistanceBase <= 0 || u.BalanceConfig.ReferenceSize <= 0 {
		errs = append(errs, errors.New("min_distance_base and reference_size must be positive"))
	}
	if u.BalanceConfig.PlacementAttempts <= 0 {
		errs = append(errs, errors.New("placement_attempts must be positive"))
	}
	if u.Restock.PartialAfterDays > u.Restock.FullAfterDays {
		errs = append(errs, errors.New("restock partial window must start before the full window"))
	}

	goods := make(map[string]bool, len(u.Goods))
	for _, g := range u.Goods {
		if g.ID == "" {
			errs = append(errs, errors.New("good with empty id"))
			continue
		}
		if goods[g.ID] {
			errs = append(errs, fmt.Errorf("duplicate good %q", g.ID))
		}
		goods[g.ID] = true
		if g.BasePrice <= 0 {
			errs = append(errs, fmt.Errorf("good %q: base_price must be positive", g.ID))
		}
	}

	drawable := 0
	for _, e := range u.Economies {
		if e.Weight < 0 {
			errs = append(errs, fmt.Errorf("economy %q: negative weight", e.Key))
		}
		if e.Key != EconomyCustom && e.Weight > 0 {
			drawable++
		}
		for goodID := range e.Modifiers {
			if !goods[goodID] {
				errs = append(errs, fmt.Errorf("economy %q: modifier for unknown good %q", e.Key, goodID))
			}
		}
	}
	if drawable == 0 {
		errs = append(errs, errors.New("no economy archetype can be drawn"))
	}

	names := make(map[string]bool)
	for i, c := range u.CustomSystems {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("custom system %d has no name", i))
		}
		if names[c.Name] {
			errs = append(errs, fmt.Errorf("duplicate custom system %q", c.Name))
		}
		names[c.Name] = true
		for goodID, o := range c.Market {
			if !goods[goodID] {
				errs = append(errs, fmt.Errorf("custom system %q: unknown good %q", c.Name, goodID))
			}
			if o.Sell > o.Buy {
				errs = append(errs, fmt.Errorf("custom system %q: %s sells above its buy price", c.Name, goodID))
			}
			if o.Quantity < 0 || o.Quantity > o.maxQuantity() {
				errs = append(errs, fmt.Errorf("custom system %q: %s quantity out of range", c.Name, goodID))
			}
		}
	}

	seen := make(map[string]bool)
	for _, up := range u.Upgrades {
		if seen[up.ID] {
			errs = append(errs, fmt.Errorf("duplicate upgrade %q", up.ID))
		}
		seen[up.ID] = true
		switch up.Effect {
		case UpgradeHull, UpgradeWeapons, UpgradeEvasion, UpgradeShields, UpgradeCargo, UpgradeFuel:
		default:
			errs = append(errs, fmt.Errorf("upgrade %q: unknown effect %q", up.ID, up.Effect))
		}
	}

	return errors.Join(errs...)
}

// maxQuantity defaults the ceiling to the starting stock when unset.
func (o MarketOverride) maxQuantity() int {
	if o.MaxQuantity > 0 {
		return o.MaxQuantity
	}
	return o.Quantity
}

// Good looks up a catalog entry by id.
func (u *Universe) Good(id string) (Good, bool) {
	for _, g := range u.Goods {
		if g.ID == id {
			return g, true
		}
	}
	return Good{}, false
}

// Economy looks up an archetype profile.
func (u *Universe) Economy(key Economy) (EconomyProfile, bool) {
	for _, e := range u.Economies {
		if e.Key == key {
			return e, true
		}
	}
	return EconomyProfile{}, false
}

// Upgrade looks up a shipyard upgrade by id.
func (u *Universe) Upgrade(id string) (Upgrade, bool) {
	for _, up := range u.Upgrades {
		if up.ID == id {
			return up, true
		}
	}
	return Upgrade{}, false
}

// Extent returns the bounding box for a shape at a galaxy size. The shape's
// base box is tuned for reference_size systems. Larger galaxies grow it by
// sqrt(size/reference_size) so area tracks system count; smaller ones keep
// the base box so the landmarks stay minDistance apart.
func (u *Universe) Extent(shape GalaxyShape, size int) Extent {
	base := u.baseExtent(shape)
	ref := u.BalanceConfig.ReferenceSize
	if ref <= 0 || size <= ref {
		return base
	}
	scale := math.Sqrt(float64(size) / float64(ref))
	return Extent{Width: base.Width * scale, Height: base.Height * scale}
}

// baseExtent looks up a shape's box, falling back to balanced.
func (u *Universe) baseExtent(shape GalaxyShape) Extent {
	if e, ok := u.Shapes[string(shape)]; ok && e.Width > 0 && e.Height > 0 {
		return e
	}
	if e, ok := u.Shapes[string(ShapeBalanced)]; ok && e.Width > 0 && e.Height > 0 {
		return e
	}
	return Extent{Width: 420, Height: 420}
}
