/*
Package game
File: models.go
Description:
    Defines the data structures of the Frontier simulation.
    Static catalog entries map directly onto 'universe.yaml'; runtime
    entities (systems, markets, ship, cargo, contracts) are serialized
    to JSON for the presentation bridge.

    No logic is performed here beyond small accessors and level parsing.
*/

package game

import (
	"fmt"
	"strings"
)

// Economy is the closed enumeration of system archetypes.
type Economy string

const (
	EconomyAgricultural Economy = "agricultural"
	EconomyIndustrial   Economy = "industrial"
	EconomyTech         Economy = "tech"
	EconomyMining       Economy = "mining"
	EconomyTrade        Economy = "trade"
	EconomyMilitary     Economy = "military"
	EconomyUnpopulated  Economy = "unpopulated"
	EconomyCustom       Economy = "custom"
)

// Level is an ordered none < low < medium < high rating, shared by tech and security.
type Level uint8

const (
	LevelNone Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

// TechLevel and SecurityLevel are distinct names for the same ordered scale.
type (
	TechLevel     = Level
	SecurityLevel = Level
)

var levelNames = [...]string{"none", "low", "medium", "high"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", l)
}

// ParseLevel converts "none"/"low"/"medium"/"high" into a Level.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LevelWeights is a weighted distribution over the four levels.
type LevelWeights struct {
	None   int `yaml:"none" json:"none"`
	Low    int `yaml:"low" json:"low"`
	Medium int `yaml:"medium" json:"medium"`
	High   int `yaml:"high" json:"high"`
}

// Options flattens the distribution for WeightedPick.
func (w LevelWeights) Options() []Weighted[Level] {
	return []Weighted[Level]{
		{Item: LevelNone, Weight: w.None},
		{Item: LevelLow, Weight: w.Low},
		{Item: LevelMedium, Weight: w.Medium},
		{Item: LevelHigh, Weight: w.High},
	}
}

// Good is an immutable catalog entry for a tradeable commodity.
type Good struct {
	ID         string    `yaml:"id" json:"id"`
	Name       string    `yaml:"name" json:"name"`
	BasePrice  int       `yaml:"base_price" json:"base_price"`
	Volatility float64   `yaml:"volatility" json:"volatility"`
	Producers  []Economy `yaml:"producers" json:"producers"` // Archetypes that produce this good locally
	Illegal    bool      `yaml:"illegal" json:"illegal"`
}

// ProducedBy reports whether the archetype produces this good.
func (g Good) ProducedBy(e Economy) bool {
	for _, p := range g.Producers {
		if p == e {
			return true
		}
	}
	return false
}

// PriceModifier is an explicit per-good override on an economy profile.
type PriceModifier struct {
	BaseModifier       float64 `yaml:"base_modifier" json:"base_modifier"`
	QuantityMultiplier float64 `yaml:"quantity_multiplier" json:"quantity_multiplier"`
}

// EconomyProfile is one row of the economic archetype table.
type EconomyProfile struct {
	Key             Economy                  `yaml:"key" json:"key"`
	Name            string                   `yaml:"name" json:"name"`
	Weight          int                      `yaml:"weight" json:"weight"` // Generation weight; 0 is never drawn
	TechWeights     LevelWeights             `yaml:"tech_weights" json:"tech_weights"`
	SecurityWeights LevelWeights             `yaml:"security_weights" json:"security_weights"`
	ShipyardChance  float64                  `yaml:"shipyard_chance" json:"shipyard_chance"`
	HasRefuel       bool                     `yaml:"has_refuel" json:"has_refuel"`
	HasMarket       bool                     `yaml:"has_market" json:"has_market"`
	SpecialChance   float64                  `yaml:"special_chance" json:"special_chance"`
	Modifiers       map[string]PriceModifier `yaml:"modifiers" json:"modifiers,omitempty"`
}

// Position is a point in world-space units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarketEntry is the state of one good in one system's market.
// Invariants: 0 <= Quantity <= MaxQuantity and SellPrice <= BuyPrice.
type MarketEntry struct {
	Name        string `json:"name"`
	BuyPrice    int    `json:"buy_price"`
	SellPrice   int    `json:"sell_price"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	Illegal     bool   `json:"illegal"`
}

// System is a star system (node) in the generated galaxy.
type System struct {
	ID          int                     `json:"id"`
	Name        string                  `json:"name"`
	Position    Position                `json:"position"`
	Economy     Economy                 `json:"economy"`
	Tech        TechLevel               `json:"tech"`
	Security    SecurityLevel           `json:"security"`
	HasShipyard bool                    `json:"has_shipyard"`
	HasRefuel   bool                    `json:"has_refuel"`
	HasMarket   bool                    `json:"has_market"`
	HasSpecial  bool                    `json:"has_special"`
	Discovered  bool                    `json:"discovered"`
	Market      map[string]*MarketEntry `json:"market"`
	LastRestock int                     `json:"last_restock"` // Simulation day of the last full restock
}

// DaysSinceRestock is derived from the current simulation day.
func (s *System) DaysSinceRestock(day int) int {
	return day - s.LastRestock
}

// Ship holds the player's vessel stats. Only the World and committing
// encounters mutate it.
type Ship struct {
	Position      Position `yaml:"-" json:"position"`
	Rotation      float64  `yaml:"-" json:"rotation"` // Degrees, from the last travel direction
	Hull          int      `yaml:"hull" json:"hull"`
	MaxHull       int      `yaml:"max_hull" json:"max_hull"`
	Damage        int      `yaml:"damage" json:"damage"`
	Evasion       int      `yaml:"evasion" json:"evasion"` // Percent chance to evade
	Shields       int      `yaml:"shields" json:"shields"`
	MaxShields    int      `yaml:"max_shields" json:"max_shields"`
	CargoCapacity int      `yaml:"cargo_capacity" json:"cargo_capacity"`
	Fuel          int      `yaml:"fuel" json:"fuel"`
	MaxFuel       int      `yaml:"max_fuel" json:"max_fuel"`
}

// CargoItem is one line in the hold. Lines tagged with a ContractID belong
// to a delivery and cannot be sold.
type CargoItem struct {
	GoodID     string `json:"good_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	BuyPrice   int    `json:"buy_price"`
	Illegal    bool   `json:"illegal"`
	ContractID string `json:"contract_id,omitempty"`
}

// ContractType distinguishes hunt and delivery contracts.
type ContractType string

const (
	ContractHunt     ContractType = "hunt"
	ContractDelivery ContractType = "delivery"
)

// Contract is a procedurally generated job. Completed is one-way.
type Contract struct {
	ID        string       `json:"id"`
	Type      ContractType `json:"type"`
	Reward    int          `json:"reward"`
	Completed bool         `json:"completed"`

	// Hunt
	TargetSystem int `json:"target_system"`
	Tier         int `json:"tier,omitempty"`

	// Delivery (TargetSystem is the destination)
	OriginSystem int    `json:"origin_system,omitempty"`
	GoodID       string `json:"good_id,omitempty"`
	GoodName     string `json:"good_name,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
}

// UpgradeEffect names the ship stat an upgrade modifies.
type UpgradeEffect string

const (
	UpgradeHull    UpgradeEffect = "hull"
	UpgradeWeapons UpgradeEffect = "weapons"
	UpgradeEvasion UpgradeEffect = "evasion"
	UpgradeShields UpgradeEffect = "shields"
	UpgradeCargo   UpgradeEffect = "cargo"
	UpgradeFuel    UpgradeEffect = "fuel"
)

// Upgrade is a purchasable shipyard improvement.
type Upgrade struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Cost        int           `yaml:"cost" json:"cost"`
	Effect      UpgradeEffect `yaml:"effect" json:"effect"`
	Amount      int           `yaml:"amount" json:"amount"`
}
