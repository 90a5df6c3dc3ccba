/*
Package game
File: state.go
Description:
    Manages the runtime state of one game session.
    The World owns the galaxy, the player's ship, credits, cargo and
    contracts, the traveling gate and the active encounter. Every player
    action is a method on World; presentation code reads the exported
    fields back after each call.
*/

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// NoSystem marks an unset target.
const NoSystem = -1

const messageLogSize = 100

// TravelState exists only while the ship is between systems. The
// presentation layer interpolates between FromPos and ToPos itself.
type TravelState struct {
	From     int      `json:"from"`
	To       int      `json:"to"`
	FromPos  Position `json:"from_pos"`
	ToPos    Position `json:"to_pos"`
	Angle    float64  `json:"angle"`
	Distance float64  `json:"distance"`
	FuelCost int      `json:"fuel_cost"`
}

// Stats accumulate over a session.
type Stats struct {
	TotalDistance  float64 `json:"total_distance"`
	SystemsVisited int     `json:"systems_visited"`
	EncountersSeen int     `json:"encounters_seen"`
}

// NewGameOptions are supplied by the presentation layer at game start.
type NewGameOptions struct {
	Size  int         `json:"size"`
	Shape GalaxyShape `json:"shape"`
	Seed  uint64      `json:"seed"`
}

// World is the authoritative state of a session.
type World struct {
	Universe  *Universe    `json:"-"`
	Galaxy    *Galaxy      `json:"galaxy"`
	Ship      Ship         `json:"ship"`
	Credits   int          `json:"credits"`
	Cargo     []*CargoItem `json:"cargo"`
	Contracts []*Contract  `json:"contracts"`

	CurrentSystem int          `json:"current_system"`
	TargetSystem  int          `json:"target_system"`
	Travel        *TravelState `json:"travel,omitempty"` // Non-nil while traveling
	Day           int          `json:"day"`
	Wanted        bool         `json:"wanted"`
	Stats         Stats        `json:"stats"`

	Log        *MessageLog       `json:"log"`
	Encounters *EncounterManager `json:"-"`

	rng *rand.Rand
}

// NewGame generates a galaxy and contract batch and returns a fresh World.
func NewGame(u *Universe, opts NewGameOptions) (*World, error) {
	if opts.Shape == "" {
		opts.Shape = ShapeBalanced
	}
	rng := NewRand(opts.Seed)

	galaxy, err := GenerateGalaxy(u, opts.Size, opts.Shape, rng)
	if err != nil {
		return nil, err
	}
	w := NewWorld(u, galaxy, rng)
	w.Contracts = GenerateContracts(u, galaxy, rng)
	return w, nil
}

// NewWorld places a fresh ship at the galaxy's start system.
func NewWorld(u *Universe, galaxy *Galaxy, rng *rand.Rand) *World {
	start := galaxy.System(galaxy.StartID)

	ship := u.PlayerShipConfig
	ship.Position = start.Position

	w := &World{
		Universe:      u,
		Galaxy:        galaxy,
		Ship:          ship,
		Credits:       u.BalanceConfig.StartingCredits,
		Cargo:         []*CargoItem{},
		Contracts:     []*Contract{},
		CurrentSystem: start.ID,
		TargetSystem:  NoSystem,
		Log:           NewMessageLog(messageLogSize),
		Encounters:    &EncounterManager{},
		rng:           rng,
	}
	w.Log.Add(fmt.Sprintf("Systems online. Docked at %s.", start.Name), MsgInfo)
	return w
}

// Current returns the system the ship is docked at (or departed from).
func (w *World) Current() *System {
	return w.Galaxy.System(w.CurrentSystem)
}

// Traveling is the gate the presentation layer checks before enabling controls.
func (w *World) Traveling() bool {
	return w.Travel != nil
}

// GameOver is the only terminal condition.
func (w *World) GameOver() bool {
	return w.Ship.Hull <= 0
}

// SetTarget selects the next destination.
func (w *World) SetTarget(id int) error {
	if w.Travel != nil {
		return ErrTraveling
	}
	if w.Galaxy.System(id) == nil {
		return fmt.Errorf("%w: system %d", ErrNotFound, id)
	}
	w.TargetSystem = id
	return nil
}

// TravelQuote is a pre-flight check that does not move the ship.
type TravelQuote struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Distance  float64 `json:"distance"`
	FuelCost  int     `json:"fuel_cost"`
	Days      int     `json:"days"`
	Angle     float64 `json:"angle"`
	CanAfford bool    `json:"can_afford"`
}

// QuoteTravel prices a jump from the current system to id.
func (w *World) QuoteTravel(id int) (TravelQuote, error) {
	dest := w.Galaxy.System(id)
	if dest == nil {
		return TravelQuote{}, fmt.Errorf("%w: system %d", ErrNotFound, id)
	}
	cur := w.Current()
	dist := CalculateDistance(cur, dest, w.Universe.BalanceConfig.LightYearScale)
	cost := FuelCost(dist)
	return TravelQuote{
		From:      cur.ID,
		To:        dest.ID,
		Distance:  dist,
		FuelCost:  cost,
		Days:      TravelDays(dist),
		Angle:     Heading(cur.Position, dest.Position),
		CanAfford: w.Ship.Fuel >= cost,
	}, nil
}

// TravelReceipt is returned when a jump starts.
type TravelReceipt struct {
	From     int     `json:"from"`
	To       int     `json:"to"`
	Distance float64 `json:"distance"`
	FuelCost int     `json:"fuel_cost"`
	Angle    float64 `json:"angle"`
	Message  string  `json:"message"`
}

// TravelToSystem burns fuel and flips the ship into the traveling state.
// CompleteTravel must be called once the presentation layer's animation ends.
func (w *World) TravelToSystem() (TravelReceipt, error) {
	if w.Travel != nil {
		return TravelReceipt{}, ErrTraveling
	}
	if w.Encounters.Active() != nil {
		return TravelReceipt{}, ErrEncounterActive
	}
	if w.TargetSystem == NoSystem || w.TargetSystem == w.CurrentSystem {
		return TravelReceipt{}, ErrNoTarget
	}

	from := w.Current()
	dest := w.Galaxy.System(w.TargetSystem)
	dist := CalculateDistance(from, dest, w.Universe.BalanceConfig.LightYearScale)
	cost := FuelCost(dist)
	if w.Ship.Fuel < cost {
		return TravelReceipt{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFuel, cost, w.Ship.Fuel)
	}

	angle := Heading(from.Position, dest.Position)
	w.Ship.Fuel -= cost
	w.Ship.Rotation = angle
	w.Travel = &TravelState{
		From:     from.ID,
		To:       dest.ID,
		FromPos:  from.Position,
		ToPos:    dest.Position,
		Angle:    angle,
		Distance: dist,
		FuelCost: cost,
	}

	msg := fmt.Sprintf("Departing %s for %s (%.1f ly, %d fuel).", from.Name, w.destName(dest), dist, cost)
	w.Log.Add(msg, MsgInfo)
	log.Debug("travel started", "from", from.ID, "to", dest.ID, "distance", dist, "fuel_cost", cost)
	return TravelReceipt{From: from.ID, To: dest.ID, Distance: dist, FuelCost: cost, Angle: angle, Message: msg}, nil
}

// ArrivalReport summarizes what happened on arrival.
type ArrivalReport struct {
	SystemID   int        `json:"system_id"`
	SystemName string     `json:"system_name"`
	Days       int        `json:"days"`
	Day        int        `json:"day"`
	FirstVisit bool       `json:"first_visit"`
	Restocked  bool       `json:"restocked"`
	Encounter  *Encounter `json:"encounter,omitempty"`
}

// CompleteTravel commits the jump, advances the calendar, restocks the
// destination market and may start an encounter.
func (w *World) CompleteTravel() (ArrivalReport, error) {
	if w.Travel == nil {
		return ArrivalReport{}, ErrNotTraveling
	}
	trip := w.Travel
	dest := w.Galaxy.System(trip.To)

	// 1. Commit position
	w.CurrentSystem = dest.ID
	w.TargetSystem = NoSystem
	w.Ship.Position = dest.Position
	w.Travel = nil

	// 2. Calendar and stats
	days := TravelDays(trip.Distance)
	w.Day += days
	w.Log.SetDay(w.Day)
	w.Stats.TotalDistance += trip.Distance
	w.Stats.SystemsVisited++

	firstVisit := !dest.Discovered
	dest.Discovered = true

	// 3. Market
	restocked := false
	if dest.HasMarket {
		restocked = RestockSystem(w.Universe.Restock, dest, w.Day)
	}

	if firstVisit {
		w.Log.Add(fmt.Sprintf("Arrived at %s, a %s system. Charted for the first time.", dest.Name, dest.Economy), MsgDiscovery)
	} else {
		w.Log.Add(fmt.Sprintf("Arrived at %s.", dest.Name), MsgInfo)
	}

	report := ArrivalReport{
		SystemID:   dest.ID,
		SystemName: dest.Name,
		Days:       days,
		Day:        w.Day,
		FirstVisit: firstVisit,
		Restocked:  restocked,
	}

	// 4. Encounters
	report.Encounter = w.rollArrivalEncounter(dest)
	return report, nil
}

// destName hides undiscovered names.
func (w *World) destName(s *System) string {
	if s.Discovered {
		return s.Name
	}
	return "an uncharted system"
}

// RefuelReceipt describes a completed refuel.
type RefuelReceipt struct {
	Units     int    `json:"units"`
	UnitPrice int    `json:"unit_price"`
	Cost      int    `json:"cost"`
	Message   string `json:"message"`
}

// RefuelShip fills the tank to capacity.
func (w *World) RefuelShip() (RefuelReceipt, error) {
	if w.Travel != nil {
		return RefuelReceipt{}, ErrTraveling
	}
	if w.Encounters.Active() != nil {
		return RefuelReceipt{}, ErrEncounterActive
	}
	sys := w.Current()
	if !sys.HasRefuel {
		return RefuelReceipt{}, fmt.Errorf("%w at %s", ErrNoRefuel, sys.Name)
	}
	deficit := w.Ship.MaxFuel - w.Ship.Fuel
	if deficit <= 0 {
		return RefuelReceipt{}, ErrFuelFull
	}
	price := RefuelUnitPrice(sys)
	cost := deficit * price
	if w.Credits < cost {
		return RefuelReceipt{}, fmt.Errorf("%w: refueling costs %d CR", ErrInsufficientFunds, cost)
	}

	w.Credits -= cost
	w.Ship.Fuel = w.Ship.MaxFuel

	msg := fmt.Sprintf("Refueled %d units for %d CR.", deficit, cost)
	w.Log.Add(msg, MsgInfo)
	return RefuelReceipt{Units: deficit, UnitPrice: price, Cost: cost, Message: msg}, nil
}

// UpgradeReceipt describes an installed upgrade.
type UpgradeReceipt struct {
	Upgrade Upgrade `json:"upgrade"`
	Ship    Ship    `json:"ship"`
	Message string  `json:"message"`
}

// UpgradeShip buys one of the shipyard's fixed upgrades.
func (w *World) UpgradeShip(id string) (UpgradeReceipt, error) {
	if w.Travel != nil {
		return UpgradeReceipt{}, ErrTraveling
	}
	// Combat runs on a snapshot of the hull; upgrades would be lost on commit.
	if w.Encounters.Active() != nil {
		return UpgradeReceipt{}, ErrEncounterActive
	}
	up, ok := w.Universe.Upgrade(id)
	if !ok {
		return UpgradeReceipt{}, fmt.Errorf("%w: upgrade %q", ErrNotFound, id)
	}
	sys := w.Current()
	if !sys.HasShipyard {
		return UpgradeReceipt{}, fmt.Errorf("%w at %s", ErrNoShipyard, sys.Name)
	}
	if w.Credits < up.Cost {
		return UpgradeReceipt{}, fmt.Errorf("%w: %s costs %d CR", ErrInsufficientFunds, up.Name, up.Cost)
	}

	w.Credits -= up.Cost
	switch up.Effect {
	case UpgradeHull:
		w.Ship.MaxHull += up.Amount
		w.Ship.Hull = w.Ship.MaxHull
	case UpgradeWeapons:
		w.Ship.Damage += up.Amount
	case UpgradeEvasion:
		w.Ship.Evasion += up.Amount
	case UpgradeShields:
		w.Ship.MaxShields += up.Amount
		w.Ship.Shields = w.Ship.MaxShields
	case UpgradeCargo:
		w.Ship.CargoCapacity += up.Amount
	case UpgradeFuel:
		w.Ship.MaxFuel += up.Amount
		w.Ship.Fuel = w.Ship.MaxFuel
	}

	msg := fmt.Sprintf("Installed %s for %d CR.", up.Name, up.Cost)
	w.Log.Add(msg, MsgDiscovery)
	return UpgradeReceipt{Upgrade: up, Ship: w.Ship, Message: msg}, nil
}

// TakeDamage removes hull, clamping at zero, and reports whether the ship
// was destroyed.
func (w *World) TakeDamage(amount int) (hull int, destroyed bool) {
	if amount > 0 {
		w.Ship.Hull = max(0, w.Ship.Hull-amount)
	}
	if w.Ship.Hull <= 0 {
		w.Log.Add("Hull breach. The ship is lost.", MsgCritical)
		return 0, true
	}
	return w.Ship.Hull, false
}

// CargoUsed counts every unit in the hold, contract cargo included.
func (w *World) CargoUsed() int {
	used := 0
	for _, c := range w.Cargo {
		used += c.Quantity
	}
	return used
}

// FreeCargo is the remaining hold space.
func (w *World) FreeCargo() int {
	return max(0, w.Ship.CargoCapacity-w.CargoUsed())
}

// cargoLine finds the line for a good and contract tag ("" for free cargo).
func (w *World) cargoLine(goodID, contractID string) *CargoItem {
	for _, c := range w.Cargo {
		if c.GoodID == goodID && c.ContractID == contractID {
			return c
		}
	}
	return nil
}

// contractCargo finds any contract-tagged line of a good.
func (w *World) contractCargo(goodID string) *CargoItem {
	for _, c := range w.Cargo {
		if c.GoodID == goodID && c.ContractID != "" {
			return c
		}
	}
	return nil
}

func (w *World) removeCargo(line *CargoItem) {
	for i, c := range w.Cargo {
		if c == line {
			w.Cargo = append(w.Cargo[:i], w.Cargo[i+1:]...)
			return
		}
	}
}

// addCargo merges units into a line, creating it if needed.
func (w *World) addCargo(good Good, qty, price int, contractID string) {
	line := w.cargoLine(good.ID, contractID)
	if line == nil {
		line = &CargoItem{GoodID: good.ID, Name: good.Name, Illegal: good.Illegal, ContractID: contractID}
		w.Cargo = append(w.Cargo, line)
	}
	line.Quantity += qty
	line.BuyPrice = price
}
