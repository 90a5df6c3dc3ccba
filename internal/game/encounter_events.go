/*
Package game
File: encounter_events.go
Description:
    Non-combat encounters: traders, debris fields, distress calls and
    anomalies. Random outcomes are rolled when the encounter is created so
    the choice the player makes is the only remaining input.
*/

package game

import (
	"fmt"
	"math"
)

// TraderOffer is a single discounted lot.
type TraderOffer struct {
	GoodID   string  `json:"good_id"`
	GoodName string  `json:"good_name"`
	Illegal  bool    `json:"illegal"`
	Price    int     `json:"price"` // Per unit
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount"` // Fraction of base price charged
}

// Total is the price of the whole lot.
func (o *TraderOffer) Total() int {
	return o.Price * o.Quantity
}

func (w *World) newTraderEncounter() *Encounter {
	good := w.Universe.Goods[w.rng.IntN(len(w.Universe.Goods))]
	discount := randFloat(w.rng, 0.7, 0.9)
	price := max(1, int(math.Round(float64(good.BasePrice)*discount)))
	qty := min(randInt(w.rng, 1, 5), w.Credits/price)

	offer := &TraderOffer{
		GoodID:   good.ID,
		GoodName: good.Name,
		Illegal:  good.Illegal,
		Price:    price,
		Quantity: qty,
		Discount: discount,
	}
	desc := fmt.Sprintf("A merchant offers %d %s at %d CR each.", qty, good.Name, price)
	if qty <= 0 {
		desc = fmt.Sprintf("A merchant hauling %s hails you, but you cannot afford a single unit at %d CR.", good.Name, price)
	}
	enc := newEncounter(EncounterTrader, "Merchant Vessel", desc)
	enc.Offer = offer
	return enc
}

func (w *World) resolveTrader(enc *Encounter, action Action, n *narration) error {
	offer := enc.Offer

	switch action {
	case ActionBuy:
		if offer.Quantity <= 0 || w.Credits < offer.Total() {
			return fmt.Errorf("%w: the lot costs %d CR", ErrInsufficientFunds, offer.Total())
		}
		if w.FreeCargo() < offer.Quantity {
			return fmt.Errorf("%w: need %d free units", ErrCargoFull, offer.Quantity)
		}
		good, ok := w.Universe.Good(offer.GoodID)
		if !ok {
			return fmt.Errorf("%w: good %q", ErrNotFound, offer.GoodID)
		}
		w.Credits -= offer.Total()
		w.addCargo(good, offer.Quantity, offer.Price, "")
		n.say(MsgInfo, "You buy %d %s for %d CR.", offer.Quantity, offer.GoodName, offer.Total())
		w.endEncounter(enc, ResultPurchased)

	case ActionLeave:
		n.say(MsgInfo, "You wish the merchant well and move on.")
		w.endEncounter(enc, ResultLeft)
	}
	return nil
}

// DebrisState holds the pre-rolled hazard damage.
type DebrisState struct {
	DamagePercent int `json:"damage_percent"`
	Damage        int `json:"damage"`
}

func (w *World) newDebrisEncounter() *Encounter {
	pct := randInt(w.rng, 5, 15)
	dmg := max(1, int(math.Round(float64(w.Ship.MaxHull)*float64(pct)/100)))
	enc := newEncounter(EncounterDebris, "Debris Field",
		"A field of wreckage drifts across your approach vector.")
	enc.Debris = &DebrisState{DamagePercent: pct, Damage: dmg}
	return enc
}

func (w *World) resolveDebris(enc *Encounter, action Action, n *narration) {
	d := enc.Debris
	taken := 0

	switch action {
	case ActionNavigate:
		taken = d.Damage
	case ActionAvoid:
		if !chance(w.rng, 0.7) {
			taken = max(1, d.Damage/2)
		}
	}

	if taken == 0 {
		n.say(MsgInfo, "You thread the debris without a scratch.")
	} else {
		hull, _ := w.TakeDamage(taken)
		n.say(MsgWarning, "Debris strikes the hull for %d damage (hull %d).", taken, hull)
	}
	w.endEncounter(enc, ResultResolved)
}

// DistressState holds the pre-rolled reward.
type DistressState struct {
	Reward int `json:"reward"`
}

func (w *World) newDistressEncounter() *Encounter {
	enc := newEncounter(EncounterDistress, "Distress Signal",
		"A stricken freighter is broadcasting a distress call.")
	enc.Distress = &DistressState{Reward: randInt(w.rng, 500, 2000)}
	return enc
}

func (w *World) resolveDistress(enc *Encounter, action Action, n *narration) {
	switch action {
	case ActionAssist:
		w.Credits += enc.Distress.Reward
		n.say(MsgDiscovery, "The crew is saved. They transfer %d CR in gratitude.", enc.Distress.Reward)
		w.endEncounter(enc, ResultResolved)
	case ActionIgnore:
		n.say(MsgInfo, "You leave the signal behind.")
		w.endEncounter(enc, ResultIgnored)
	}
}

// AnomalyOutcome is the pre-rolled effect of investigating.
type AnomalyOutcome string

const (
	AnomalyFuelGain AnomalyOutcome = "fuel_gain"
	AnomalyFuelLoss AnomalyOutcome = "fuel_loss"
	AnomalyMixed    AnomalyOutcome = "mixed"
)

// AnomalyState holds the investigate outcome and the bypass penalty.
type AnomalyState struct {
	Outcome    AnomalyOutcome `json:"outcome"`
	Fuel       int            `json:"fuel"`        // Gained or lost, by Outcome
	Credits    int            `json:"credits"`     // Mixed only
	HullDamage int            `json:"hull_damage"` // Mixed only
}

func (w *World) newAnomalyEncounter() *Encounter {
	state := &AnomalyState{}
	switch r := w.rng.Float64(); {
	case r < 0.3:
		state.Outcome = AnomalyFuelGain
		state.Fuel = randInt(w.rng, 10, 25)
	case r < 0.7:
		state.Outcome = AnomalyFuelLoss
		state.Fuel = randInt(w.rng, 10, 30)
	default:
		state.Outcome = AnomalyMixed
		state.Credits = randInt(w.rng, 300, 1000)
		state.HullDamage = randInt(w.rng, 5, 15)
	}
	enc := newEncounter(EncounterAnomaly, "Spatial Anomaly",
		"Sensors register a shimmering distortion ahead.")
	enc.Anomaly = state
	return enc
}

func (w *World) resolveAnomaly(enc *Encounter, action Action, n *narration) {
	a := enc.Anomaly

	switch action {
	case ActionInvestigate:
		switch a.Outcome {
		case AnomalyFuelGain:
			gained := min(a.Fuel, w.Ship.MaxFuel-w.Ship.Fuel)
			w.Ship.Fuel += gained
			n.say(MsgDiscovery, "The anomaly charges your fuel cells: +%d fuel.", gained)
		case AnomalyFuelLoss:
			lost := min(a.Fuel, w.Ship.Fuel)
			w.Ship.Fuel -= lost
			n.say(MsgWarning, "The anomaly drains your tanks: -%d fuel.", lost)
		case AnomalyMixed:
			w.Credits += a.Credits
			hull, _ := w.TakeDamage(a.HullDamage)
			n.say(MsgWarning, "You salvage %d CR of exotic matter but take %d hull damage (hull %d).", a.Credits, a.HullDamage, hull)
		}

	case ActionBypass:
		if !chance(w.rng, 0.3) {
			n.say(MsgInfo, "You steer well clear of the anomaly.")
			break
		}
		if w.rng.IntN(2) == 0 {
			lost := min(randInt(w.rng, 5, 15), w.Ship.Fuel)
			w.Ship.Fuel -= lost
			n.say(MsgWarning, "A gravity eddy tugs at the ship: -%d fuel.", lost)
		} else {
			dmg := randInt(w.rng, 3, 8)
			hull, _ := w.TakeDamage(dmg)
			n.say(MsgWarning, "A discharge arcs across the hull for %d damage (hull %d).", dmg, hull)
		}
	}
	w.endEncounter(enc, ResultResolved)
}
