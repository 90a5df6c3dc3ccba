/*
Package game
File: encounter_police.go
Description:
    Police inspections. The hold is scanned when the encounter is
    created; contraband draws a fine. Complying pays it and strips the
    contraband, attacking escalates into a police combat encounter that
    references the inspection it replaced.
*/

package game

import (
	"fmt"
	"math"
)

// InspectionState is the outcome of the cargo scan.
type InspectionState struct {
	IllegalGoods []string `json:"illegal_goods"`
	IllegalValue int      `json:"illegal_value"`
	Fine         int      `json:"fine"`
}

// Clean reports an inspection that found nothing.
func (s *InspectionState) Clean() bool {
	return len(s.IllegalGoods) == 0
}

// PoliceFine is min(credits * rate, 5000 + contraband value), rate in [0.25, 0.5).
func PoliceFine(credits, illegalValue int, rate float64) int {
	fine := int(math.Floor(float64(credits) * rate))
	return min(fine, 5000+illegalValue)
}

func (w *World) newPoliceEncounter() *Encounter {
	state := &InspectionState{IllegalGoods: []string{}}
	for _, line := range w.Cargo {
		if !line.Illegal {
			continue
		}
		state.IllegalGoods = append(state.IllegalGoods, line.GoodID)
		state.IllegalValue += w.cargoValue(line)
	}

	desc := "A patrol cutter hails you for a routine cargo scan."
	if !state.Clean() {
		state.Fine = PoliceFine(w.Credits, state.IllegalValue, randFloat(w.rng, 0.25, 0.5))
		desc = fmt.Sprintf("A patrol cutter scans your hold and flags contraband. Fine: %d CR.", state.Fine)
	}

	enc := newEncounter(EncounterPolice, "Police Inspection", desc)
	enc.Inspection = state
	return enc
}

// cargoValue prices a cargo line at the local sell price, falling back to
// what was paid and then to the catalog price.
func (w *World) cargoValue(line *CargoItem) int {
	if sys := w.Current(); sys.HasMarket {
		if entry, ok := sys.Market[line.GoodID]; ok {
			return entry.SellPrice * line.Quantity
		}
	}
	if line.BuyPrice > 0 {
		return line.BuyPrice * line.Quantity
	}
	if good, ok := w.Universe.Good(line.GoodID); ok {
		return good.BasePrice * line.Quantity
	}
	return 0
}

func (w *World) resolveInspection(enc *Encounter, action Action, n *narration) error {
	insp := enc.Inspection

	switch action {
	case ActionComply:
		if insp.Clean() {
			n.say(MsgInfo, "Scan clean. The patrol waves you through.")
			w.endEncounter(enc, ResultCleared)
			return nil
		}
		if w.Credits < insp.Fine {
			return fmt.Errorf("%w: the fine is %d CR", ErrInsufficientFunds, insp.Fine)
		}
		w.Credits -= insp.Fine
		kept := w.Cargo[:0]
		for _, line := range w.Cargo {
			if !line.Illegal {
				kept = append(kept, line)
			}
		}
		w.Cargo = kept
		n.say(MsgWarning, "You pay %d CR. Contraband confiscated.", insp.Fine)
		w.endEncounter(enc, ResultComplied)

	case ActionAttack:
		p := w.Universe.Police
		combat := newEncounter(EncounterPoliceCombat, "Police Engagement",
			fmt.Sprintf("You open fire on the %s. It powers up its batteries.", p.Name))
		combat.Combat = w.newCombatState(Opponent{
			Name:     p.Name,
			Tier:     p.Tier,
			Hull:     p.Hull,
			MaxHull:  p.Hull,
			Damage:   p.Damage,
			Accuracy: p.Accuracy,
		})
		combat.Combat.Police = true
		combat.Supersedes = enc
		combat.SupersedesID = enc.ID

		n.say(MsgCritical, "You resist inspection. The patrol engages.")
		w.endEncounter(enc, ResultEscalated)
		w.startEncounter(combat)
	}
	return nil
}
