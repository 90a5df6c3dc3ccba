/*
Package game
File: encounter_combat.go
Description:
    Turn-based combat against pirates and, after an escalated inspection,
    the police. Combat works on a snapshot of the ship's hull and shields;
    the snapshot is committed back to the ship when the encounter ends.
*/

package game

import "fmt"

// Opponent is the enemy statline.
type Opponent struct {
	Name     string `json:"name"`
	Tier     int    `json:"tier"`
	Hull     int    `json:"hull"`
	MaxHull  int    `json:"max_hull"`
	Damage   int    `json:"damage"`
	Accuracy int    `json:"accuracy"` // Percent chance to hit
}

// CombatState is the working copy of both sides for one fight.
type CombatState struct {
	Opponent Opponent `json:"opponent"`

	PlayerHull    int `json:"player_hull"`
	PlayerMaxHull int `json:"player_max_hull"`
	PlayerShields int `json:"player_shields"`
	PlayerDamage  int `json:"player_damage"`
	PlayerEvasion int `json:"player_evasion"`

	Round      int    `json:"round"`
	Police     bool   `json:"police"`
	ContractID string `json:"contract_id,omitempty"` // Hunt contract paid on victory
}

// PirateStats scales a pirate with its tier.
func PirateStats(name string, tier int) Opponent {
	hull := 20 + tier*10
	return Opponent{
		Name:     name,
		Tier:     tier,
		Hull:     hull,
		MaxHull:  hull,
		Damage:   4 + tier*2,
		Accuracy: min(90, 40+tier*4),
	}
}

func (w *World) newCombatState(opp Opponent) *CombatState {
	return &CombatState{
		Opponent:      opp,
		PlayerHull:    w.Ship.Hull,
		PlayerMaxHull: w.Ship.MaxHull,
		PlayerShields: w.Ship.Shields,
		PlayerDamage:  w.Ship.Damage,
		PlayerEvasion: w.Ship.Evasion,
	}
}

func (w *World) newPirateEncounter(tier int, contractID string) *Encounter {
	names := w.Universe.Pirates.Names
	name := "Pirate Raider"
	if len(names) > 0 {
		name = names[w.rng.IntN(len(names))]
	}
	enc := newEncounter(EncounterPirate, "Pirate Attack",
		fmt.Sprintf("The %s (tier %d) drops out of warp, weapons hot.", name, tier))
	enc.Combat = w.newCombatState(PirateStats(name, tier))
	enc.Combat.ContractID = contractID
	return enc
}

// commitCombat writes the fight's hull and shields back to the ship.
func (w *World) commitCombat(c *CombatState) {
	w.Ship.Hull = max(0, c.PlayerHull)
	w.Ship.Shields = max(0, c.PlayerShields)
}

func (w *World) resolveCombat(enc *Encounter, action Action, n *narration) error {
	c := enc.Combat
	c.Round++

	switch action {
	case ActionAttack:
		dealt := max(1, c.PlayerDamage-w.rng.IntN(3))
		c.Opponent.Hull -= dealt
		n.say(MsgInfo, "You hit the %s for %d damage.", c.Opponent.Name, dealt)
		if c.Opponent.Hull <= 0 {
			c.Opponent.Hull = 0
			w.combatVictory(enc, n)
			return nil
		}
		if w.rng.IntN(100) < c.Opponent.Accuracy {
			hit := max(1, c.Opponent.Damage-w.rng.IntN(2))
			absorbed := min(c.PlayerShields, hit)
			c.PlayerShields -= absorbed
			c.PlayerHull -= hit - absorbed
			if absorbed > 0 {
				n.say(MsgWarning, "The %s returns fire: %d damage, %d absorbed by shields.", c.Opponent.Name, hit, absorbed)
			} else {
				n.say(MsgWarning, "The %s returns fire for %d damage.", c.Opponent.Name, hit)
			}
		} else {
			n.say(MsgInfo, "The %s misses.", c.Opponent.Name)
		}

	case ActionEvade:
		if w.rng.IntN(100) < c.PlayerEvasion {
			n.say(MsgInfo, "You roll clear of the %s's fire.", c.Opponent.Name)
			return nil
		}
		// No shield absorption on this branch.
		hit := max(1, c.Opponent.Damage-w.rng.IntN(2))
		c.PlayerHull -= hit
		n.say(MsgWarning, "Evasion fails. The %s hits for %d damage.", c.Opponent.Name, hit)

	case ActionEscape:
		if chance(w.rng, 0.7) {
			n.say(MsgInfo, "You break away and leave the %s behind.", c.Opponent.Name)
			w.endEncounter(enc, ResultEscaped)
			return nil
		}
		hit := max(3, c.Opponent.Damage+w.rng.IntN(5))
		c.PlayerHull -= hit
		n.say(MsgWarning, "Escape fails. The %s rakes your engines for %d damage.", c.Opponent.Name, hit)
	}

	if c.PlayerHull <= 0 {
		c.PlayerHull = 0
		n.say(MsgCritical, "Your hull gives way. The ship is destroyed.")
		w.endEncounter(enc, ResultDefeat)
	}
	return nil
}

func (w *World) combatVictory(enc *Encounter, n *narration) {
	c := enc.Combat
	switch {
	case c.Police:
		w.Wanted = true
		n.say(MsgCritical, "The patrol cutter breaks apart. You are now a wanted criminal.")
	case c.ContractID != "":
		contract := w.Contract(c.ContractID)
		if contract != nil && !contract.Completed {
			contract.Completed = true
			w.Credits += contract.Reward
			n.say(MsgDiscovery, "The %s is destroyed. Contract %s fulfilled: %d CR.", c.Opponent.Name, contract.ID, contract.Reward)
			break
		}
		fallthrough
	default:
		bounty := HuntReward(c.Opponent.Tier)
		w.Credits += bounty
		n.say(MsgDiscovery, "The %s is destroyed. Bounty collected: %d CR.", c.Opponent.Name, bounty)
	}
	w.endEncounter(enc, ResultVictory)
}
