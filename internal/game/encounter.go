/*
Package game
File: encounter.go
Description:
    The encounter engine.
    1. Weighted selection of an encounter kind from the security table.
    2. A single Encounter type tagged by Kind; each kind fills only the
       state block its resolution needs.
    3. The EncounterManager keeps at most one encounter active and
       force-ends the previous one before starting another.
    4. HandleEncounterAction dispatches on Kind to the resolvers in
       encounter_combat.go, encounter_police.go and encounter_events.go.
*/

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// EncounterKind tags the encounter variant.
type EncounterKind string

const (
	EncounterPirate       EncounterKind = "pirate"
	EncounterPolice       EncounterKind = "police"
	EncounterPoliceCombat EncounterKind = "police_combat" // An inspection that turned violent
	EncounterTrader       EncounterKind = "trader"
	EncounterDebris       EncounterKind = "debris"
	EncounterDistress     EncounterKind = "distress"
	EncounterAnomaly      EncounterKind = "anomaly"
)

// EncounterPhase is Inactive -> Active -> Ended.
type EncounterPhase string

const (
	PhaseInactive EncounterPhase = "inactive"
	PhaseActive   EncounterPhase = "active"
	PhaseEnded    EncounterPhase = "ended"
)

// EncounterResult is how an encounter ended.
type EncounterResult string

const (
	ResultNone       EncounterResult = ""
	ResultVictory    EncounterResult = "victory"
	ResultDefeat     EncounterResult = "defeat"
	ResultEscaped    EncounterResult = "escaped"
	ResultComplied   EncounterResult = "complied"
	ResultCleared    EncounterResult = "cleared"
	ResultEscalated  EncounterResult = "escalated"
	ResultPurchased  EncounterResult = "purchased"
	ResultLeft       EncounterResult = "left"
	ResultResolved   EncounterResult = "resolved"
	ResultIgnored    EncounterResult = "ignored"
	ResultSuperseded EncounterResult = "superseded"
)

// Action is a player choice inside an encounter.
type Action string

const (
	ActionAttack      Action = "attack"
	ActionEvade       Action = "evade"
	ActionEscape      Action = "escape"
	ActionComply      Action = "comply"
	ActionBuy         Action = "buy"
	ActionLeave       Action = "leave"
	ActionNavigate    Action = "navigate"
	ActionAvoid       Action = "avoid"
	ActionAssist      Action = "assist"
	ActionIgnore      Action = "ignore"
	ActionInvestigate Action = "investigate"
	ActionBypass      Action = "bypass"
)

// Encounter is one randomized event. Exactly one of the state blocks is
// set, selected by Kind.
type Encounter struct {
	ID          string          `json:"id"`
	Kind        EncounterKind   `json:"kind"`
	Phase       EncounterPhase  `json:"phase"`
	Result      EncounterResult `json:"result,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Actions     []Action        `json:"actions"`

	// Supersedes points at the encounter this one escalated from.
	Supersedes   *Encounter `json:"-"`
	SupersedesID string     `json:"supersedes_id,omitempty"`

	Combat     *CombatState     `json:"combat,omitempty"`
	Inspection *InspectionState `json:"inspection,omitempty"`
	Offer      *TraderOffer     `json:"offer,omitempty"`
	Debris     *DebrisState     `json:"debris,omitempty"`
	Distress   *DistressState   `json:"distress,omitempty"`
	Anomaly    *AnomalyState    `json:"anomaly,omitempty"`
}

func newEncounter(kind EncounterKind, title, description string) *Encounter {
	return &Encounter{
		Kind:        kind,
		Phase:       PhaseInactive,
		Title:       title,
		Description: description,
	}
}

// Active reports whether the encounter is awaiting player input.
func (e *Encounter) Active() bool {
	return e.Phase == PhaseActive
}

// allowedActions is the action set offered for the encounter's current state.
func (e *Encounter) allowedActions() []Action {
	switch e.Kind {
	case EncounterPirate, EncounterPoliceCombat:
		return []Action{ActionAttack, ActionEvade, ActionEscape}
	case EncounterPolice:
		if e.Inspection != nil && e.Inspection.Clean() {
			return []Action{ActionComply}
		}
		return []Action{ActionComply, ActionAttack}
	case EncounterTrader:
		if e.Offer != nil && e.Offer.Quantity <= 0 {
			return []Action{ActionLeave}
		}
		return []Action{ActionBuy, ActionLeave}
	case EncounterDebris:
		return []Action{ActionNavigate, ActionAvoid}
	case EncounterDistress:
		return []Action{ActionAssist, ActionIgnore}
	case EncounterAnomaly:
		return []Action{ActionInvestigate, ActionBypass}
	}
	return nil
}

func (e *Encounter) allows(a Action) bool {
	for _, allowed := range e.Actions {
		if allowed == a {
			return true
		}
	}
	return false
}

func (e *Encounter) start() {
	if e.Phase != PhaseInactive {
		return
	}
	e.Phase = PhaseActive
	e.Actions = e.allowedActions()
}

// end is safe to call more than once; only the first call records a result.
func (e *Encounter) end(result EncounterResult) bool {
	if e.Phase == PhaseEnded {
		return false
	}
	e.Phase = PhaseEnded
	e.Result = result
	e.Actions = nil
	return true
}

// rngReader adapts the world's seeded source to io.Reader, so encounter
// ids replay with the game seed.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

// EncounterManager owns the single active encounter.
type EncounterManager struct {
	active *Encounter
	last   *Encounter
}

// Active returns the running encounter, or nil.
func (m *EncounterManager) Active() *Encounter {
	if m.active != nil && m.active.Active() {
		return m.active
	}
	return nil
}

// Last returns the most recent encounter, active or not.
func (m *EncounterManager) Last() *Encounter {
	return m.last
}

// startEncounter force-ends any running encounter and activates enc.
func (w *World) startEncounter(enc *Encounter) {
	if prev := w.Encounters.Active(); prev != nil {
		w.endEncounter(prev, ResultSuperseded)
	}
	if enc.ID == "" {
		enc.ID = uuid.Must(uuid.NewRandomFromReader(rngReader{w.rng})).String()
	}
	enc.start()
	w.Encounters.active = enc
	w.Encounters.last = enc
	w.Stats.EncountersSeen++
	w.Log.Add(enc.Description, MsgWarning)
	log.Debug("encounter started", "id", enc.ID, "kind", enc.Kind)
}

// endEncounter writes combat state back to the ship and ends the encounter.
func (w *World) endEncounter(enc *Encounter, result EncounterResult) {
	if enc.Phase == PhaseEnded {
		return
	}
	if enc.Combat != nil {
		w.commitCombat(enc.Combat)
	}
	enc.end(result)
	if w.Encounters.active == enc {
		w.Encounters.active = nil
	}
	log.Debug("encounter ended", "id", enc.ID, "kind", enc.Kind, "result", result)
}

// SelectEncounterKind draws a kind from the weights for a security level.
func SelectEncounterKind(table EncounterWeights, sec SecurityLevel, rng *rand.Rand) (EncounterKind, bool) {
	row := table.ForSecurity(sec)
	return WeightedPick(rng, []Weighted[EncounterKind]{
		{Item: EncounterPirate, Weight: row.Pirate},
		{Item: EncounterPolice, Weight: row.Police},
		{Item: EncounterTrader, Weight: row.Trader},
		{Item: EncounterDebris, Weight: row.Debris},
		{Item: EncounterDistress, Weight: row.Distress},
		{Item: EncounterAnomaly, Weight: row.Anomaly},
	})
}

// rollArrivalEncounter forces a hunt fight when a contract target is
// reached, otherwise rolls the arrival chance and the weighted table.
func (w *World) rollArrivalEncounter(sys *System) *Encounter {
	if hunt := w.openHuntAt(sys.ID); hunt != nil {
		enc := w.newPirateEncounter(hunt.Tier, hunt.ID)
		w.startEncounter(enc)
		return enc
	}
	if !chance(w.rng, w.Universe.BalanceConfig.EncounterChance) {
		return nil
	}
	kind, ok := SelectEncounterKind(w.Universe.EncounterWeights, sys.Security, w.rng)
	if !ok {
		return nil
	}
	return w.StartEncounter(kind)
}

// StartEncounter builds and activates an encounter of the given kind.
func (w *World) StartEncounter(kind EncounterKind) *Encounter {
	var enc *Encounter
	switch kind {
	case EncounterPirate:
		p := w.Universe.Pirates
		enc = w.newPirateEncounter(randInt(w.rng, p.MinTier, p.MaxTier), "")
	case EncounterPolice:
		enc = w.newPoliceEncounter()
	case EncounterTrader:
		enc = w.newTraderEncounter()
	case EncounterDebris:
		enc = w.newDebrisEncounter()
	case EncounterDistress:
		enc = w.newDistressEncounter()
	case EncounterAnomaly:
		enc = w.newAnomalyEncounter()
	default:
		log.Warn("unknown encounter kind", "kind", kind)
		return nil
	}
	w.startEncounter(enc)
	return enc
}

// EncounterUpdate is what the presentation layer renders after an action.
type EncounterUpdate struct {
	Encounter *Encounter `json:"encounter"`
	Messages  []string   `json:"messages"`
	Ended     bool       `json:"ended"`
	Next      *Encounter `json:"next,omitempty"` // Set when the encounter escalated
	Destroyed bool       `json:"destroyed"`
}

// narration collects the lines produced by one action.
type narration struct {
	w     *World
	lines []string
}

func (n *narration) say(priority MsgPriority, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	n.lines = append(n.lines, text)
	n.w.Log.Add(text, priority)
}

// HandleEncounterAction forwards a player choice to the active encounter.
func (w *World) HandleEncounterAction(action Action) (EncounterUpdate, error) {
	enc := w.Encounters.Active()
	if enc == nil {
		return EncounterUpdate{}, ErrNoEncounter
	}

	n := &narration{w: w}
	var err error
	if !enc.allows(action) {
		log.Debug("unrecognized encounter action", "id", enc.ID, "kind", enc.Kind, "action", action)
		n.say(MsgInfo, "Nothing happens.")
	} else {
		switch enc.Kind {
		case EncounterPirate, EncounterPoliceCombat:
			err = w.resolveCombat(enc, action, n)
		case EncounterPolice:
			err = w.resolveInspection(enc, action, n)
		case EncounterTrader:
			err = w.resolveTrader(enc, action, n)
		case EncounterDebris:
			w.resolveDebris(enc, action, n)
		case EncounterDistress:
			w.resolveDistress(enc, action, n)
		case EncounterAnomaly:
			w.resolveAnomaly(enc, action, n)
		}
	}
	if err != nil {
		return EncounterUpdate{}, err
	}

	update := EncounterUpdate{
		Encounter: enc,
		Messages:  n.lines,
		Ended:     enc.Phase == PhaseEnded,
		Destroyed: w.GameOver(),
	}
	if next := w.Encounters.Active(); next != nil && next != enc {
		update.Next = next
	}
	return update, nil
}
