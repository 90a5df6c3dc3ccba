/*
Package game
File: contracts.go
Description:
    Generates the starting batch of hunt and delivery contracts and
    resolves the player's contract actions (set course, pick up, deliver).
*/

package game

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	huntContracts     = 3
	deliveryContracts = 2
)

// HuntReward is shared by hunt contracts and pirate bounties.
func HuntReward(tier int) int {
	return 500 + 300*tier
}

// GenerateContracts creates the fixed batch offered at game start.
func GenerateContracts(u *Universe, galaxy *Galaxy, rng *rand.Rand) []*Contract {
	contracts := make([]*Contract, 0, huntContracts+deliveryContracts)
	systems := galaxy.Systems

	for i := 0; i < huntContracts; i++ {
		tier := randInt(rng, 3, 10)
		target := systems[rng.IntN(len(systems))]
		// Hunts trigger on arrival, so they never point at the start system.
		for tries := 0; target.ID == galaxy.StartID && len(systems) > 1 && tries < 32; tries++ {
			target = systems[rng.IntN(len(systems))]
		}
		contracts = append(contracts, &Contract{
			ID:           fmt.Sprintf("HNT-%d", i+1),
			Type:         ContractHunt,
			Reward:       HuntReward(tier),
			TargetSystem: target.ID,
			Tier:         tier,
		})
	}

	goods := deliverableGoods(u)
	for i := 0; i < deliveryContracts && len(goods) > 0; i++ {
		origin := systems[rng.IntN(len(systems))]
		dest := systems[rng.IntN(len(systems))]
		// Distinct systems when the galaxy allows it.
		for tries := 0; dest.ID == origin.ID && len(systems) > 1 && tries < 32; tries++ {
			dest = systems[rng.IntN(len(systems))]
		}
		good := goods[rng.IntN(len(goods))]
		qty := randInt(rng, 5, 14)
		contracts = append(contracts, &Contract{
			ID:           fmt.Sprintf("DLV-%d", i+1),
			Type:         ContractDelivery,
			Reward:       int(math.Round(float64(good.BasePrice*qty) * 1.5)),
			OriginSystem: origin.ID,
			TargetSystem: dest.ID,
			GoodID:       good.ID,
			GoodName:     good.Name,
			Quantity:     qty,
		})
	}
	return contracts
}

// deliverableGoods excludes contraband so couriers are never fined for a job.
func deliverableGoods(u *Universe) []Good {
	goods := make([]Good, 0, len(u.Goods))
	for _, g := range u.Goods {
		if !g.Illegal {
			goods = append(goods, g)
		}
	}
	return goods
}

// ContractAction says what HandleContract did.
type ContractAction string

const (
	ContractCourseSet ContractAction = "course_set"
	ContractInZone    ContractAction = "in_zone"
	ContractPickedUp  ContractAction = "picked_up"
	ContractDelivered ContractAction = "delivered"
)

// ContractReceipt describes the outcome of HandleContract.
type ContractReceipt struct {
	Contract *Contract     `json:"contract"`
	Action   ContractAction `json:"action"`
	Reward   int            `json:"reward,omitempty"`
	Message  string         `json:"message"`
}

// Contract looks up a contract by id.
func (w *World) Contract(id string) *Contract {
	for _, c := range w.Contracts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HandleContract advances a contract. Hunts set the travel target.
// Deliveries pick up at the origin, deliver at the destination, and
// otherwise set course for whichever leg is next.
func (w *World) HandleContract(id string) (ContractReceipt, error) {
	c := w.Contract(id)
	if c == nil {
		return ContractReceipt{}, fmt.Errorf("%w: contract %q", ErrNotFound, id)
	}
	if c.Completed {
		return ContractReceipt{}, fmt.Errorf("%w: %s", ErrContractCompleted, id)
	}
	if w.Travel != nil {
		return ContractReceipt{}, ErrTraveling
	}
	if w.Encounters.Active() != nil {
		return ContractReceipt{}, ErrEncounterActive
	}

	switch c.Type {
	case ContractHunt:
		return w.handleHunt(c)
	case ContractDelivery:
		return w.handleDelivery(c)
	default:
		return ContractReceipt{}, fmt.Errorf("%w: contract type %q", ErrNotFound, c.Type)
	}
}

func (w *World) handleHunt(c *Contract) (ContractReceipt, error) {
	target := w.Galaxy.System(c.TargetSystem)
	if c.TargetSystem == w.CurrentSystem {
		msg := fmt.Sprintf("You are already in the hunt zone at %s.", target.Name)
		return ContractReceipt{Contract: c, Action: ContractInZone, Message: msg}, nil
	}
	w.TargetSystem = c.TargetSystem
	msg := fmt.Sprintf("Course set for %s. Tier %d target reported.", w.destName(target), c.Tier)
	w.Log.Add(msg, MsgInfo)
	return ContractReceipt{Contract: c, Action: ContractCourseSet, Message: msg}, nil
}

func (w *World) handleDelivery(c *Contract) (ContractReceipt, error) {
	line := w.cargoLine(c.GoodID, c.ID)

	switch {
	case w.CurrentSystem == c.TargetSystem && line != nil:
		return w.deliver(c, line)

	case w.CurrentSystem == c.OriginSystem && line == nil:
		return w.pickUp(c)

	case w.CurrentSystem == c.TargetSystem:
		return ContractReceipt{}, fmt.Errorf("%w: %d %s not aboard", ErrMissingGoods, c.Quantity, c.GoodName)
	}

	next := c.OriginSystem
	if line != nil {
		next = c.TargetSystem
	}
	w.TargetSystem = next
	msg := fmt.Sprintf("Course set for %s.", w.destName(w.Galaxy.System(next)))
	w.Log.Add(msg, MsgInfo)
	return ContractReceipt{Contract: c, Action: ContractCourseSet, Message: msg}, nil
}

func (w *World) pickUp(c *Contract) (ContractReceipt, error) {
	if w.FreeCargo() < c.Quantity {
		return ContractReceipt{}, fmt.Errorf("%w: need %d free units", ErrCargoFull, c.Quantity)
	}
	good, ok := w.Universe.Good(c.GoodID)
	if !ok {
		return ContractReceipt{}, fmt.Errorf("%w: good %q", ErrNotFound, c.GoodID)
	}
	w.addCargo(good, c.Quantity, 0, c.ID)
	msg := fmt.Sprintf("Loaded %d %s for contract %s.", c.Quantity, c.GoodName, c.ID)
	w.Log.Add(msg, MsgInfo)
	return ContractReceipt{Contract: c, Action: ContractPickedUp, Message: msg}, nil
}

func (w *World) deliver(c *Contract, line *CargoItem) (ContractReceipt, error) {
	if line.Quantity < c.Quantity {
		return ContractReceipt{}, fmt.Errorf("%w: %d of %d %s aboard", ErrMissingGoods, line.Quantity, c.Quantity, c.GoodName)
	}
	w.removeCargo(line)
	w.Credits += c.Reward
	c.Completed = true
	msg := fmt.Sprintf("Contract %s delivered. %d CR received.", c.ID, c.Reward)
	w.Log.Add(msg, MsgDiscovery)
	return ContractReceipt{Contract: c, Action: ContractDelivered, Reward: c.Reward, Message: msg}, nil
}

// openHuntAt returns an unfinished hunt targeting the system, if any.
func (w *World) openHuntAt(systemID int) *Contract {
	for _, c := range w.Contracts {
		if c.Type == ContractHunt && !c.Completed && c.TargetSystem == systemID {
			return c
		}
	}
	return nil
}
