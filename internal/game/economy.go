/*
Package game
File: economy.go
Description:
    Handles the economic simulation of the galaxy.
    This includes:
    1. Generating a system's market from its archetype and tech level.
    2. Buy/sell transactions against the current system's market.
    3. Restocking a market when the player arrives, based on days elapsed.
*/

package game

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// TradeAction is buy or sell.
type TradeAction string

const (
	TradeBuy  TradeAction = "buy"
	TradeSell TradeAction = "sell"
)

// TradeReceipt describes a completed single-unit trade.
type TradeReceipt struct {
	GoodID  string      `json:"good_id"`
	Action  TradeAction `json:"action"`
	Cost    int         `json:"cost,omitempty"`
	Revenue int         `json:"revenue,omitempty"`
	Message string      `json:"message"`
}

// GenerateMarket fills sys.Market from the catalog.
// Illegal goods are never listed in high-security systems.
func GenerateMarket(u *Universe, sys *System, rng *rand.Rand) {
	profile, _ := u.Economy(sys.Economy)
	sys.Market = make(map[string]*MarketEntry, len(u.Goods))

	for _, good := range u.Goods {
		if good.Illegal && sys.Security == LevelHigh {
			continue
		}

		// 1. Archetype modifier: explicit, produced locally, or imported
		var baseMod, qtyMul float64
		if mod, ok := profile.Modifiers[good.ID]; ok {
			baseMod, qtyMul = mod.BaseModifier, mod.QuantityMultiplier
		} else if good.ProducedBy(sys.Economy) {
			baseMod, qtyMul = randFloat(rng, 0.5, 0.8), 1.5
		} else {
			baseMod, qtyMul = randFloat(rng, 1.2, 1.6), 0.8
		}

		// 2. Tech level
		baseMod *= techPriceMultiplier(sys.Tech)

		// 3. Prices. Sell is a discount on buy, so it never exceeds it.
		buy := int(math.Round(float64(good.BasePrice) * baseMod * randFloat(rng, 0.8, 1.2)))
		if buy < 1 {
			buy = 1
		}
		sell := int(math.Round(float64(buy) * randFloat(rng, 0.7, 1.0)))

		// 4. Stock: expensive goods start scarcer.
		maxQty := techMaxQuantity(sys.Tech)
		qty := int(math.Round(float64(maxQty) * (1 - float64(good.BasePrice)/800) * qtyMul))
		qty = clamp(qty, 5, maxQty)

		sys.Market[good.ID] = &MarketEntry{
			Name:        good.Name,
			BuyPrice:    buy,
			SellPrice:   sell,
			Quantity:    qty,
			MaxQuantity: maxQty,
			Illegal:     good.Illegal,
		}
	}
}

func techPriceMultiplier(t TechLevel) float64 {
	switch t {
	case LevelLow:
		return 1.3
	case LevelHigh:
		return 0.9
	default:
		return 1.0
	}
}

func techMaxQuantity(t TechLevel) int {
	switch t {
	case LevelLow:
		return 40
	case LevelMedium:
		return 80
	case LevelHigh:
		return 120
	default:
		return 60
	}
}

// RestockSystem moves stock toward a partial or full target depending on
// the days elapsed since the last full restock. Quantities never decrease
// and never pass the target. Only a full restock resets LastRestock, so
// rarely visited systems bank their elapsed days. Returns true when the
// restock window was open.
func RestockSystem(cfg RestockConfig, sys *System, day int) bool {
	elapsed := sys.DaysSinceRestock(day)

	var ratio float64
	var step int
	full := false
	switch {
	case elapsed >= cfg.FullAfterDays:
		ratio, step, full = 1.0, cfg.FullStep, true
	case elapsed >= cfg.PartialAfterDays:
		ratio, step = cfg.PartialRatio, cfg.PartialStep
	default:
		return false
	}

	for _, entry := range sys.Market {
		target := int(float64(entry.MaxQuantity) * ratio)
		if target > entry.MaxQuantity {
			target = entry.MaxQuantity
		}
		if entry.Quantity < target {
			entry.Quantity = min(target, entry.Quantity+step)
		}
	}

	if full {
		sys.LastRestock = day
	}
	log.Debug("market restocked", "system", sys.Name, "elapsed_days", elapsed, "full", full)
	return true
}

// TradeItem buys or sells one unit of a good at the current system.
// All preconditions are checked before anything is mutated.
func (w *World) TradeItem(goodID string, action TradeAction) (TradeReceipt, error) {
	if w.Travel != nil {
		return TradeReceipt{}, ErrTraveling
	}
	if w.Encounters.Active() != nil {
		return TradeReceipt{}, ErrEncounterActive
	}
	sys := w.Current()
	if !sys.HasMarket {
		return TradeReceipt{}, fmt.Errorf("%w at %s", ErrNoMarket, sys.Name)
	}
	entry, ok := sys.Market[goodID]
	if !ok {
		return TradeReceipt{}, fmt.Errorf("%w: %q is not traded at %s", ErrNotFound, goodID, sys.Name)
	}

	switch action {
	case TradeBuy:
		return w.buy(goodID, entry)
	case TradeSell:
		return w.sell(goodID, entry)
	default:
		return TradeReceipt{}, fmt.Errorf("%w: trade action %q", ErrNotFound, action)
	}
}

func (w *World) buy(goodID string, entry *MarketEntry) (TradeReceipt, error) {
	if w.Credits < entry.BuyPrice {
		return TradeReceipt{}, fmt.Errorf("%w: %s costs %d CR", ErrInsufficientFunds, entry.Name, entry.BuyPrice)
	}
	if entry.Quantity <= 0 {
		return TradeReceipt{}, fmt.Errorf("%w: %s", ErrOutOfStock, entry.Name)
	}
	if w.CargoUsed() >= w.Ship.CargoCapacity {
		return TradeReceipt{}, ErrCargoFull
	}

	entry.Quantity--
	w.Credits -= entry.BuyPrice
	line := w.cargoLine(goodID, "")
	if line == nil {
		line = &CargoItem{GoodID: goodID, Name: entry.Name, Illegal: entry.Illegal}
		w.Cargo = append(w.Cargo, line)
	}
	line.Quantity++
	line.BuyPrice = entry.BuyPrice

	msg := fmt.Sprintf("Bought 1 %s for %d CR.", entry.Name, entry.BuyPrice)
	w.Log.Add(msg, MsgInfo)
	return TradeReceipt{GoodID: goodID, Action: TradeBuy, Cost: entry.BuyPrice, Message: msg}, nil
}

func (w *World) sell(goodID string, entry *MarketEntry) (TradeReceipt, error) {
	line := w.cargoLine(goodID, "")
	if line == nil || line.Quantity < 1 {
		if w.contractCargo(goodID) != nil {
			return TradeReceipt{}, fmt.Errorf("%w: %s is reserved for a delivery", ErrContractCargo, entry.Name)
		}
		return TradeReceipt{}, fmt.Errorf("%w: no %s in the hold", ErrInsufficientCargo, entry.Name)
	}

	w.Credits += entry.SellPrice
	line.Quantity--
	if line.Quantity == 0 {
		w.removeCargo(line)
	}
	if entry.Quantity < entry.MaxQuantity {
		entry.Quantity++
	}

	msg := fmt.Sprintf("Sold 1 %s for %d CR.", entry.Name, entry.SellPrice)
	w.Log.Add(msg, MsgInfo)
	return TradeReceipt{GoodID: goodID, Action: TradeSell, Revenue: entry.SellPrice, Message: msg}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
