/*
Package game
File: errors.go
Description:
    Domain failures. Every action either succeeds or returns one of these
    (wrapped with context) without having changed any state.
*/

package game

import "errors"

var (
	// Resource insufficiency
	ErrInsufficientFunds = errors.New("insufficient credits")
	ErrInsufficientFuel  = errors.New("insufficient fuel")
	ErrInsufficientCargo = errors.New("insufficient cargo")
	ErrCargoFull         = errors.New("cargo hold is full")
	ErrOutOfStock        = errors.New("out of stock")
	ErrFuelFull          = errors.New("fuel tank is already full")

	// Precondition absence
	ErrNoTarget          = errors.New("no travel target selected")
	ErrNoMarket          = errors.New("no market")
	ErrNoRefuel          = errors.New("no refueling station")
	ErrNoShipyard        = errors.New("no shipyard")
	ErrMissingGoods      = errors.New("contract goods missing")
	ErrContractCargo     = errors.New("cargo is reserved for a contract")
	ErrContractCompleted = errors.New("contract already completed")
	ErrTraveling         = errors.New("ship is traveling")
	ErrNotTraveling      = errors.New("ship is not traveling")
	ErrEncounterActive   = errors.New("an encounter is in progress")
	ErrNoEncounter       = errors.New("no active encounter")
	ErrNoRoute           = errors.New("no route within jump range")

	// Invalid reference
	ErrNotFound = errors.New("not found")

	// Configuration
	ErrInvalidGalaxy = errors.New("invalid galaxy parameters")
)
