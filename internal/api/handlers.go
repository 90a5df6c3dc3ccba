/*
Package api
File: handlers.go
Description:
    HTTP handlers for the browser front end.
    Each handler decodes a small JSON request, calls one World action and
    returns either {success: true, data} or {success: false, message}.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Is a game running?)
    - Calling the simulation core in internal/game
    - Serializing access: the core is single-threaded, so every handler
      holds the server mutex for the duration of the action.
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// ErrNoGame is returned before the first POST /api/game/new.
var ErrNoGame = errors.New("no game in progress")

// Request DTOs

type TargetRequest struct {
	SystemID int `json:"system_id"`
}

type TradeRequest struct {
	GoodID string           `json:"good_id"`
	Action game.TradeAction `json:"action"`
}

type UpgradeRequest struct {
	UpgradeID string `json:"upgrade_id"`
}

type ContractRequest struct {
	ContractID string `json:"contract_id"`
}

type EncounterRequest struct {
	Action game.Action `json:"action"`
}

// Response is the envelope for every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SystemView is a system as the player knows it. Undiscovered systems
// hide their name, economy and market.
type SystemView struct {
	ID          int                          `json:"id"`
	Name        string                       `json:"name"`
	Position    game.Position                `json:"position"`
	Discovered  bool                         `json:"discovered"`
	Economy     game.Economy                 `json:"economy,omitempty"`
	Tech        string                       `json:"tech,omitempty"`
	Security    string                       `json:"security,omitempty"`
	HasShipyard bool                         `json:"has_shipyard"`
	HasRefuel   bool                         `json:"has_refuel"`
	HasMarket   bool                         `json:"has_market"`
	Market      map[string]*game.MarketEntry `json:"market,omitempty"`
}

func viewSystem(s *game.System) SystemView {
	if !s.Discovered {
		return SystemView{ID: s.ID, Name: "Unknown System", Position: s.Position}
	}
	return SystemView{
		ID:          s.ID,
		Name:        s.Name,
		Position:    s.Position,
		Discovered:  true,
		Economy:     s.Economy,
		Tech:        s.Tech.String(),
		Security:    s.Security.String(),
		HasShipyard: s.HasShipyard,
		HasRefuel:   s.HasRefuel,
		HasMarket:   s.HasMarket,
		Market:      s.Market,
	}
}

// StateView is everything the front end refreshes after an action.
type StateView struct {
	Credits       int                   `json:"credits"`
	Ship          game.Ship             `json:"ship"`
	Cargo         []*game.CargoItem     `json:"cargo"`
	CargoUsed     int                   `json:"cargo_used"`
	CurrentSystem SystemView            `json:"current_system"`
	TargetSystem  int                   `json:"target_system"`
	Traveling     bool                  `json:"traveling"`
	Travel        *game.TravelState     `json:"travel,omitempty"`
	Day           int                   `json:"day"`
	Contracts     []*game.Contract      `json:"contracts"`
	Encounter     *game.Encounter       `json:"encounter,omitempty"`
	Wanted        bool                  `json:"wanted"`
	GameOver      bool                  `json:"game_over"`
	Stats         game.Stats            `json:"stats"`
	Log           []game.Message        `json:"log"`
	Generation    game.GenerationReport `json:"generation"`
}

const stateLogLines = 20

func viewState(w *game.World) StateView {
	return StateView{
		Credits:       w.Credits,
		Ship:          w.Ship,
		Cargo:         w.Cargo,
		CargoUsed:     w.CargoUsed(),
		CurrentSystem: viewSystem(w.Current()),
		TargetSystem:  w.TargetSystem,
		Traveling:     w.Traveling(),
		Travel:        w.Travel,
		Day:           w.Day,
		Contracts:     w.Contracts,
		Encounter:     w.Encounters.Active(),
		Wanted:        w.Wanted,
		GameOver:      w.GameOver(),
		Stats:         w.Stats,
		Log:           w.Log.Recent(stateLogLines),
		Generation:    w.Galaxy.Report,
	}
}

// Server adapts one game session to HTTP.
type Server struct {
	mu       sync.Mutex
	universe *game.Universe
	world    *game.World
	hub      *Hub
}

// NewServer creates a server with no game running.
func NewServer(u *game.Universe, hub *Hub) *Server {
	return &Server{universe: u, hub: hub}
}

// SetUniverse swaps the catalog used by the next new game. The running
// session keeps the universe it was generated from.
func (s *Server) SetUniverse(u *game.Universe) {
	s.mu.Lock()
	s.universe = u
	s.mu.Unlock()
}

// NewGame replaces the running session. A zero seed picks one from the clock.
func (s *Server) NewGame(opts game.NewGameOptions) (*game.World, error) {
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	s.mu.Lock()
	u := s.universe
	s.mu.Unlock()

	world, err := game.NewGame(u, opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.world = world
	s.mu.Unlock()
	log.Info("new game", "size", opts.Size, "shape", opts.Shape, "seed", opts.Seed, "systems", len(world.Galaxy.Systems))
	return world, nil
}

// Routes registers every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/game/new", s.handleNewGame)
	mux.HandleFunc("GET /api/state", s.withWorld(s.handleState))
	mux.HandleFunc("GET /api/systems", s.withWorld(s.handleSystems))
	mux.HandleFunc("GET /api/market", s.withWorld(s.handleMarket))
	mux.HandleFunc("GET /api/upgrades", s.withWorld(s.handleUpgrades))
	mux.HandleFunc("GET /api/route", s.withWorld(s.handleRoute))
	mux.HandleFunc("GET /api/travel/quote", s.withWorld(s.handleTravelQuote))

	mux.HandleFunc("POST /api/target", s.withWorld(s.handleTarget))
	mux.HandleFunc("POST /api/travel", s.withWorld(s.handleTravel))
	mux.HandleFunc("POST /api/travel/complete", s.withWorld(s.handleCompleteTravel))
	mux.HandleFunc("POST /api/trade", s.withWorld(s.handleTrade))
	mux.HandleFunc("POST /api/refuel", s.withWorld(s.handleRefuel))
	mux.HandleFunc("POST /api/upgrade", s.withWorld(s.handleUpgrade))
	mux.HandleFunc("POST /api/contracts/handle", s.withWorld(s.handleContract))
	mux.HandleFunc("POST /api/encounter/action", s.withWorld(s.handleEncounterAction))

	if s.hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}
	return corsMiddleware(mux)
}

// worldHandler runs with the server lock held and a live world.
type worldHandler func(w http.ResponseWriter, r *http.Request, world *game.World)

func (s *Server) withWorld(h worldHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.world == nil {
			writeError(w, ErrNoGame)
			return
		}
		h(w, r, s.world)
	}
}

func (s *Server) publish(eventType string, payload interface{}) {
	if s.hub != nil {
		s.hub.Publish(eventType, payload)
	}
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var opts game.NewGameOptions
	if !decode(w, r, &opts) {
		return
	}
	world, err := s.NewGame(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	state := viewState(world)
	s.mu.Unlock()
	s.publish(EventNewGame, state)
	writeOK(w, "New game started.", state)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, world *game.World) {
	writeOK(w, "", viewState(world))
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request, world *game.World) {
	views := make([]SystemView, 0, len(world.Galaxy.Systems))
	for _, sys := range world.Galaxy.Systems {
		views = append(views, viewSystem(sys))
	}
	writeOK(w, "", views)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request, world *game.World) {
	sys := world.Current()
	if !sys.HasMarket {
		writeError(w, game.ErrNoMarket)
		return
	}
	writeOK(w, "", sys.Market)
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request, world *game.World) {
	if !world.Current().HasShipyard {
		writeOK(w, "No shipyard in this system.", []game.Upgrade{})
		return
	}
	writeOK(w, "", world.Universe.Upgrades)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request, world *game.World) {
	to, ok := queryInt(w, r, "to")
	if !ok {
		return
	}
	route, err := world.PlanRoute(to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", route)
}

func (s *Server) handleTravelQuote(w http.ResponseWriter, r *http.Request, world *game.World) {
	to, ok := queryInt(w, r, "to")
	if !ok {
		return
	}
	quote, err := world.QuoteTravel(to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", quote)
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request, world *game.World) {
	var req TargetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := world.SetTarget(req.SystemID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "Target set.", viewState(world))
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request, world *game.World) {
	receipt, err := world.TravelToSystem()
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(EventDeparture, receipt)
	writeOK(w, receipt.Message, receipt)
}

func (s *Server) handleCompleteTravel(w http.ResponseWriter, r *http.Request, world *game.World) {
	report, err := world.CompleteTravel()
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(EventArrival, report)
	writeOK(w, "Arrived at "+report.SystemName+".", report)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, world *game.World) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}
	receipt, err := world.TradeItem(req.GoodID, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, receipt.Message, receipt)
}

func (s *Server) handleRefuel(w http.ResponseWriter, r *http.Request, world *game.World) {
	receipt, err := world.RefuelShip()
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, receipt.Message, receipt)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request, world *game.World) {
	var req UpgradeRequest
	if !decode(w, r, &req) {
		return
	}
	receipt, err := world.UpgradeShip(req.UpgradeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, receipt.Message, receipt)
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request, world *game.World) {
	var req ContractRequest
	if !decode(w, r, &req) {
		return
	}
	receipt, err := world.HandleContract(req.ContractID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, receipt.Message, receipt)
}

func (s *Server) handleEncounterAction(w http.ResponseWriter, r *http.Request, world *game.World) {
	var req EncounterRequest
	if !decode(w, r, &req) {
		return
	}
	update, err := world.HandleEncounterAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(EventEncounter, update)
	writeOK(w, "", update)
}

// decode reads a JSON body, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Bad Request: " + err.Error()})
		return false
	}
	return true
}

func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "query parameter '" + key + "' must be an integer"})
		return 0, false
	}
	return v, true
}

func writeOK(w http.ResponseWriter, msg string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

// writeError maps domain failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrInvalidGalaxy):
		status = http.StatusBadRequest
	}
	log.Debug("action failed", "status", status, "error", err)
	writeJSON(w, status, Response{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// corsMiddleware lets a front end served from another origin call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
