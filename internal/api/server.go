// Package api serves the simulation over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token: admin controls pacing, player
// endpoints drive the human-directed factory.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/factory-world/internal/engine"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Player trading endpoints are rate limited per IP.
	tradeLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/catalog/resources", s.handleCatalogResources)
	mux.HandleFunc("/api/v1/catalog/products", s.handleCatalogProducts)
	mux.HandleFunc("/api/v1/catalog/equipment", s.handleCatalogEquipment)
	mux.HandleFunc("/api/v1/factories", s.handleFactories)
	mux.HandleFunc("/api/v1/factory/", s.handleFactoryDetail)
	mux.HandleFunc("/api/v1/orders", s.handleOrders)
	mux.HandleFunc("/api/v1/trades", s.handleTrades)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats", s.handleStats)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/pause", s.adminOnly(s.handlePause))

	// Player endpoints (POST, bearer token + rate limit).
	mux.HandleFunc("/api/v1/player/buy", s.adminOnly(RateLimitMiddleware(tradeLimiter, s.handlePlayerBuy)))
	mux.HandleFunc("/api/v1/player/sell", s.adminOnly(RateLimitMiddleware(tradeLimiter, s.handlePlayerSell)))
	mux.HandleFunc("/api/v1/player/cancel", s.adminOnly(RateLimitMiddleware(tradeLimiter, s.handlePlayerCancel)))
	mux.HandleFunc("/api/v1/player/produce", s.adminOnly(RateLimitMiddleware(tradeLimiter, s.handlePlayerProduce)))
	mux.HandleFunc("/api/v1/player/equipment", s.adminOnly(RateLimitMiddleware(tradeLimiter, s.handlePlayerEquipment)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey && auth != ""
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "control endpoints disabled (no FACTORYSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Sim.StatsSnapshot()
	resources, products, equipment := s.Sim.CatalogSnapshot()
	status := map[string]any{
		"name":          "factory-world",
		"day":           s.Sim.CurrentDay(),
		"speed":         s.Eng.Speed,
		"running":       s.Eng.Running,
		"resources":     len(resources),
		"products":      len(products),
		"equipment":     len(equipment),
		"open_orders":   stats.OpenOrders,
		"total_balance": stats.TotalBalance,
	}
	writeJSON(w, status)
}

func (s *Server) handleCatalogResources(w http.ResponseWriter, r *http.Request) {
	resources, _, _ := s.Sim.CatalogSnapshot()
	writeJSON(w, resources)
}

func (s *Server) handleCatalogProducts(w http.ResponseWriter, r *http.Request) {
	_, products, _ := s.Sim.CatalogSnapshot()
	writeJSON(w, products)
}

func (s *Server) handleCatalogEquipment(w http.ResponseWriter, r *http.Request) {
	_, _, equipment := s.Sim.CatalogSnapshot()
	writeJSON(w, equipment)
}

func (s *Server) handleFactories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Factories())
}

// handleFactoryDetail serves GET /api/v1/factory/{id}.
func (s *Server) handleFactoryDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/factory/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid factory id", http.StatusBadRequest)
		return
	}
	snap, ok := s.Sim.Factory(id)
	if !ok {
		http.Error(w, "factory not found", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

// handleOrders serves the live book, optionally filtered with ?commodity=N.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	commodityID := 0
	if q := r.URL.Query().Get("commodity"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "invalid commodity id", http.StatusBadRequest)
			return
		}
		commodityID = id
	}
	orders := s.Sim.OrderSnapshot(commodityID)
	writeJSON(w, map[string]any{"count": len(orders), "orders": orders})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)
	writeJSON(w, s.Sim.RecentTrades(limit))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)
	writeJSON(w, s.Sim.RecentEvents(limit))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.StatsSnapshot())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.Eng.Speed = 0
		slog.Info("simulation paused")
	}
	writeJSON(w, map[string]any{"speed": s.Eng.Speed, "paused": s.Eng.Speed == 0})
}

func parseLimit(r *http.Request, fallback int) int {
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
