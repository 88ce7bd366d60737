// Player trading endpoints: the human-directed factory's buy, sell,
// cancel, produce, and equipment flows.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talgya/factory-world/internal/factory"
	"github.com/talgya/factory-world/internal/market"
)

func (s *Server) handlePlayerBuy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CommodityID int     `json:"commodity_id"`
		Quantity    int     `json:"quantity"`
		MaxPrice    float64 `json:"max_price"`
		FullOnly    bool    `json:"full_only"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	trades, err := s.Sim.PlayerBuy(req.CommodityID, req.Quantity, req.MaxPrice, req.FullOnly)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, map[string]any{"trades": trades})
}

func (s *Server) handlePlayerSell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CommodityID int     `json:"commodity_id"`
		Quantity    int     `json:"quantity"`
		Price       float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	trades, err := s.Sim.PlayerSell(req.CommodityID, req.Quantity, req.Price)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, map[string]any{"trades": trades})
}

func (s *Server) handlePlayerCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		OrderID int64 `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := s.Sim.PlayerCancel(req.OrderID); err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, map[string]any{"cancelled": req.OrderID})
}

func (s *Server) handlePlayerProduce(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	made, err := s.Sim.PlayerProduce(req.ProductID, req.Quantity)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, map[string]any{"produced": made})
}

func (s *Server) handlePlayerEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		EquipmentID int `json:"equipment_id"`
		Quantity    int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := s.Sim.PlayerBuyEquipment(req.EquipmentID, req.Quantity); err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, map[string]any{"purchased": req.Quantity})
}

// writeFlowError maps refused player actions to 409 and unknown
// ids/orders to 404; everything else is a 400.
func writeFlowError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, factory.ErrInsufficientFunds),
		errors.Is(err, factory.ErrInsufficientStock),
		errors.Is(err, factory.ErrSupplyShort):
		status = http.StatusConflict
	case errors.Is(err, market.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, market.ErrNotOwner):
		status = http.StatusForbidden
	}
	http.Error(w, err.Error(), status)
}
