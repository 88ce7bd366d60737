// Player-directed actions and read snapshots, serialized on the
// simulation mutex so API handlers never race the day loop.
package engine

import (
	"fmt"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/factory"
	"github.com/talgya/factory-world/internal/market"
)

// PlayerBuy places a bid for the player factory with optimistic
// settlement. Kind is resolved from the catalog.
func (s *Simulation) PlayerBuy(commodityID, quantity int, maxPrice float64, fullOnly bool) ([]market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.Catalog.Commodity(commodityID)
	if !ok {
		return nil, fmt.Errorf("engine: unknown commodity %d", commodityID)
	}
	trades, err := s.Player.Buy(s.Book, commodityID, c.Kind, quantity, maxPrice, fullOnly)
	if err != nil {
		return nil, err
	}
	s.notePlayerAction(fmt.Sprintf("player bought %d units of %s at up to %.2f", quantity, c.Name, maxPrice))
	s.recordTrades(s.LastDay, trades)
	return trades, nil
}

// PlayerSell places an ask for the player factory with optimistic
// settlement.
func (s *Simulation) PlayerSell(commodityID, quantity int, price float64) ([]market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.Catalog.Commodity(commodityID)
	if !ok {
		return nil, fmt.Errorf("engine: unknown commodity %d", commodityID)
	}
	trades, err := s.Player.Sell(s.Book, commodityID, c.Kind, quantity, price)
	if err != nil {
		return nil, err
	}
	s.notePlayerAction(fmt.Sprintf("player listed %d units of %s at %.2f", quantity, c.Name, price))
	s.recordTrades(s.LastDay, trades)
	return trades, nil
}

// PlayerCancel withdraws one of the player's live orders.
func (s *Simulation) PlayerCancel(orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Book.Cancel(orderID, s.Player.ID); err != nil {
		return err
	}
	s.notePlayerAction(fmt.Sprintf("player cancelled order %d", orderID))
	return nil
}

// PlayerProduce manufactures a product in the player factory.
func (s *Simulation) PlayerProduce(productID, quantity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prod, ok := s.Catalog.Product(productID)
	if !ok {
		return 0, fmt.Errorf("engine: unknown product %d", productID)
	}
	made, err := s.Player.Produce(prod, quantity)
	if err != nil {
		return 0, err
	}
	s.notePlayerAction(fmt.Sprintf("player produced %d units of %s", made, prod.Name))
	return made, nil
}

// PlayerBuyEquipment purchases equipment units for the player factory.
func (s *Simulation) PlayerBuyEquipment(equipmentID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.Catalog.EquipmentByID(equipmentID)
	if !ok {
		return fmt.Errorf("engine: unknown equipment %d", equipmentID)
	}
	if err := s.Player.BuyEquipment(entry, quantity); err != nil {
		return err
	}
	s.notePlayerAction(fmt.Sprintf("player bought %d × %s", quantity, entry.Name))
	return nil
}

func (s *Simulation) notePlayerAction(desc string) {
	s.Events = append(s.Events, Event{Day: s.LastDay, Description: desc, Category: "player"})
}

// FactorySnapshot is a copy of one factory's state for read access.
type FactorySnapshot struct {
	ID            int                 `json:"id"`
	Balance       float64             `json:"balance"`
	Capacity      int                 `json:"capacity"`
	OperatingCost float64             `json:"operating_cost"`
	Equipment     []economy.Equipment `json:"equipment"`
	Inventory     []StockLine         `json:"inventory"`
}

// StockLine is one inventory row in a snapshot.
type StockLine struct {
	CommodityID int          `json:"commodity_id"`
	Kind        economy.Kind `json:"kind"`
	Quantity    int          `json:"quantity"`
}

// Factory returns a snapshot of one factory by id.
func (s *Simulation) Factory(id int) (FactorySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.factoryByID[id]
	if !ok {
		return FactorySnapshot{}, false
	}
	return snapshotFactory(f), true
}

// Factories returns snapshots of every factory, player first.
func (s *Simulation) Factories() []FactorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FactorySnapshot, 0, len(s.AIFactories)+1)
	out = append(out, snapshotFactory(s.Player))
	for _, f := range s.AIFactories {
		out = append(out, snapshotFactory(f))
	}
	return out
}

func snapshotFactory(f *factory.Factory) FactorySnapshot {
	snap := FactorySnapshot{
		ID:            f.ID,
		Balance:       f.Balance,
		Capacity:      f.Capacity(),
		OperatingCost: f.OperatingCost(),
		Equipment:     append([]economy.Equipment(nil), f.Equipment...),
	}
	for key, qty := range f.Inventory {
		snap.Inventory = append(snap.Inventory, StockLine{
			CommodityID: key.CommodityID,
			Kind:        key.Kind,
			Quantity:    qty,
		})
	}
	return snap
}

// OrderSnapshot returns live orders, optionally filtered to one
// commodity (commodityID 0 means all).
func (s *Simulation) OrderSnapshot(commodityID int) []market.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if commodityID == 0 {
		return s.Book.Orders()
	}
	return s.Book.OrdersFor(commodityID)
}

// RecentTrades returns the most recent executed trades, newest last.
func (s *Simulation) RecentTrades(limit int) []market.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.Trades) {
		limit = len(s.Trades)
	}
	return append([]market.Trade(nil), s.Trades[len(s.Trades)-limit:]...)
}

// RecentEvents returns the most recent events, newest last.
func (s *Simulation) RecentEvents(limit int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.Events) {
		limit = len(s.Events)
	}
	return append([]Event(nil), s.Events[len(s.Events)-limit:]...)
}

// StatsSnapshot returns the aggregate daily statistics.
func (s *Simulation) StatsSnapshot() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Stats
}

// CatalogSnapshot returns the catalogs for read access. Commodity
// prices move daily, so callers get copies.
func (s *Simulation) CatalogSnapshot() (resources, products []economy.Commodity, equipment []economy.Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.Catalog.Resources {
		resources = append(resources, *r)
	}
	for _, p := range s.Catalog.Products {
		products = append(products, *p)
	}
	for _, e := range s.Catalog.Equipment {
		equipment = append(equipment, *e)
	}
	return resources, products, equipment
}
