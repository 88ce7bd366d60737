// Package factory models a producer: balance, owned equipment, and a
// kind-keyed inventory of resources and products.
package factory

import (
	"errors"
	"fmt"

	"github.com/talgya/factory-world/internal/economy"
)

var (
	// ErrInsufficientStock is returned when a removal would drive an
	// inventory quantity negative.
	ErrInsufficientStock = errors.New("factory: insufficient stock")
	// ErrInsufficientFunds is returned when a purchase exceeds the balance.
	ErrInsufficientFunds = errors.New("factory: insufficient funds")
)

// StockKey identifies an inventory slot. A commodity id appears at most
// once per kind.
type StockKey struct {
	CommodityID int          `json:"commodity_id"`
	Kind        economy.Kind `json:"kind"`
}

// Factory is a producer agent, human-directed or automated.
type Factory struct {
	ID        int                 `json:"id"`
	Balance   float64             `json:"balance"`
	Equipment []economy.Equipment `json:"equipment"` // Multiset of catalog value copies.
	Inventory map[StockKey]int    `json:"inventory"`
}

// New creates a factory with an empty inventory.
func New(id int, balance float64) *Factory {
	return &Factory{
		ID:        id,
		Balance:   balance,
		Inventory: make(map[StockKey]int),
	}
}

// Resource returns the on-hand quantity of a resource.
func (f *Factory) Resource(id int) int {
	return f.Inventory[StockKey{CommodityID: id, Kind: economy.KindResource}]
}

// Product returns the on-hand quantity of a product.
func (f *Factory) Product(id int) int {
	return f.Inventory[StockKey{CommodityID: id, Kind: economy.KindProduct}]
}

// Add credits quantity to an inventory slot.
func (f *Factory) Add(id int, kind economy.Kind, quantity int) {
	f.Inventory[StockKey{CommodityID: id, Kind: kind}] += quantity
}

// Remove debits quantity from an inventory slot. Quantities never go
// negative; a short slot leaves the inventory untouched.
func (f *Factory) Remove(id int, kind economy.Kind, quantity int) error {
	key := StockKey{CommodityID: id, Kind: kind}
	have := f.Inventory[key]
	if have < quantity {
		return fmt.Errorf("%w: %s %d has %d, need %d", ErrInsufficientStock, kind, id, have, quantity)
	}
	f.Inventory[key] = have - quantity
	return nil
}

// Capacity is the total daily output rate over owned equipment.
func (f *Factory) Capacity() int {
	total := 0
	for _, e := range f.Equipment {
		total += e.OutputRate
	}
	return total
}

// OperatingCost is the total per-day running cost over owned equipment.
func (f *Factory) OperatingCost() float64 {
	total := 0.0
	for _, e := range f.Equipment {
		total += e.OperationalCost
	}
	return total
}

// BuyEquipment purchases quantity units of a catalog equipment entry,
// refusing before any mutation when the balance can't cover the total.
func (f *Factory) BuyEquipment(entry *economy.Equipment, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("factory: equipment quantity must be positive, got %d", quantity)
	}
	total := entry.Price * float64(quantity)
	if f.Balance < total {
		return fmt.Errorf("%w: equipment %d costs %.2f, balance %.2f", ErrInsufficientFunds, entry.ID, total, f.Balance)
	}
	f.Balance -= total
	for i := 0; i < quantity; i++ {
		f.Equipment = append(f.Equipment, *entry)
	}
	return nil
}
