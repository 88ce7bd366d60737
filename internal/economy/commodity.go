// Package economy defines the commodity, recipe, and equipment types
// shared by every part of the simulation.
package economy

// Kind distinguishes raw resources from manufactured products.
type Kind uint8

const (
	KindResource Kind = iota // Raw material: bought and sold, never produced.
	KindProduct              // Finished good: produced from a recipe.
)

// String returns the display name for a commodity kind.
func (k Kind) String() string {
	if k == KindProduct {
		return "product"
	}
	return "resource"
}

// Ingredient is one line of a production recipe.
type Ingredient struct {
	ResourceID int `json:"resource_id"`
	Quantity   int `json:"quantity"` // Required per unit produced.
}

// EquipmentReq declares equipment a product's production line calls for.
// Declared in catalog data but not enforced as a hard planning constraint;
// only aggregate output capacity limits production.
type EquipmentReq struct {
	EquipmentID int `json:"equipment_id"`
	Quantity    int `json:"quantity"`
}

// Commodity is a tradeable good. Resources carry no recipe; products
// carry a recipe and optional equipment requirements.
type Commodity struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"` // Reference price; moved by market dynamics.
	Kind  Kind    `json:"kind"`

	Recipe            []Ingredient   `json:"recipe,omitempty"`
	RequiredEquipment []EquipmentReq `json:"required_equipment,omitempty"`
}

// RecipeQuantity returns how much of the given resource one unit of this
// commodity requires, or 0 when the resource is not in the recipe.
func (c *Commodity) RecipeQuantity(resourceID int) int {
	for _, ing := range c.Recipe {
		if ing.ResourceID == resourceID {
			return ing.Quantity
		}
	}
	return 0
}

// Equipment is a catalog entry for production machinery. Owned units are
// value copies of the catalog entry; there is no per-unit identity.
type Equipment struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	OutputRate      int     `json:"output_rate"`      // Production units contributed per day.
	OperationalCost float64 `json:"operational_cost"` // Running cost per day.
}
