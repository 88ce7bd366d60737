package economy

import "fmt"

// Catalog holds the world's commodity and equipment definitions with
// id-indexed lookup. Slice order carries no meaning; all access by id
// goes through the index maps.
type Catalog struct {
	Resources []*Commodity
	Products  []*Commodity
	Equipment []*Equipment

	resourceByID  map[int]*Commodity
	productByID   map[int]*Commodity
	equipmentByID map[int]*Equipment
}

// NewCatalog builds a Catalog and its lookup indexes.
func NewCatalog(resources, products []*Commodity, equipment []*Equipment) *Catalog {
	c := &Catalog{
		Resources:     resources,
		Products:      products,
		Equipment:     equipment,
		resourceByID:  make(map[int]*Commodity, len(resources)),
		productByID:   make(map[int]*Commodity, len(products)),
		equipmentByID: make(map[int]*Equipment, len(equipment)),
	}
	for _, r := range resources {
		c.resourceByID[r.ID] = r
	}
	for _, p := range products {
		c.productByID[p.ID] = p
	}
	for _, e := range equipment {
		c.equipmentByID[e.ID] = e
	}
	return c
}

// Resource looks up a resource by id.
func (c *Catalog) Resource(id int) (*Commodity, bool) {
	r, ok := c.resourceByID[id]
	return r, ok
}

// Product looks up a product by id.
func (c *Catalog) Product(id int) (*Commodity, bool) {
	p, ok := c.productByID[id]
	return p, ok
}

// Commodity looks up any commodity by id, products first.
func (c *Catalog) Commodity(id int) (*Commodity, bool) {
	if p, ok := c.productByID[id]; ok {
		return p, true
	}
	if r, ok := c.resourceByID[id]; ok {
		return r, true
	}
	return nil, false
}

// EquipmentByID looks up an equipment entry by id.
func (c *Catalog) EquipmentByID(id int) (*Equipment, bool) {
	e, ok := c.equipmentByID[id]
	return e, ok
}

// Validate checks referential integrity: every recipe ingredient must
// name a known resource and every equipment requirement a known
// equipment entry. Resources must not carry recipes.
func (c *Catalog) Validate() error {
	for _, r := range c.Resources {
		if r.Kind != KindResource {
			return fmt.Errorf("catalog: commodity %d (%s) listed as resource but has kind %s", r.ID, r.Name, r.Kind)
		}
		if len(r.Recipe) > 0 {
			return fmt.Errorf("catalog: resource %d (%s) must not have a recipe", r.ID, r.Name)
		}
	}
	for _, p := range c.Products {
		if p.Kind != KindProduct {
			return fmt.Errorf("catalog: commodity %d (%s) listed as product but has kind %s", p.ID, p.Name, p.Kind)
		}
		for _, ing := range p.Recipe {
			if _, ok := c.resourceByID[ing.ResourceID]; !ok {
				return fmt.Errorf("catalog: product %d (%s) recipe references unknown resource %d", p.ID, p.Name, ing.ResourceID)
			}
			if ing.Quantity <= 0 {
				return fmt.Errorf("catalog: product %d (%s) recipe has non-positive quantity for resource %d", p.ID, p.Name, ing.ResourceID)
			}
		}
		for _, req := range p.RequiredEquipment {
			if _, ok := c.equipmentByID[req.EquipmentID]; !ok {
				return fmt.Errorf("catalog: product %d (%s) requires unknown equipment %d", p.ID, p.Name, req.EquipmentID)
			}
		}
	}
	return nil
}
