// Package engine ties the production economy together and advances it
// one simulated day at a time.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/factory"
	"github.com/talgya/factory-world/internal/market"
	"github.com/talgya/factory-world/internal/planner"
	"github.com/talgya/factory-world/internal/worldgen"
)

// keepEvents bounds the in-memory event and trade history (the full
// record lives in the database).
const keepEvents = 1000

// Event is a notable occurrence in the world.
type Event struct {
	Day         uint64 `json:"day"`
	Description string `json:"description"`
	Category    string `json:"category"` // "production", "trade", "market", "upgrade", "player"
}

// SimStats tracks aggregate world statistics, refreshed daily.
type SimStats struct {
	TotalBalance    float64 `json:"total_balance"`
	OpenOrders      int     `json:"open_orders"`
	TradesToday     int     `json:"trades_today"`
	ProducedToday   int     `json:"produced_today"`
	PlannersSkipped int     `json:"planners_skipped"`
}

// DayReport is what one simulated day produced, handed to the caller
// for persistence.
type DayReport struct {
	Day    uint64
	Trades []market.Trade
	Events []Event
}

// Simulation holds the complete world state and wires the daily passes
// together. All access from other goroutines (the API) goes through
// exported methods, which serialize on the internal mutex: a matching
// pass or a planner pass reads and mutates shared state as one unit.
type Simulation struct {
	mu sync.Mutex

	Catalog     *economy.Catalog
	Book        *market.Book
	Player      *factory.Factory
	AIFactories []*factory.Factory
	factoryByID map[int]*factory.Factory

	Events []Event
	Trades []market.Trade // Recent executed trades (full ledger in the DB).

	LastDay uint64
	Stats   SimStats

	prices *priceUpdater
}

// NewSimulation assembles a simulation from a generated world.
func NewSimulation(w *worldgen.World, seed int64) *Simulation {
	index := make(map[int]*factory.Factory, len(w.AIFactories)+1)
	index[w.Player.ID] = w.Player
	for _, f := range w.AIFactories {
		index[f.ID] = f
	}
	sim := &Simulation{
		Catalog:     w.Catalog,
		Book:        market.NewBook(),
		Player:      w.Player,
		AIFactories: w.AIFactories,
		factoryByID: index,
		prices:      newPriceUpdater(seed),
	}
	sim.refreshStats()
	return sim
}

// CurrentDay returns the most recently processed day.
func (s *Simulation) CurrentDay() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastDay
}

// TickDay advances the world one day: every automated factory plans
// and acts, then the market price pass runs. Planner failures skip
// that factory for the day and never halt the loop.
func (s *Simulation) TickDay(day uint64) *DayReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastDay = day
	report := &DayReport{Day: day}
	produced := 0
	skipped := 0

	for _, f := range s.AIFactories {
		turn, err := planner.RunTurn(s.Catalog, f, s.Book)
		if err != nil {
			skipped++
			slog.Warn("planner skipped factory turn", "day", day, "factory", f.ID, "error", err)
			report.Events = append(report.Events, Event{
				Day:         day,
				Description: fmt.Sprintf("factory %d skipped its turn: %v", f.ID, err),
				Category:    "production",
			})
			continue
		}
		report.Trades = append(report.Trades, turn.Trades...)
		for _, p := range turn.Produced {
			produced += p.Quantity
			name := s.commodityName(p.ProductID)
			report.Events = append(report.Events, Event{
				Day:         day,
				Description: fmt.Sprintf("factory %d produced and listed %d units of %s", f.ID, p.Quantity, name),
				Category:    "production",
			})
		}
		if turn.BoughtEquipment != nil {
			report.Events = append(report.Events, Event{
				Day:         day,
				Description: fmt.Sprintf("factory %d bought a %s (output rate %d)", f.ID, turn.BoughtEquipment.Name, turn.BoughtEquipment.OutputRate),
				Category:    "upgrade",
			})
		}
		if turn.UpgradeBlocked {
			report.Events = append(report.Events, Event{
				Day:         day,
				Description: fmt.Sprintf("factory %d cannot afford a capacity upgrade", f.ID),
				Category:    "upgrade",
			})
		}
	}

	priceEvents := s.prices.update(day, s.Catalog, s.Book)
	report.Events = append(report.Events, priceEvents...)

	s.recordTrades(day, report.Trades)
	s.Events = append(s.Events, report.Events...)
	if len(s.Events) > keepEvents {
		s.Events = s.Events[len(s.Events)-keepEvents:]
	}

	s.refreshStats()
	s.Stats.TradesToday = len(report.Trades)
	s.Stats.ProducedToday = produced
	s.Stats.PlannersSkipped = skipped

	slog.Info("daily report",
		"day", day,
		"factories", len(s.AIFactories)+1,
		"produced", produced,
		"trades", len(report.Trades),
		"skipped", skipped,
		"open_orders", s.Stats.OpenOrders,
		"total_balance", humanize.Commaf(s.Stats.TotalBalance),
	)

	return report
}

func (s *Simulation) recordTrades(day uint64, trades []market.Trade) {
	for _, t := range trades {
		s.Trades = append(s.Trades, t)
		s.Events = append(s.Events, Event{
			Day:         day,
			Description: fmt.Sprintf("%d units of %s traded at %.2f", t.Quantity, s.commodityName(t.CommodityID), t.Price),
			Category:    "trade",
		})
	}
	if len(s.Trades) > keepEvents {
		s.Trades = s.Trades[len(s.Trades)-keepEvents:]
	}
}

func (s *Simulation) refreshStats() {
	total := s.Player.Balance
	for _, f := range s.AIFactories {
		total += f.Balance
	}
	s.Stats.TotalBalance = total
	s.Stats.OpenOrders = s.Book.Len()
}

func (s *Simulation) commodityName(id int) string {
	if c, ok := s.Catalog.Commodity(id); ok {
		return c.Name
	}
	return fmt.Sprintf("commodity %d", id)
}
