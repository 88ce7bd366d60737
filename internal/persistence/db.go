// Package persistence provides the SQLite history sink: daily factory
// snapshots, the executed-trade ledger, events, and run metadata. The
// store is write-only during a run; simulation state is never restored
// from it.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/factory-world/internal/engine"
	"github.com/talgya/factory-world/internal/market"
)

// DB wraps a SQLite connection for simulation history storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS factory_snapshots (
		day INTEGER NOT NULL,
		factory_id INTEGER NOT NULL,
		balance REAL NOT NULL,
		capacity INTEGER NOT NULL,
		operating_cost REAL NOT NULL,
		equipment_json TEXT NOT NULL,
		inventory_json TEXT NOT NULL,
		PRIMARY KEY (day, factory_id)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		commodity_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		buy_order_id INTEGER NOT NULL,
		sell_order_id INTEGER NOT NULL,
		buyer_id INTEGER NOT NULL,
		seller_id INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_snapshots (
		day INTEGER NOT NULL,
		order_id INTEGER NOT NULL,
		commodity_id INTEGER NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		owner_id INTEGER NOT NULL,
		PRIMARY KEY (day, order_id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_day ON trades(day);
	CREATE INDEX IF NOT EXISTS idx_trades_commodity ON trades(commodity_id);
	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveDay records one day's outcome: factory snapshots, executed
// trades, the open-book snapshot, and events, in a single transaction.
func (db *DB) SaveDay(report *engine.DayReport, factories []engine.FactorySnapshot, orders []market.Order) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range factories {
		equipJSON, _ := json.Marshal(f.Equipment)
		invJSON, _ := json.Marshal(f.Inventory)
		_, err := tx.Exec(`INSERT OR REPLACE INTO factory_snapshots
			(day, factory_id, balance, capacity, operating_cost, equipment_json, inventory_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.Day, f.ID, f.Balance, f.Capacity, f.OperatingCost,
			string(equipJSON), string(invJSON),
		)
		if err != nil {
			return fmt.Errorf("insert factory %d snapshot: %w", f.ID, err)
		}
	}

	for _, t := range report.Trades {
		_, err := tx.Exec(`INSERT OR IGNORE INTO trades
			(id, day, commodity_id, quantity, price, buy_order_id, sell_order_id, buyer_id, seller_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, report.Day, t.CommodityID, t.Quantity, t.Price,
			t.BuyOrderID, t.SellOrderID, t.BuyerID, t.SellerID,
		)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}

	for _, o := range orders {
		_, err := tx.Exec(`INSERT OR REPLACE INTO order_snapshots
			(day, order_id, commodity_id, side, price, quantity, owner_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.Day, o.ID, o.CommodityID, o.Side.String(), o.Price, o.Quantity, o.OwnerID,
		)
		if err != nil {
			return fmt.Errorf("insert order %d snapshot: %w", o.ID, err)
		}
	}

	for _, e := range report.Events {
		if _, err := tx.Exec(`INSERT INTO events (day, description, category) VALUES (?, ?, ?)`,
			e.Day, e.Description, e.Category); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_day', ?)`,
		fmt.Sprintf("%d", report.Day)); err != nil {
		return err
	}

	return tx.Commit()
}

// SetMeta stores a metadata key/value pair.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetMeta reads a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, `SELECT value FROM meta WHERE key = ?`, key)
	return value, err
}

// TradeCount returns the number of ledgered trades.
func (db *DB) TradeCount() (int, error) {
	var n int
	err := db.conn.Get(&n, `SELECT COUNT(*) FROM trades`)
	return n, err
}
