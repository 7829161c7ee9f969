package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tillpoint/internal/domain"
)

// Collection names in the local store. Each holds one serialized blob,
// read at startup and rewritten wholesale on every mutating operation.
const (
	colProducts = "products"
	colOrders   = "orders"
	colSettings = "settings"
)

// Local is the durable key-value store backing the till when the remote
// database is unreachable or unconfigured.
type Local struct{ db *sqlx.DB }

func OpenLocal(dsn string) (*Local, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &Local{db: db}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS collections(
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func (l *Local) Close() error { return l.db.Close() }

func (l *Local) get(name string, out any) (bool, error) {
	var raw string
	err := l.db.Get(&raw, `SELECT value FROM collections WHERE name = ?`, name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(raw), out)
}

func (l *Local) put(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(`
		INSERT INTO collections(name, value, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (l *Local) Products() ([]domain.Product, error) {
	var out []domain.Product
	if _, err := l.get(colProducts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Local) SaveProducts(products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return l.put(colProducts, products)
}

func (l *Local) Orders() ([]domain.Order, error) {
	var out []domain.Order
	if _, err := l.get(colOrders, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Local) SaveOrders(orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return l.put(colOrders, orders)
}

// Settings returns the stored settings and whether any were saved before.
func (l *Local) Settings() (domain.Settings, bool, error) {
	var s domain.Settings
	ok, err := l.get(colSettings, &s)
	return s, ok, err
}

func (l *Local) SaveSettings(s domain.Settings) error {
	return l.put(colSettings, s)
}
