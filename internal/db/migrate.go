package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS forecast_orders (
		system_number    TEXT PRIMARY KEY,
		customer_number  TEXT NOT NULL UNIQUE,
		waybill_number   TEXT NOT NULL DEFAULT '',
		channel_id       TEXT NOT NULL,
		country_code     TEXT NOT NULL,
		origin_city      TEXT NOT NULL DEFAULT '',
		destination_city TEXT NOT NULL DEFAULT '',
		payload_json     TEXT NOT NULL,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forecast_orders_waybill ON forecast_orders(waybill_number)`,
	`CREATE TABLE IF NOT EXISTS forecast_order_children (
		system_number       TEXT PRIMARY KEY,
		order_system_number TEXT NOT NULL REFERENCES forecast_orders(system_number) ON DELETE CASCADE,
		customer_number     TEXT NOT NULL,
		track_number        TEXT NOT NULL,
		seq                 INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forecast_order_children_order ON forecast_order_children(order_system_number, seq)`,
}

// Migrate creates the sandbox schema. Every statement is idempotent, so it
// is safe to run on an existing database.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
