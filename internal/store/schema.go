package store

import (
	"strconv"
	"strings"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// migrations run in order on open. Every statement is valid for both
// SQLite and PostgreSQL.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		code TEXT PRIMARY KEY,
		code_key TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_code_key ON customers(code_key)`,
	`CREATE TABLE IF NOT EXISTS orders (
		number TEXT PRIMARY KEY,
		number_key TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_number_key ON orders(number_key)`,
	`CREATE TABLE IF NOT EXISTS field_staff (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		account_number TEXT NOT NULL DEFAULT '',
		fields_json TEXT NOT NULL,
		source TEXT NOT NULL,
		source_file TEXT NOT NULL DEFAULT '',
		chat_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_account_number ON products(account_number)`,
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
