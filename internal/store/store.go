// Package store persists reference data and accepted product records in a
// SQL database. SQLite (modernc.org/sqlite) is the default backend and
// PostgreSQL (lib/pq) is supported through the same queries.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// SQLStore implements the reference source, staff directory and record
// saver over database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
	logger logging.Logger
	now    func() time.Time
}

// Open connects to the database and applies the schema.
func Open(ctx context.Context, driver, dsn string, logger logging.Logger) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	s, err := New(ctx, db, driver, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB, driver string, logger logging.Logger) (*SQLStore, error) {
	s := &SQLStore{db: db, driver: driver, logger: logging.OrDefault(logger), now: time.Now}
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	s.logger.Debug("Database schema ready", logging.F("driver", driver))
	return s, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, rebind(s.driver, q), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, rebind(s.driver, q), args...)
}

// FindCustomersByCode returns the customers whose normalized code matches
// one of codes.
func (s *SQLStore) FindCustomersByCode(ctx context.Context, codes []string) ([]models.Customer, error) {
	keys := distinctKeys(codes, textnorm.CustomerKey)
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := s.query(ctx,
		"SELECT code, display_name FROM customers WHERE code_key IN ("+placeholders(len(keys))+") ORDER BY code",
		keys...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.Code, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindOrdersByNumber returns the orders whose normalized number matches one
// of numbers.
func (s *SQLStore) FindOrdersByNumber(ctx context.Context, numbers []string) ([]models.Order, error) {
	keys := distinctKeys(numbers, textnorm.OrderKey)
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := s.query(ctx,
		"SELECT number FROM orders WHERE number_key IN ("+placeholders(len(keys))+") ORDER BY number",
		keys...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.Number); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// FindFieldStaffByCode matches a field-staff code exactly. It returns nil
// when no staff member has the code.
func (s *SQLStore) FindFieldStaffByCode(ctx context.Context, code string) (*models.FieldStaff, error) {
	return s.findStaff(ctx, "SELECT code, name FROM field_staff WHERE code = ?", code)
}

// LookupStaff matches a field-staff code ignoring case. It is used to
// authenticate chat sessions.
func (s *SQLStore) LookupStaff(ctx context.Context, code string) (*models.FieldStaff, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	return s.findStaff(ctx, "SELECT code, name FROM field_staff WHERE LOWER(code) = LOWER(?) ORDER BY code", code)
}

func (s *SQLStore) findStaff(ctx context.Context, q, code string) (*models.FieldStaff, error) {
	var fs models.FieldStaff
	err := s.queryRow(ctx, q, code).Scan(&fs.Code, &fs.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying field staff: %w", err)
	}
	return &fs, nil
}

// FindProductByAccountNumber returns the earliest stored product with the
// account number, or nil.
func (s *SQLStore) FindProductByAccountNumber(ctx context.Context, number string) (*models.Product, error) {
	var (
		p                         models.Product
		fieldsJSON, source        string
		sourceFile, chat, created string
	)
	err := s.queryRow(ctx,
		`SELECT id, account_number, fields_json, source, source_file, chat_id, created_at
		 FROM products WHERE account_number = ? ORDER BY created_at LIMIT 1`, number).
		Scan(&p.ID, &p.AccountNumber, &fieldsJSON, &source, &sourceFile, &chat, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	fields := map[models.FieldKey]string{}
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("decoding product %s: %w", p.ID, err)
	}
	p.Record = models.Record{
		Fields: fields,
		Provenance: models.Provenance{
			Source:     models.SourceKind(source),
			SourceFile: sourceFile,
			ChatID:     chat,
		},
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}

// Save stores a record as a new product and returns its id.
func (s *SQLStore) Save(ctx context.Context, rec models.Record) (string, error) {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, rebind(s.driver,
		`INSERT INTO products (id, account_number, fields_json, source, source_file, chat_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		id,
		strings.TrimSpace(rec.Value(models.FieldNoRek)),
		string(fieldsJSON),
		string(rec.Provenance.Source),
		rec.Provenance.SourceFile,
		rec.Provenance.ChatID,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting product: %w", err)
	}
	s.logger.Debug("Saved product", logging.F("product_id", id))
	return id, nil
}

// UpsertCustomers inserts or updates customers and returns how many were
// written.
func (s *SQLStore) UpsertCustomers(ctx context.Context, customers []models.Customer) (int, error) {
	return s.upsert(ctx, "customers",
		`INSERT INTO customers (code, code_key, display_name) VALUES (?, ?, ?)
		 ON CONFLICT (code) DO UPDATE SET code_key = excluded.code_key, display_name = excluded.display_name`,
		len(customers), func(i int) ([]any, bool) {
			c := customers[i]
			code := strings.TrimSpace(c.Code)
			return []any{code, textnorm.CustomerKey(code), strings.TrimSpace(c.DisplayName)}, code != ""
		})
}

// UpsertOrders inserts orders, ignoring numbers already present.
func (s *SQLStore) UpsertOrders(ctx context.Context, orders []models.Order) (int, error) {
	return s.upsert(ctx, "orders",
		`INSERT INTO orders (number, number_key) VALUES (?, ?)
		 ON CONFLICT (number) DO UPDATE SET number_key = excluded.number_key`,
		len(orders), func(i int) ([]any, bool) {
			n := strings.TrimSpace(orders[i].Number)
			return []any{n, textnorm.OrderKey(n)}, n != ""
		})
}

// UpsertFieldStaff inserts or updates field-staff members.
func (s *SQLStore) UpsertFieldStaff(ctx context.Context, staff []models.FieldStaff) (int, error) {
	return s.upsert(ctx, "field_staff",
		`INSERT INTO field_staff (code, name) VALUES (?, ?)
		 ON CONFLICT (code) DO UPDATE SET name = excluded.name`,
		len(staff), func(i int) ([]any, bool) {
			code := strings.TrimSpace(staff[i].Code)
			return []any{code, strings.TrimSpace(staff[i].Name)}, code != ""
		})
}

// upsert runs stmt once per row inside a transaction. Rows for which args
// reports false are skipped.
func (s *SQLStore) upsert(ctx context.Context, table, stmt string, n int, args func(int) ([]any, bool)) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.PrepareContext(ctx, rebind(s.driver, stmt))
	if err != nil {
		return 0, fmt.Errorf("preparing %s upsert: %w", table, err)
	}
	defer prepared.Close()

	written := 0
	for i := 0; i < n; i++ {
		a, ok := args(i)
		if !ok {
			continue
		}
		if _, err := prepared.ExecContext(ctx, a...); err != nil {
			return 0, fmt.Errorf("upserting %s row %d: %w", table, i, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %s: %w", table, err)
	}
	s.logger.Info("Seeded reference data",
		logging.F("table", table),
		logging.F(logging.FieldCount, written))
	return written, nil
}

func distinctKeys(values []string, key func(string) string) []any {
	seen := make(map[string]bool)
	var out []any
	for _, v := range values {
		k := key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
