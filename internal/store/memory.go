package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// MemoryStore is an in-memory implementation of the same interfaces as
// SQLStore. It backs dry runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	Customers []models.Customer
	Orders    []models.Order
	Staff     []models.FieldStaff
	Products  []models.Product

	// Error flags for testing error conditions
	FindError error
	SaveError error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FindCustomersByCode returns customers whose normalized code matches.
func (m *MemoryStore) FindCustomersByCode(_ context.Context, codes []string) ([]models.Customer, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := keySet(codes, textnorm.CustomerKey)
	var out []models.Customer
	for _, c := range m.Customers {
		if want[textnorm.CustomerKey(c.Code)] {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindOrdersByNumber returns orders whose normalized number matches.
func (m *MemoryStore) FindOrdersByNumber(_ context.Context, numbers []string) ([]models.Order, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := keySet(numbers, textnorm.OrderKey)
	var out []models.Order
	for _, o := range m.Orders {
		if want[textnorm.OrderKey(o.Number)] {
			out = append(out, o)
		}
	}
	return out, nil
}

// FindFieldStaffByCode matches a code exactly.
func (m *MemoryStore) FindFieldStaffByCode(_ context.Context, code string) (*models.FieldStaff, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.Staff {
		if s.Code == code {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

// LookupStaff matches a code ignoring case.
func (m *MemoryStore) LookupStaff(_ context.Context, code string) (*models.FieldStaff, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.Staff {
		if strings.EqualFold(s.Code, code) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

// FindProductByAccountNumber returns the first product with the account
// number.
func (m *MemoryStore) FindProductByAccountNumber(_ context.Context, number string) (*models.Product, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.Products {
		if p.AccountNumber == number {
			p := p
			p.Record = p.Record.Clone()
			return &p, nil
		}
	}
	return nil, nil
}

// Save appends a product.
func (m *MemoryStore) Save(_ context.Context, rec models.Record) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.Products = append(m.Products, models.Product{
		ID:            id,
		AccountNumber: strings.TrimSpace(rec.Value(models.FieldNoRek)),
		Record:        rec.Clone(),
		CreatedAt:     time.Now().UTC(),
	})
	return id, nil
}

// UpsertCustomers replaces customers by code.
func (m *MemoryStore) UpsertCustomers(_ context.Context, customers []models.Customer) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range customers {
		if strings.TrimSpace(c.Code) == "" {
			continue
		}
		m.Customers = upsertBy(m.Customers, c, func(x models.Customer) bool { return x.Code == c.Code })
		n++
	}
	return n, nil
}

// UpsertOrders adds orders not yet present.
func (m *MemoryStore) UpsertOrders(_ context.Context, orders []models.Order) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range orders {
		if strings.TrimSpace(o.Number) == "" {
			continue
		}
		m.Orders = upsertBy(m.Orders, o, func(x models.Order) bool { return x.Number == o.Number })
		n++
	}
	return n, nil
}

// UpsertFieldStaff replaces field staff by code.
func (m *MemoryStore) UpsertFieldStaff(_ context.Context, staff []models.FieldStaff) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range staff {
		if strings.TrimSpace(s.Code) == "" {
			continue
		}
		m.Staff = upsertBy(m.Staff, s, func(x models.FieldStaff) bool { return x.Code == s.Code })
		n++
	}
	return n, nil
}

// ProductIDs returns the ids of saved products, sorted.
func (m *MemoryStore) ProductIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, len(m.Products))
	for i, p := range m.Products {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return ids
}

func upsertBy[T any](list []T, v T, match func(T) bool) []T {
	for i := range list {
		if match(list[i]) {
			list[i] = v
			return list
		}
	}
	return append(list, v)
}

func keySet(values []string, key func(string) string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if k := key(v); k != "" {
			out[k] = true
		}
	}
	return out
}
