package reconciler

import (
	"context"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// ReferenceSource supplies the reference data a batch is reconciled against.
// Implementations return nil (not an error) for lookups that find nothing.
//
//go:generate mockgen -destination=mocks/mock_reference_source.go -package=mocks -source=interface.go ReferenceSource
type ReferenceSource interface {
	FindCustomersByCode(ctx context.Context, codes []string) ([]models.Customer, error)
	FindOrdersByNumber(ctx context.Context, numbers []string) ([]models.Order, error)
	FindFieldStaffByCode(ctx context.Context, code string) (*models.FieldStaff, error)
	FindProductByAccountNumber(ctx context.Context, number string) (*models.Product, error)
}
