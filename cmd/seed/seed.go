// Package seed implements the seed command
package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/root"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/common"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// Files names the reference CSV files to load. Empty paths are skipped.
type Files struct {
	Customers  string
	Orders     string
	FieldStaff string
}

// ReferenceWriter stores reference data.
type ReferenceWriter interface {
	UpsertCustomers(ctx context.Context, customers []models.Customer) (int, error)
	UpsertOrders(ctx context.Context, orders []models.Order) (int, error)
	UpsertFieldStaff(ctx context.Context, staff []models.FieldStaff) (int, error)
}

var files Files

// Cmd represents the seed command
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference customers, orders and field staff",
	Long: `Load reference data from CSV files into the database.

Customers and field staff files need "code" and "name" columns; the orders
file needs a "number" column. Existing rows are updated.`,
	Example: `  product-intake seed --customers customers.csv --staff staff.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if files == (Files{}) {
			return fmt.Errorf("at least one of --customers, --orders or --staff is required")
		}
		c, err := root.GetContainer(cmd.Context())
		if err != nil {
			return err
		}
		return Seed(cmd.Context(), c.GetStore(), files, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVar(&files.Customers, "customers", "", "CSV file of customers (code,name)")
	Cmd.Flags().StringVar(&files.Orders, "orders", "", "CSV file of orders (number)")
	Cmd.Flags().StringVar(&files.FieldStaff, "staff", "", "CSV file of field staff (code,name)")
}

// Seed reads each configured file and upserts its rows.
func Seed(ctx context.Context, w ReferenceWriter, f Files, logger logging.Logger) error {
	logger = logging.OrDefault(logger)

	if f.Customers != "" {
		rows, err := common.ReadCSVFile[models.Customer](f.Customers, logger)
		if err != nil {
			return err
		}
		n, err := w.UpsertCustomers(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to store customers: %w", err)
		}
		logger.Info("Seeded customers", logging.F(logging.FieldCount, n))
	}

	if f.Orders != "" {
		rows, err := common.ReadCSVFile[models.Order](f.Orders, logger)
		if err != nil {
			return err
		}
		n, err := w.UpsertOrders(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to store orders: %w", err)
		}
		logger.Info("Seeded orders", logging.F(logging.FieldCount, n))
	}

	if f.FieldStaff != "" {
		rows, err := common.ReadCSVFile[models.FieldStaff](f.FieldStaff, logger)
		if err != nil {
			return err
		}
		n, err := w.UpsertFieldStaff(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to store field staff: %w", err)
		}
		logger.Info("Seeded field staff", logging.F(logging.FieldCount, n))
	}
	return nil
}
