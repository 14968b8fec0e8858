package intake

//go:generate mockgen -destination=mocks/mock_record_saver.go -package=mocks github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake RecordSaver

import (
	"context"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// RecordSaver persists accepted product records and returns their ids.
type RecordSaver interface {
	Save(ctx context.Context, rec models.Record) (string, error)
}
