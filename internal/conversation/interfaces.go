package conversation

import (
	"context"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

//go:generate mockgen -destination=mocks/mock_collaborators.go -package=mocks -source=interfaces.go

// StaffDirectory authenticates field staff by code, ignoring case. It
// returns nil when the code is unknown.
type StaffDirectory interface {
	LookupStaff(ctx context.Context, code string) (*models.FieldStaff, error)
}

// FileStore persists uploaded files and returns their URL.
type FileStore interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
}

// Submitter hands a completed record to persistence and returns its id.
type Submitter interface {
	Submit(ctx context.Context, rec models.Record) (string, error)
}
