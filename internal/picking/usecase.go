package picking

import (
	"context"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

// StatusUseCase drives the picking.status metafield of an order. Writes are
// last-write-wins; the guards live in the transitions, not in the write.
type StatusUseCase interface {
	// Intake seeds pending on a new order unless a status is already set.
	// applied reports whether a write happened.
	Intake(ctx context.Context, shopID, orderID string) (applied bool, err error)
	MarkInProgress(ctx context.Context, shopID, orderID string) error
	ResetToPending(ctx context.Context, shopID, orderID string) error
	SetStatus(ctx context.Context, shopID, orderID, status string) (model.PickingStatus, error)
}

type SessionUseCase interface {
	Open(ctx context.Context, shopID, orderID string) (Progress, error)
	Get(ctx context.Context, shopID, sessionID string) (Progress, error)
	Scan(ctx context.Context, shopID, sessionID, code string) (ScanResult, Progress, error)
	// Complete marks the order in_progress once every line is picked.
	Complete(ctx context.Context, shopID, sessionID string) (Progress, error)
	Close(ctx context.Context, shopID, sessionID string) error
}

// MetafieldGateway reads and writes the picking metafield on the platform.
type MetafieldGateway interface {
	GetPickingStatus(ctx context.Context, shopID, orderID string) (model.PickingStatus, error)
	SetPickingStatus(ctx context.Context, shopID, orderID string, status model.PickingStatus) error
}

// OrderSource loads an order with its line items.
type OrderSource interface {
	GetOrder(ctx context.Context, shopID, orderID string) (*model.Order, error)
}
