package order

import (
	"context"

	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/order/dto"
)

type UseCase interface {
	// ListOrders returns the most recent orders, filtered and ranked for
	// picking, along with the filters that were actually applied.
	ListOrders(ctx context.Context, shopID string, filters *dto.OrderFilters) ([]model.Order, dto.OrderFilters, error)
	GetOrder(ctx context.Context, shopID, orderID string) (*model.Order, error)
}

// Gateway is the order feed of the hosted platform.
type Gateway interface {
	ListOrders(ctx context.Context, shopID string, limit int) ([]model.Order, error)
	GetOrder(ctx context.Context, shopID, orderID string) (*model.Order, error)
}
