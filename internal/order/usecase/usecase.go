package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/order"
	"github.com/fekuna/omnipos-picking-service/internal/order/dto"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-picking-service/internal/platform"
)

type orderUseCase struct {
	gateway order.Gateway
	logger  logger.ZapLogger
}

func NewOrderUseCase(gateway order.Gateway, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		gateway: gateway,
		logger:  log,
	}
}

func (uc *orderUseCase) ListOrders(ctx context.Context, shopID string, filters *dto.OrderFilters) ([]model.Order, dto.OrderFilters, error) {
	applied := order.NormalizeFilters(filters)

	orders, err := uc.gateway.ListOrders(ctx, shopID, platform.OrderPageSize)
	if err != nil {
		uc.logger.Error("failed to list orders", zap.String("shop", shopID), zap.Error(err))
		return nil, applied, err
	}

	out := order.ApplyFilters(orders, applied)
	order.SortByPickingRank(out)

	uc.logger.Debug("orders listed",
		zap.String("shop", shopID),
		zap.Int("fetched", len(orders)),
		zap.Int("returned", len(out)),
		zap.String("fulfillment", applied.Fulfillment),
		zap.String("status", applied.Picking),
	)
	return out, applied, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, shopID, orderID string) (*model.Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, apperror.Validation(apperror.ReasonMissingOrder, "order id is required")
	}

	o, err := uc.gateway.GetOrder(ctx, shopID, id)
	if err != nil {
		uc.logger.Error("failed to get order", zap.String("shop", shopID), zap.String("order", id), zap.Error(err))
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	return o, nil
}
