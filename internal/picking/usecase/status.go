package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/picking"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type statusUseCase struct {
	gateway picking.MetafieldGateway
	logger  logger.ZapLogger
}

func NewStatusUseCase(gateway picking.MetafieldGateway, log logger.ZapLogger) picking.StatusUseCase {
	return &statusUseCase{
		gateway: gateway,
		logger:  log,
	}
}

func (uc *statusUseCase) Intake(ctx context.Context, shopID, orderID string) (bool, error) {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return false, err
	}

	current, err := uc.gateway.GetPickingStatus(ctx, shopID, orderID)
	if err != nil {
		return false, err
	}
	if current != model.PickingUnset {
		uc.logger.Debug("order already has a picking status",
			zap.String("shop", shopID),
			zap.String("order", orderID),
			zap.String("status", string(current)),
		)
		return false, nil
	}

	if err := uc.write(ctx, shopID, orderID, model.PickingPending); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *statusUseCase) MarkInProgress(ctx context.Context, shopID, orderID string) error {
	return uc.write(ctx, shopID, orderID, model.PickingInProgress)
}

func (uc *statusUseCase) ResetToPending(ctx context.Context, shopID, orderID string) error {
	return uc.write(ctx, shopID, orderID, model.PickingPending)
}

func (uc *statusUseCase) SetStatus(ctx context.Context, shopID, orderID, status string) (model.PickingStatus, error) {
	id, err := requireOrderID(orderID)
	if err != nil {
		return model.PickingUnset, err
	}

	st, ok := model.ParsePickingStatus(status)
	if !ok {
		return model.PickingUnset, apperror.Validation(apperror.ReasonInvalidStatus, "Invalid status")
	}

	switch st {
	case model.PickingInProgress:
		err = uc.MarkInProgress(ctx, shopID, id)
	case model.PickingPending:
		err = uc.ResetToPending(ctx, shopID, id)
	default:
		// done has no transition of its own
		err = uc.write(ctx, shopID, id, st)
	}
	if err != nil {
		return model.PickingUnset, err
	}
	return st, nil
}

func requireOrderID(orderID string) (string, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return "", apperror.Validation(apperror.ReasonMissingOrder, "Missing orderId")
	}
	return id, nil
}

func (uc *statusUseCase) write(ctx context.Context, shopID, orderID string, st model.PickingStatus) error {
	orderID, err := requireOrderID(orderID)
	if err != nil {
		return err
	}

	if err := uc.gateway.SetPickingStatus(ctx, shopID, orderID, st); err != nil {
		uc.logger.Error("failed to write picking status",
			zap.String("shop", shopID),
			zap.String("order", orderID),
			zap.String("status", string(st)),
			zap.Error(err),
		)
		return err
	}

	uc.logger.Info("picking status written",
		zap.String("shop", shopID),
		zap.String("order", orderID),
		zap.String("status", string(st)),
	)
	return nil
}
