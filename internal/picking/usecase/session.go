package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/picking"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

type sessionUseCase struct {
	store  *picking.SessionStore
	orders picking.OrderSource
	status picking.StatusUseCase
	logger logger.ZapLogger
}

func NewSessionUseCase(store *picking.SessionStore, orders picking.OrderSource, status picking.StatusUseCase, log logger.ZapLogger) picking.SessionUseCase {
	return &sessionUseCase{
		store:  store,
		orders: orders,
		status: status,
		logger: log,
	}
}

func (uc *sessionUseCase) Open(ctx context.Context, shopID, orderID string) (picking.Progress, error) {
	o, err := uc.orders.GetOrder(ctx, shopID, orderID)
	if err != nil {
		return picking.Progress{}, err
	}
	return uc.store.Open(shopID, o).Snapshot(), nil
}

func (uc *sessionUseCase) Get(_ context.Context, shopID, sessionID string) (picking.Progress, error) {
	s, err := uc.store.Get(shopID, sessionID)
	if err != nil {
		return picking.Progress{}, err
	}
	return s.Snapshot(), nil
}

func (uc *sessionUseCase) Scan(_ context.Context, shopID, sessionID, code string) (picking.ScanResult, picking.Progress, error) {
	s, err := uc.store.Get(shopID, sessionID)
	if err != nil {
		return picking.ScanResult{}, picking.Progress{}, err
	}

	res := s.RecordScan(code)
	if res.Outcome == picking.ScanNoMatch {
		uc.logger.Debug("scan matched no line", zap.String("session", sessionID), zap.String("code", code))
	}
	return res, s.Snapshot(), nil
}

func (uc *sessionUseCase) Complete(ctx context.Context, shopID, sessionID string) (picking.Progress, error) {
	s, err := uc.store.Get(shopID, sessionID)
	if err != nil {
		return picking.Progress{}, err
	}

	p := s.Snapshot()
	if !p.AllComplete {
		return p, apperror.Validation(apperror.ReasonIncomplete, "not every line is picked")
	}
	if err := uc.status.MarkInProgress(ctx, shopID, s.OrderID); err != nil {
		return p, err
	}
	return p, nil
}

func (uc *sessionUseCase) Close(_ context.Context, shopID, sessionID string) error {
	return uc.store.Close(shopID, sessionID)
}
