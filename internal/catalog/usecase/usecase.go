package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/bin"
	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/catalog"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	gateway catalog.Gateway
	bins    bin.UseCase
	logger  logger.ZapLogger
}

func NewCatalogUseCase(gateway catalog.Gateway, bins bin.UseCase, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		gateway: gateway,
		bins:    bins,
		logger:  log,
	}
}

// FindByBarcode is a read-through lookup: every call queries the catalog.
func (uc *catalogUseCase) FindByBarcode(ctx context.Context, shopID, barcode string) (*model.CatalogVariant, error) {
	clean := strings.TrimSpace(barcode)
	if clean == "" {
		return nil, apperror.Validation(apperror.ReasonMissingBarcode, "barcode is required")
	}

	variants, err := uc.gateway.FindVariantsByBarcode(ctx, shopID, clean)
	if err != nil {
		uc.logger.Error("catalog lookup failed", zap.String("shop", shopID), zap.String("barcode", clean), zap.Error(err))
		return nil, err
	}

	switch len(variants) {
	case 0:
		return nil, apperror.NotFound("variant", clean)
	case 1:
		return &variants[0], nil
	default:
		uc.logger.Warn("barcode shared by several variants",
			zap.String("shop", shopID),
			zap.String("barcode", clean),
			zap.Int("matches", len(variants)),
		)
		return nil, &apperror.AmbiguousMatchError{Barcode: clean, Candidates: variants}
	}
}

func (uc *catalogUseCase) AssignByBarcode(ctx context.Context, shopID, barcode, binCode string) (*model.CatalogVariant, *model.AssignmentResult, error) {
	// Reject an empty bin before spending a catalog round trip.
	if strings.TrimSpace(binCode) == "" {
		return nil, nil, apperror.Validation(apperror.ReasonMissingBin, "bin code is required")
	}

	variant, err := uc.FindByBarcode(ctx, shopID, barcode)
	if err != nil {
		return nil, nil, err
	}

	res, err := uc.bins.Assign(ctx, &dto.AssignInput{
		ShopID:     shopID,
		VariantGID: variant.ID,
		BinCode:    binCode,
	})
	if err != nil {
		return variant, nil, err
	}
	return variant, res, nil
}
