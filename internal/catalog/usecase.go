package catalog

import (
	"context"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

type UseCase interface {
	// FindByBarcode resolves a scanned barcode to exactly one catalog variant.
	// Zero matches fail with *apperror.NotFoundError, several with
	// *apperror.AmbiguousMatchError carrying every candidate.
	FindByBarcode(ctx context.Context, shopID, barcode string) (*model.CatalogVariant, error)

	// AssignByBarcode resolves the barcode and files the variant into binCode.
	AssignByBarcode(ctx context.Context, shopID, barcode, binCode string) (*model.CatalogVariant, *model.AssignmentResult, error)
}

// Gateway is the catalog query the resolver reads through.
type Gateway interface {
	FindVariantsByBarcode(ctx context.Context, shopID, barcode string) ([]model.CatalogVariant, error)
}
