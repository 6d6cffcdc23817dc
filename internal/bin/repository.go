package bin

import (
	"context"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

type Repository interface {
	// UpsertBin returns the bin for (shopID, code), creating it when absent.
	// created reports whether this call inserted the row.
	UpsertBin(ctx context.Context, shopID, code string) (bin *model.BinLocation, created bool, err error)

	// AssignVariant points the variant at bin. The existing-assignment check
	// and the write run in one transaction serialized per (shopID, variantGID).
	AssignVariant(ctx context.Context, shopID, variantGID string, bin *model.BinLocation) (*model.AssignmentResult, error)

	GetAssignment(ctx context.Context, shopID, variantGID string) (*model.VariantBin, error)
	ListByBinCode(ctx context.Context, shopID, code string) ([]model.VariantBin, error)
	SearchBins(ctx context.Context, shopID, prefix string, limit int) ([]model.BinLocation, error)
}
