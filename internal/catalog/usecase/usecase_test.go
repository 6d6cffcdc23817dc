package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const shop = "acme.myshopify.com"

type fakeGateway struct {
	byBarcode map[string][]model.CatalogVariant
	err       error
	calls     []string
}

func (f *fakeGateway) FindVariantsByBarcode(_ context.Context, _ string, barcode string) ([]model.CatalogVariant, error) {
	f.calls = append(f.calls, barcode)
	if f.err != nil {
		return nil, f.err
	}
	return f.byBarcode[barcode], nil
}

type fakeBins struct {
	last *dto.AssignInput
	err  error
}

func (f *fakeBins) EnsureBin(context.Context, string, string) (*model.BinLocation, error) {
	return nil, errors.New("not used")
}

func (f *fakeBins) Assign(_ context.Context, in *dto.AssignInput) (*model.AssignmentResult, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &model.AssignmentResult{Status: model.AssignmentCreated, Bin: &model.BinLocation{Code: in.BinCode}, VariantGID: in.VariantGID}, nil
}

func (f *fakeBins) GetAssignment(context.Context, string, string) (*model.VariantBin, error) {
	return nil, nil
}

func (f *fakeBins) ListBinContents(context.Context, string, string) ([]model.VariantBin, error) {
	return nil, nil
}

func (f *fakeBins) SearchBins(context.Context, *dto.BinSearchFilters) ([]model.BinLocation, error) {
	return nil, nil
}

func gateway() *fakeGateway {
	return &fakeGateway{byBarcode: map[string][]model.CatalogVariant{
		"123456": {{ID: "gid://shopify/ProductVariant/1", Title: "Red"}},
		"000111": {
			{ID: "gid://shopify/ProductVariant/2", Title: "Blue S"},
			{ID: "gid://shopify/ProductVariant/3", Title: "Blue M"},
		},
	}}
}

func TestFindByBarcode(t *testing.T) {
	gw := gateway()
	uc := NewCatalogUseCase(gw, &fakeBins{}, logger.NewNop())
	ctx := context.Background()

	t.Run("single match", func(t *testing.T) {
		v, err := uc.FindByBarcode(ctx, shop, " 123456\n")
		require.NoError(t, err)
		assert.Equal(t, "gid://shopify/ProductVariant/1", v.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := uc.FindByBarcode(ctx, shop, "999999")
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("ambiguous carries every candidate", func(t *testing.T) {
		_, err := uc.FindByBarcode(ctx, shop, "000111")
		var amb *apperror.AmbiguousMatchError
		require.ErrorAs(t, err, &amb)
		assert.Len(t, amb.Candidates, 2)
		assert.Equal(t, "000111", amb.Barcode)
	})

	t.Run("empty barcode never queries", func(t *testing.T) {
		before := len(gw.calls)
		_, err := uc.FindByBarcode(ctx, shop, "   ")
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, apperror.ReasonMissingBarcode, verr.Reason)
		assert.Len(t, gw.calls, before)
	})
}

func TestFindByBarcode_NoCaching(t *testing.T) {
	gw := gateway()
	uc := NewCatalogUseCase(gw, &fakeBins{}, logger.NewNop())

	for i := 0; i < 3; i++ {
		_, err := uc.FindByBarcode(context.Background(), shop, "123456")
		require.NoError(t, err)
	}
	assert.Len(t, gw.calls, 3)
}

func TestFindByBarcode_ExternalErrorPassesThrough(t *testing.T) {
	gw := &fakeGateway{err: apperror.External("productVariants", errors.New("timeout"))}
	uc := NewCatalogUseCase(gw, &fakeBins{}, logger.NewNop())

	_, err := uc.FindByBarcode(context.Background(), shop, "123456")
	assert.True(t, apperror.IsExternal(err))
	assert.Len(t, gw.calls, 1)
}

func TestAssignByBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves then assigns", func(t *testing.T) {
		bins := &fakeBins{}
		uc := NewCatalogUseCase(gateway(), bins, logger.NewNop())

		v, res, err := uc.AssignByBarcode(ctx, shop, "123456", "A1")
		require.NoError(t, err)
		assert.Equal(t, "gid://shopify/ProductVariant/1", v.ID)
		assert.Equal(t, model.AssignmentCreated, res.Status)
		assert.Equal(t, "gid://shopify/ProductVariant/1", bins.last.VariantGID)
		assert.Equal(t, shop, bins.last.ShopID)
	})

	t.Run("ambiguous barcode assigns nothing", func(t *testing.T) {
		bins := &fakeBins{}
		uc := NewCatalogUseCase(gateway(), bins, logger.NewNop())

		_, _, err := uc.AssignByBarcode(ctx, shop, "000111", "A1")
		assert.True(t, apperror.IsAmbiguous(err))
		assert.Nil(t, bins.last)
	})

	t.Run("missing bin skips the catalog", func(t *testing.T) {
		gw := gateway()
		uc := NewCatalogUseCase(gw, &fakeBins{}, logger.NewNop())

		_, _, err := uc.AssignByBarcode(ctx, shop, "123456", " ")
		assert.True(t, apperror.IsValidation(err))
		assert.Empty(t, gw.calls)
	})
}
