package bin

import (
	"context"

	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/search"
)

type UseCase interface {
	EnsureBin(ctx context.Context, shopID, code string) (*model.BinLocation, error)
	Assign(ctx context.Context, input *dto.AssignInput) (*model.AssignmentResult, error)
	GetAssignment(ctx context.Context, shopID, variantGID string) (*model.VariantBin, error)
	ListBinContents(ctx context.Context, shopID, code string) ([]model.VariantBin, error)
	SearchBins(ctx context.Context, filters *dto.BinSearchFilters) ([]model.BinLocation, error)
}

// SearchIndex is the subset of the Elasticsearch client the bin use case
// needs. A nil SearchIndex disables indexing and search goes to Postgres.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResult, error)
}
