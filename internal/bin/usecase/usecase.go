package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/bin"
	"github.com/fekuna/omnipos-picking-service/internal/bin/dto"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	binIndexName = "bin_locations"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

const binIndexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"shop_id": { "type": "keyword" },
			"code": { "type": "keyword" },
			"created_at": { "type": "date" },
			"updated_at": { "type": "date" }
		}
	}
}`

type binUseCase struct {
	repo   bin.Repository
	index  bin.SearchIndex
	logger logger.ZapLogger
}

func NewBinUseCase(repo bin.Repository, index bin.SearchIndex, log logger.ZapLogger) bin.UseCase {
	return &binUseCase{
		repo:   repo,
		index:  index,
		logger: log,
	}
}

func (uc *binUseCase) EnsureBin(ctx context.Context, shopID, code string) (*model.BinLocation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.Validation(apperror.ReasonMissingBin, "bin code is required")
	}

	b, created, err := uc.repo.UpsertBin(ctx, shopID, code)
	if err != nil {
		return nil, err
	}

	if created {
		uc.logger.Info("bin created", zap.String("shop", shopID), zap.String("code", b.Code))
		go uc.syncToElastic(context.Background(), b)
	}
	return b, nil
}

func (uc *binUseCase) Assign(ctx context.Context, input *dto.AssignInput) (*model.AssignmentResult, error) {
	variantGID := strings.TrimSpace(input.VariantGID)
	code := strings.TrimSpace(input.BinCode)

	if variantGID == "" {
		return nil, apperror.Validation(apperror.ReasonMissingVariant, "variant id is required")
	}
	if code == "" {
		return nil, apperror.Validation(apperror.ReasonMissingBin, "bin code is required")
	}

	b, err := uc.EnsureBin(ctx, input.ShopID, code)
	if err != nil {
		return nil, err
	}

	res, err := uc.repo.AssignVariant(ctx, input.ShopID, variantGID, b)
	if err != nil {
		uc.logger.Error("failed to assign variant to bin",
			zap.String("shop", input.ShopID),
			zap.String("variant_gid", variantGID),
			zap.String("bin", code),
			zap.Error(err),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("shop", input.ShopID),
		zap.String("variant_gid", variantGID),
		zap.String("bin", b.Code),
		zap.String("status", string(res.Status)),
	}
	if res.PreviousBinCode != nil {
		fields = append(fields, zap.String("previous_bin", *res.PreviousBinCode))
	}
	uc.logger.Info("variant bin assignment", fields...)

	return res, nil
}

func (uc *binUseCase) GetAssignment(ctx context.Context, shopID, variantGID string) (*model.VariantBin, error) {
	variantGID = strings.TrimSpace(variantGID)
	if variantGID == "" {
		return nil, apperror.Validation(apperror.ReasonMissingVariant, "variant id is required")
	}

	vb, err := uc.repo.GetAssignment(ctx, shopID, variantGID)
	if err != nil {
		return nil, err
	}
	if vb == nil {
		return nil, apperror.NotFound("assignment", variantGID)
	}
	return vb, nil
}

func (uc *binUseCase) ListBinContents(ctx context.Context, shopID, code string) ([]model.VariantBin, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.Validation(apperror.ReasonMissingBin, "bin code is required")
	}
	return uc.repo.ListByBinCode(ctx, shopID, code)
}

func (uc *binUseCase) SearchBins(ctx context.Context, f *dto.BinSearchFilters) ([]model.BinLocation, error) {
	query := strings.TrimSpace(f.Query)
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if uc.index != nil {
		bins, err := uc.searchElastic(ctx, f.ShopID, query, limit)
		if err == nil {
			return bins, nil
		}
		uc.logger.Error("ES bin search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.SearchBins(ctx, f.ShopID, query, limit)
}

func (uc *binUseCase) searchElastic(ctx context.Context, shopID, prefix string, limit int) ([]model.BinLocation, error) {
	must := []map[string]interface{}{
		{"term": map[string]interface{}{"shop_id": shopID}},
	}
	if prefix != "" {
		must = append(must, map[string]interface{}{
			"prefix": map[string]interface{}{
				"code": map[string]interface{}{"value": prefix, "case_insensitive": true},
			},
		})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{{"code": "asc"}},
		"size": limit,
	}

	res, err := uc.index.Search(ctx, binIndexName, q)
	if err != nil {
		return nil, err
	}

	bins := make([]model.BinLocation, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var b model.BinLocation
		if err := json.Unmarshal(hit.Source, &b); err != nil {
			uc.logger.Warn("skipping malformed bin document", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		bins = append(bins, b)
	}
	return bins, nil
}

func (uc *binUseCase) syncToElastic(ctx context.Context, b *model.BinLocation) {
	if uc.index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Lazily ensure the index exists; a 400 for an existing index is ignored.
	_ = uc.index.CreateIndex(ctx, binIndexName, binIndexMapping)

	if err := uc.index.Index(ctx, binIndexName, b.ID, b); err != nil {
		uc.logger.Error("failed to index bin", zap.String("code", b.Code), zap.Error(err))
	}
}
