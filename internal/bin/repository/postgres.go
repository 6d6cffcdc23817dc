package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type binRow struct {
	model.BinLocation
	Inserted bool `db:"inserted"`
}

func (r *PGRepository) UpsertBin(ctx context.Context, shopID, code string) (*model.BinLocation, bool, error) {
	// DO UPDATE (rather than DO NOTHING) so RETURNING always yields the row;
	// xmax = 0 only for a freshly inserted tuple.
	query := `
        INSERT INTO bin_locations (id, shop_id, code, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        ON CONFLICT (shop_id, code)
        DO UPDATE SET code = EXCLUDED.code
        RETURNING id, shop_id, code, created_at, updated_at, (xmax = 0) AS inserted
    `
	var row binRow
	err := r.DB.GetContext(ctx, &row, query, uuid.New().String(), shopID, code, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("upsert bin: %w", err)
	}
	return &row.BinLocation, row.Inserted, nil
}

const selectAssignment = `
        SELECT vb.id, vb.shop_id, vb.variant_gid, vb.bin_location_id,
               vb.created_at, vb.updated_at, b.code AS bin_code
        FROM variant_bins vb
        JOIN bin_locations b ON b.id = vb.bin_location_id
`

func (r *PGRepository) AssignVariant(ctx context.Context, shopID, variantGID string, bin *model.BinLocation) (*model.AssignmentResult, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback()

	// Serializes concurrent assignments of the same variant, including the
	// first one when no row exists yet to lock.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, shopID+"|"+variantGID); err != nil {
		return nil, fmt.Errorf("lock variant: %w", err)
	}

	var existing model.VariantBin
	found := true
	err = tx.GetContext(ctx, &existing, selectAssignment+` WHERE vb.shop_id = $1 AND vb.variant_gid = $2`, shopID, variantGID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load assignment: %w", err)
		}
		found = false
	}

	result := &model.AssignmentResult{Bin: bin, VariantGID: variantGID}

	if found && existing.BinLocationID == bin.ID {
		result.Status = model.AssignmentUnchanged
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit assign tx: %w", err)
		}
		return result, nil
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO variant_bins (id, shop_id, variant_gid, bin_location_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)
        ON CONFLICT (shop_id, variant_gid)
        DO UPDATE SET
            bin_location_id = EXCLUDED.bin_location_id,
            updated_at = EXCLUDED.updated_at
    `, uuid.New().String(), shopID, variantGID, bin.ID, now)
	if err != nil {
		return nil, fmt.Errorf("upsert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}

	if found {
		prev := existing.BinCode
		result.Status = model.AssignmentUpdated
		result.PreviousBinCode = &prev
	} else {
		result.Status = model.AssignmentCreated
	}
	return result, nil
}

func (r *PGRepository) GetAssignment(ctx context.Context, shopID, variantGID string) (*model.VariantBin, error) {
	var vb model.VariantBin
	err := r.DB.GetContext(ctx, &vb, selectAssignment+` WHERE vb.shop_id = $1 AND vb.variant_gid = $2`, shopID, variantGID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &vb, nil
}

func (r *PGRepository) ListByBinCode(ctx context.Context, shopID, code string) ([]model.VariantBin, error) {
	items := []model.VariantBin{}
	err := r.DB.SelectContext(ctx, &items,
		selectAssignment+` WHERE vb.shop_id = $1 AND b.code = $2 ORDER BY vb.updated_at DESC`,
		shopID, code)
	return items, err
}

func (r *PGRepository) SearchBins(ctx context.Context, shopID, prefix string, limit int) ([]model.BinLocation, error) {
	bins := []model.BinLocation{}
	err := r.DB.SelectContext(ctx, &bins, `
        SELECT id, shop_id, code, created_at, updated_at
        FROM bin_locations
        WHERE shop_id = $1 AND code ILIKE $2 ESCAPE '\'
        ORDER BY code ASC
        LIMIT $3
    `, shopID, escapeLike(prefix)+"%", limit)
	return bins, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
