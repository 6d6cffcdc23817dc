// Package intake seeds the picking status of newly created orders. Order
// creation arrives either as a platform webhook or as a relayed Kafka event;
// both end up in Processor.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/picking"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const (
	orderGIDPrefix = "gid://shopify/Order/"
	dedupKeyPrefix = "picking:intake:"
	DedupTTL       = 24 * time.Hour
)

type Result string

const (
	ResultApplied    Result = "applied"
	ResultAlreadySet Result = "already_set"
	ResultDuplicate  Result = "duplicate"
	ResultIgnored    Result = "ignored"
	ResultFailed     Result = "failed"
)

// Deduper claims delivery ids. A nil Deduper disables deduplication.
type Deduper interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, key string) error
}

type Delivery struct {
	ShopID     string
	DeliveryID string
	Payload    []byte
}

type Processor struct {
	status picking.StatusUseCase
	dedup  Deduper
	logger logger.ZapLogger
}

func NewProcessor(status picking.StatusUseCase, dedup Deduper, log logger.ZapLogger) *Processor {
	return &Processor{
		status: status,
		dedup:  dedup,
		logger: log,
	}
}

// Process never returns an error; failures are logged and reported through
// the Result only.
func (p *Processor) Process(ctx context.Context, d Delivery) Result {
	log := p.logger.With(zap.String("shop", d.ShopID), zap.String("delivery", d.DeliveryID))

	if !auth.ValidShop(d.ShopID) {
		log.Warn("order intake ignored: invalid shop domain")
		return ResultIgnored
	}
	orderID, ok := OrderGID(d.Payload)
	if !ok {
		log.Warn("order intake ignored: missing order id")
		return ResultIgnored
	}
	log = log.With(zap.String("order", orderID))

	key := ""
	if p.dedup != nil && d.DeliveryID != "" {
		key = dedupKeyPrefix + d.ShopID + ":" + d.DeliveryID
		fresh, err := p.dedup.MarkOnce(ctx, key, DedupTTL)
		switch {
		case err != nil:
			// fall through and process; the status write is idempotent
			log.Warn("dedup unavailable", zap.Error(err))
			key = ""
		case !fresh:
			log.Info("duplicate order delivery skipped")
			return ResultDuplicate
		}
	}

	applied, err := p.status.Intake(ctx, d.ShopID, orderID)
	if err != nil {
		log.Error("order intake failed", zap.Error(err))
		if key != "" {
			if ferr := p.dedup.Forget(ctx, key); ferr != nil {
				log.Warn("failed to release dedup key", zap.Error(ferr))
			}
		}
		return ResultFailed
	}

	if !applied {
		log.Debug("order already has a picking status")
		return ResultAlreadySet
	}
	log.Info("order marked pending")
	return ResultApplied
}

type orderPayload struct {
	AdminGraphQLAPIID string          `json:"admin_graphql_api_id"`
	ID                json.RawMessage `json:"id"`
}

// OrderGID extracts the order gid from an order payload, preferring
// admin_graphql_api_id and falling back to the numeric id.
func OrderGID(payload []byte) (string, bool) {
	var p orderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", false
	}

	if gid := strings.TrimSpace(p.AdminGraphQLAPIID); gid != "" {
		return gid, true
	}

	raw := bytes.Trim(bytes.TrimSpace(p.ID), `"`)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	return orderGIDPrefix + string(raw), true
}
