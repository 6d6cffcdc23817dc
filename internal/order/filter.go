package order

import (
	"sort"
	"strings"

	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/order/dto"
)

// NormalizeFilters lowercases both filters and replaces unknown values
// with "all".
func NormalizeFilters(f *dto.OrderFilters) dto.OrderFilters {
	out := dto.OrderFilters{Fulfillment: dto.FilterAll, Picking: dto.FilterAll}
	if f == nil {
		return out
	}

	switch v := strings.ToLower(strings.TrimSpace(f.Fulfillment)); v {
	case dto.FulfillmentFulfilled, dto.FulfillmentUnfulfilled:
		out.Fulfillment = v
	}

	switch v := strings.ToLower(strings.TrimSpace(f.Picking)); v {
	case dto.PickingPending, dto.PickingInProgress, dto.PickingDone, dto.PickingEmpty:
		out.Picking = v
	}
	return out
}

// ApplyFilters keeps the orders that pass the fulfillment filter and then
// the picking filter. The input slice is not modified.
func ApplyFilters(orders []model.Order, f dto.OrderFilters) []model.Order {
	f = NormalizeFilters(&f)

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !matchFulfillment(o, f.Fulfillment) || !matchPicking(o, f.Picking) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchFulfillment(o model.Order, filter string) bool {
	switch filter {
	case dto.FulfillmentFulfilled:
		return o.FulfillmentStatus == model.FulfillmentFulfilled
	case dto.FulfillmentUnfulfilled:
		return o.FulfillmentStatus == model.FulfillmentUnfulfilled
	default:
		return true
	}
}

func matchPicking(o model.Order, filter string) bool {
	switch filter {
	case dto.PickingEmpty:
		return o.PickingStatus == model.PickingUnset
	case dto.PickingPending, dto.PickingInProgress, dto.PickingDone:
		return string(o.PickingStatus) == filter
	default:
		return true
	}
}

// SortByPickingRank orders in place by picking rank, keeping the feed order
// (newest first) within a rank.
func SortByPickingRank(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].PickingStatus.Rank() < orders[j].PickingStatus.Rank()
	})
}

// Display tones for status badges.
const (
	ToneSuccess   = "success"
	ToneAttention = "attention"
	ToneCritical  = "critical"
	ToneInfo      = "info"
	ToneSubdued   = "subdued"
)

func ToneForPicking(s model.PickingStatus) string {
	switch s {
	case model.PickingInProgress:
		return ToneAttention
	case model.PickingDone:
		return ToneSuccess
	case model.PickingUnset:
		return ToneSubdued
	default:
		return ToneInfo
	}
}

func ToneForFulfillment(status string) string {
	switch status {
	case model.FulfillmentFulfilled:
		return ToneSuccess
	case model.FulfillmentPartiallyFulfilled:
		return ToneAttention
	default:
		return ToneCritical
	}
}
