package dto

// Filter values accepted on the worklist. Anything else means "all".
const (
	FilterAll = "all"

	FulfillmentFulfilled   = "fulfilled"
	FulfillmentUnfulfilled = "unfulfilled"

	PickingPending    = "pending"
	PickingInProgress = "in_progress"
	PickingDone       = "done"
	PickingEmpty      = "empty"
)

type OrderFilters struct {
	Fulfillment string `json:"fulfillment"`
	Picking     string `json:"status"`
}
