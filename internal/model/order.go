package model

import "time"

const (
	FulfillmentFulfilled          = "FULFILLED"
	FulfillmentUnfulfilled        = "UNFULFILLED"
	FulfillmentPartiallyFulfilled = "PARTIALLY_FULFILLED"
)

type Order struct {
	ID                string        `json:"id"`
	Label             string        `json:"label"`
	CreatedAt         time.Time     `json:"createdAt"`
	FulfillmentStatus string        `json:"fulfillmentStatus"`
	CustomerName      string        `json:"customer"`
	PickingStatus     PickingStatus `json:"pickingStatus"`
	LineItems         []LineItem    `json:"lineItems,omitempty"`
}

type LineItem struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Quantity       int     `json:"quantity"`
	VariantSKU     *string `json:"variantSku"`
	VariantBarcode *string `json:"variantBarcode"`
	ImageURL       *string `json:"imageUrl"`
}
