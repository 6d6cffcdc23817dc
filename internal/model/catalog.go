package model

// CatalogVariant is a product variant as the hosted catalog reports it.
// It is never persisted here.
type CatalogVariant struct {
	ID           string  `json:"id"`
	Barcode      *string `json:"barcode"`
	SKU          *string `json:"sku"`
	Title        string  `json:"title"`
	ProductTitle string  `json:"productTitle"`
	ImageURL     *string `json:"imageUrl"`
	ImageAltText *string `json:"imageAltText"`
}
