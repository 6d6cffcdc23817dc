package platform

import (
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type image struct {
	URL     *string `json:"url"`
	AltText *string `json:"altText"`
}

type metafieldValue struct {
	Value *string `json:"value"`
}

func (m *metafieldValue) status() model.PickingStatus {
	if m == nil || m.Value == nil {
		return model.PickingUnset
	}
	return model.PickingStatus(*m.Value)
}

type variantNode struct {
	ID      string  `json:"id"`
	Barcode *string `json:"barcode"`
	SKU     *string `json:"sku"`
	Title   string  `json:"title"`
	Product *struct {
		Title string `json:"title"`
	} `json:"product"`
	Image *image `json:"image"`
}

func (n variantNode) toModel() model.CatalogVariant {
	v := model.CatalogVariant{
		ID:      n.ID,
		Barcode: n.Barcode,
		SKU:     n.SKU,
		Title:   n.Title,
	}
	if n.Product != nil {
		v.ProductTitle = n.Product.Title
	}
	if n.Image != nil {
		v.ImageURL = n.Image.URL
		v.ImageAltText = n.Image.AltText
	}
	return v
}

type variantsData struct {
	ProductVariants struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"productVariants"`
}

type lineItemNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Variant  *struct {
		SKU     *string `json:"sku"`
		Barcode *string `json:"barcode"`
	} `json:"variant"`
	Image *image `json:"image"`
}

type orderNode struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	CreatedAt                time.Time `json:"createdAt"`
	DisplayFulfillmentStatus string    `json:"displayFulfillmentStatus"`
	Customer                 *struct {
		DisplayName string `json:"displayName"`
	} `json:"customer"`
	Metafield *metafieldValue `json:"metafield"`
	LineItems *struct {
		Nodes []lineItemNode `json:"nodes"`
	} `json:"lineItems"`
}

const unknownCustomer = "—"

func (n orderNode) toModel() model.Order {
	o := model.Order{
		ID:                n.ID,
		Label:             n.Name,
		CreatedAt:         n.CreatedAt,
		FulfillmentStatus: n.DisplayFulfillmentStatus,
		CustomerName:      unknownCustomer,
		PickingStatus:     n.Metafield.status(),
	}
	if n.Customer != nil && n.Customer.DisplayName != "" {
		o.CustomerName = n.Customer.DisplayName
	}
	if n.LineItems != nil {
		o.LineItems = make([]model.LineItem, 0, len(n.LineItems.Nodes))
		for _, li := range n.LineItems.Nodes {
			item := model.LineItem{
				ID:       li.ID,
				Title:    li.Title,
				Quantity: li.Quantity,
			}
			if li.Variant != nil {
				item.VariantSKU = li.Variant.SKU
				item.VariantBarcode = li.Variant.Barcode
			}
			if li.Image != nil {
				item.ImageURL = li.Image.URL
			}
			o.LineItems = append(o.LineItems, item)
		}
	}
	return o
}

type ordersData struct {
	Orders struct {
		Nodes []orderNode `json:"nodes"`
	} `json:"orders"`
}

type orderData struct {
	Order *orderNode `json:"order"`
}

type metafieldsSetInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type metafieldsSetData struct {
	MetafieldsSet *struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"metafieldsSet"`
}
