package platform

const (
	PickingNamespace = "picking"
	PickingKey       = "status"
	PickingFieldType = "single_line_text_field"

	// OrderPageSize bounds the worklist fetch.
	OrderPageSize = 100
	// LineItemPageSize bounds the line items fetched for one order.
	LineItemPageSize = 50
	// VariantMatchLimit bounds the barcode lookup; anything above one is
	// already ambiguous.
	VariantMatchLimit = 10
)

const variantsByBarcodeQuery = `
query VariantByBarcode($q: String!, $first: Int!) {
  productVariants(first: $first, query: $q) {
    nodes {
      id
      barcode
      sku
      title
      product { title }
      image { url altText }
    }
  }
}`

const ordersWithPickingStatusQuery = `
query OrdersWithPickingStatus($first: Int!) {
  orders(first: $first, sortKey: CREATED_AT, reverse: true) {
    nodes {
      id
      name
      createdAt
      displayFulfillmentStatus
      customer { displayName }
      metafield(namespace: "picking", key: "status") { value }
    }
  }
}`

const orderDetailQuery = `
query OrderDetail($id: ID!, $first: Int!) {
  order(id: $id) {
    id
    name
    createdAt
    displayFulfillmentStatus
    customer { displayName }
    metafield(namespace: "picking", key: "status") { value }
    lineItems(first: $first) {
      nodes {
        id
        title
        quantity
        variant { sku barcode }
        image { url altText }
      }
    }
  }
}`

const pickingStatusQuery = `
query CheckPicking($id: ID!) {
  order(id: $id) {
    metafield(namespace: "picking", key: "status") { value }
  }
}`

const setPickingStatusMutation = `
mutation SetPickingStatus($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields { id value }
    userErrors { field message }
  }
}`
