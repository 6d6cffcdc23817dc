package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/auth"
	"github.com/fekuna/omnipos-picking-service/internal/model"
)

// maxResponseSize caps how much of a response body is read (10MB).
const maxResponseSize = 10 * 1024 * 1024

// Client talks to the hosted platform's Admin GraphQL API on behalf of a shop.
type Client struct {
	config     *Config
	httpClient *http.Client

	// per-shop offline tokens; shops without one use config.AccessToken
	tokens map[string]string
	mu     sync.RWMutex
}

func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		tokens: make(map[string]string),
	}
	for shop, token := range config.ShopTokens {
		if err := c.SetShopToken(shop, token); err != nil {
			return nil, fmt.Errorf("shop token %q: %w", shop, err)
		}
	}
	return c, nil
}

// SetShopToken registers the access token for one shop.
func (c *Client) SetShopToken(shop, token string) error {
	shop = auth.NormalizeShop(shop)
	if !auth.ValidShop(shop) {
		return ErrInvalidShop
	}
	if strings.TrimSpace(token) == "" {
		return ErrNoShopToken
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[shop] = token
	return nil
}

func (c *Client) token(shop string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.tokens[shop]; ok {
		return t, true
	}
	return c.config.AccessToken, c.config.AccessToken != ""
}

// do executes one GraphQL operation and decodes `data` into out. Transport
// failures, non-2xx answers and top-level GraphQL errors all come back as
// *apperror.ExternalServiceError.
func (c *Client) do(ctx context.Context, shop, op, query string, vars map[string]interface{}, out interface{}) error {
	if strings.TrimSpace(shop) == "" {
		return apperror.External(op, ErrMissingShop)
	}
	// The shop becomes the request host and receives the token.
	if !auth.ValidShop(shop) {
		return apperror.External(op, ErrInvalidShop)
	}
	token, ok := c.token(shop)
	if !ok {
		return apperror.External(op, ErrNoShopToken)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.endpoint(shop), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.External(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apperror.External(op, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.External(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(raw, 256)))
	}

	var gql graphQLResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return apperror.External(op, fmt.Errorf("decode response: %w", err))
	}
	if len(gql.Errors) > 0 {
		msg := gql.Errors[0].Message
		if msg == "" {
			msg = "GraphQL error"
		}
		return apperror.External(op, fmt.Errorf("%s", msg))
	}
	if out == nil || len(gql.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return apperror.External(op, fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// FindVariantsByBarcode returns every catalog variant whose barcode matches.
func (c *Client) FindVariantsByBarcode(ctx context.Context, shop, barcode string) ([]model.CatalogVariant, error) {
	var data variantsData
	err := c.do(ctx, shop, "productVariants", variantsByBarcodeQuery, map[string]interface{}{
		"q":     "barcode:" + barcode,
		"first": VariantMatchLimit,
	}, &data)
	if err != nil {
		return nil, err
	}

	variants := make([]model.CatalogVariant, 0, len(data.ProductVariants.Nodes))
	for _, n := range data.ProductVariants.Nodes {
		variants = append(variants, n.toModel())
	}
	return variants, nil
}

// ListOrders returns up to limit orders, most recent first, each with its
// picking status. Line items are not loaded.
func (c *Client) ListOrders(ctx context.Context, shop string, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > OrderPageSize {
		limit = OrderPageSize
	}
	var data ordersData
	if err := c.do(ctx, shop, "orders", ordersWithPickingStatusQuery, map[string]interface{}{
		"first": limit,
	}, &data); err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(data.Orders.Nodes))
	for _, n := range data.Orders.Nodes {
		orders = append(orders, n.toModel())
	}
	return orders, nil
}

// GetOrder returns the order with its line items, or nil when the platform
// has no such order.
func (c *Client) GetOrder(ctx context.Context, shop, orderID string) (*model.Order, error) {
	var data orderData
	if err := c.do(ctx, shop, "order", orderDetailQuery, map[string]interface{}{
		"id":    orderID,
		"first": LineItemPageSize,
	}, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, nil
	}
	o := data.Order.toModel()
	return &o, nil
}

// GetPickingStatus reads the picking metafield; unset comes back as
// model.PickingUnset.
func (c *Client) GetPickingStatus(ctx context.Context, shop, orderID string) (model.PickingStatus, error) {
	var data orderData
	if err := c.do(ctx, shop, "order.metafield", pickingStatusQuery, map[string]interface{}{
		"id": orderID,
	}, &data); err != nil {
		return model.PickingUnset, err
	}
	if data.Order == nil {
		return model.PickingUnset, nil
	}
	return data.Order.Metafield.status(), nil
}

// SetPickingStatus overwrites the picking metafield. This is a plain
// last-write-wins write. userErrors come back as *apperror.ValidationError
// carrying the first message.
func (c *Client) SetPickingStatus(ctx context.Context, shop, orderID string, status model.PickingStatus) error {
	var data metafieldsSetData
	err := c.do(ctx, shop, "metafieldsSet", setPickingStatusMutation, map[string]interface{}{
		"metafields": []metafieldsSetInput{{
			OwnerID:   orderID,
			Namespace: PickingNamespace,
			Key:       PickingKey,
			Type:      PickingFieldType,
			Value:     string(status),
		}},
	}, &data)
	if err != nil {
		return err
	}
	if data.MetafieldsSet != nil && len(data.MetafieldsSet.UserErrors) > 0 {
		return apperror.Validation(apperror.ReasonUserError, data.MetafieldsSet.UserErrors[0].Message)
	}
	return nil
}
