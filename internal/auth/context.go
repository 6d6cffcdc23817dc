package auth

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ShopHeader carries the tenant on API calls made by the embedded admin app.
	ShopHeader = "X-Shop-Domain"
	// WebhookShopHeader carries the tenant on platform webhook deliveries.
	WebhookShopHeader = "X-Shopify-Shop-Domain"

	shopKey = "shop_id"
)

// shopPattern is the only host shape the platform hands out for a shop.
var shopPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// GetShopID returns the shop set by RequireShop, falling back to the header.
func GetShopID(c *gin.Context) string {
	if val := c.GetString(shopKey); val != "" {
		return val
	}
	return normalizeShop(c.GetHeader(ShopHeader))
}

func SetShopID(c *gin.Context, shop string) {
	c.Set(shopKey, shop)
}

// ValidShop reports whether s is a normalized <name>.myshopify.com domain.
// Shop domains become request hosts for the platform client, so nothing
// else may pass.
func ValidShop(s string) bool {
	return shopPattern.MatchString(s)
}

func normalizeShop(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeShop lowercases and trims a shop domain.
func NormalizeShop(s string) string { return normalizeShop(s) }
