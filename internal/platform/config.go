package platform

import (
	"errors"
	"strings"
)

const (
	DefaultAPIVersion     = "2025-01"
	DefaultTimeoutSeconds = 15
)

var (
	ErrConfigMissingToken = errors.New("platform: admin access token is required")
	ErrMissingShop        = errors.New("platform: shop domain is required")
	ErrInvalidShop        = errors.New("platform: shop domain is not a myshopify.com domain")
	ErrNoShopToken        = errors.New("platform: no access token for shop")
)

// Config holds the Admin GraphQL API settings.
type Config struct {
	// APIVersion is the dated Admin API version, e.g. 2025-01.
	APIVersion string
	// AccessToken is the default offline token used when no per-shop token
	// has been registered. Optional when ShopTokens is set.
	AccessToken string
	// ShopTokens holds per-shop offline tokens keyed by shop domain.
	ShopTokens map[string]string
	// BaseURL overrides https://<shop> (tests, proxies). Optional.
	BaseURL string
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" && len(c.ShopTokens) == 0 {
		return ErrConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}

func (c *Config) endpoint(shop string) string {
	base := c.BaseURL
	if base == "" {
		base = "https://" + shop
	}
	return strings.TrimRight(base, "/") + "/admin/api/" + c.APIVersion + "/graphql.json"
}
