// Package geoip resolves client IP addresses to countries to pick a default
// wallet currency at signup. Lookups are cached in redis; any failure falls
// back to USD so registration never blocks on the resolver.
package geoip

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/pkg/currencypkg"
)

const cacheTTL = 24 * time.Hour

// Client resolves IPs against an ip-api style endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client
}

// NewClient accepts the resolver root, for example http://ip-api.com. The
// /json endpoint path is appended per lookup; a configured trailing /json is
// stripped so it is not requested twice.
func NewClient(baseURL string, cache *redis.Client) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/json")

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 3 * time.Second},
		cache:   cache,
	}
}

type lookupResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
}

// Country returns the ISO country code for the IP, or "" when the resolver
// cannot tell.
func (c *Client) Country(ctx context.Context, ip string) string {
	l := zerolog.Ctx(ctx)

	cacheKey := "geoip:" + ip

	if c.cache != nil {
		country, err := c.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			return country
		}
		if err != redis.Nil {
			l.Warn().Err(err).Msg("geoip cache unavailable")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/"+ip, nil)
	if err != nil {
		l.Warn().Err(err).Send()
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		l.Warn().Err(err).Msg("geoip lookup failed")
		return ""
	}
	defer resp.Body.Close()

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "success" {
		return ""
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body.CountryCode, cacheTTL).Err(); err != nil {
			l.Warn().Err(err).Msg("geoip cache write failed")
		}
	}

	return body.CountryCode
}

// Currency returns the default wallet currency for the IP's country, USD
// when the country is unknown or unmapped.
func (c *Client) Currency(ctx context.Context, ip string) string {
	return currencypkg.DefaultForCountry(c.Country(ctx, ip))
}
