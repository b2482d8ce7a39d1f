package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCountry(t *testing.T) {
	var calls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		require.Equal(t, "/json/49.207.0.1", r.URL.Path)
		w.Write([]byte(`{"status":"success","countryCode":"IN"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCache(t))

	require.Equal(t, "IN", client.Country(context.Background(), "49.207.0.1"))

	// second lookup is served from cache
	require.Equal(t, "IN", client.Country(context.Background(), "49.207.0.1"))
	require.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

// A base URL configured with the /json endpoint path must not request
// /json/json/<ip>.
func TestCountryBaseURLWithEndpointPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json/49.207.0.1", r.URL.Path)
		w.Write([]byte(`{"status":"success","countryCode":"IN"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/json", testCache(t))

	require.Equal(t, "IN", client.Country(context.Background(), "49.207.0.1"))
}

func TestCountryResolverDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCache(t))

	require.Equal(t, "", client.Country(context.Background(), "127.0.0.1"))
}

func TestCurrencyFallsBackToUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCache(t))

	require.Equal(t, "USD", client.Currency(context.Background(), "127.0.0.1"))
}

func TestCurrencyByCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","countryCode":"DE"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCache(t))

	require.Equal(t, "EUR", client.Currency(context.Background(), "88.66.1.1"))
}
