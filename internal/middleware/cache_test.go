package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities-directory/internal/config"
)

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// Header length pointing past the buffer.
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 255, 255, 1, 2})
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "dircache", KeyStrategy: "route_query"}

	e := echo.New()
	mk := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/facilities")
		return c
	}

	k1 := cacheKeyFrom(cfg, mk("/v1/facilities?cityId=a&page=1"))
	k2 := cacheKeyFrom(cfg, mk("/v1/facilities?cityId=a&page=2"))
	k3 := cacheKeyFrom(cfg, mk("/v1/facilities?cityId=a&page=1"))

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
	assert.Contains(t, k1, "dircache:")

	// The route-only strategy ignores the query string.
	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKeyFrom(cfg, mk("/v1/facilities?cityId=a")),
		cacheKeyFrom(cfg, mk("/v1/facilities?cityId=b")))
}

func TestDisabledCachePassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cities", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
