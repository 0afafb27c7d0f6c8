package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("rankings:today:q=", []byte(`{"rows":[]}`), time.Minute)
	require.NotEmpty(t, etag)

	data, gotETag, ok := c.Get("rankings:today:q=")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"rows":[]}`), data)
	assert.Equal(t, etag, gotETag)

	_, _, ok = c.Get("rankings:missing:q=")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second) // already expired
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag) // ETag still computed for the response headers
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(true)
	c.Set("rankings:today:q=", []byte("a"), time.Minute)
	c.Set("rankings:total:q=al", []byte("b"), time.Minute)
	c.Set("views:list", []byte("c"), time.Minute)

	c.InvalidatePrefix("rankings:")

	_, _, ok := c.Get("rankings:today:q=")
	assert.False(t, ok)
	_, _, ok = c.Get("rankings:total:q=al")
	assert.False(t, ok)
	_, _, ok = c.Get("views:list")
	assert.True(t, ok)
}

func TestETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}
