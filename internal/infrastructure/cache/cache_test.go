package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/refinancia/planes-api/internal/infrastructure/cache"
)

func TestCache_SetGet(t *testing.T) {
	c := cache.New[string](time.Minute)
	c.Set("clave", "valor")

	v, ok := c.Get("clave")
	assert.True(t, ok)
	assert.Equal(t, "valor", v)

	_, ok = c.Get("otra")
	assert.False(t, ok)
}

func TestCache_Expira(t *testing.T) {
	c := cache.New[int](20 * time.Millisecond)
	c.Set("n", 42)

	v, ok := c.Get("n")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("n")
	assert.False(t, ok, "la entrada debe expirar tras el TTL")
}

func TestCache_Invalidar(t *testing.T) {
	c := cache.New[[]string](time.Minute)
	c.Set("lista", []string{"a", "b"})

	c.Invalidar("lista")
	_, ok := c.Get("lista")
	assert.False(t, ok, "la invalidación explícita retira la entrada antes del TTL")
}
