// Package cache ofrece una caché en memoria con TTL para lecturas remotas.
// Las entradas se invalidan explícitamente tras cada escritura confirmada
// sobre el mismo recurso lógico; el TTL cubre el resto de los casos.
package cache

import (
	"sync"
	"time"
)

type entrada[T any] struct {
	valor  T
	expira time.Time
}

// Cache caché en memoria segura para concurrencia, con TTL fijo por instancia.
type Cache[T any] struct {
	mu       sync.RWMutex
	entradas map[string]entrada[T]
	ttl      time.Duration
}

// New crea una caché con el TTL indicado.
func New[T any](ttl time.Duration) *Cache[T] {
	c := &Cache[T]{
		entradas: make(map[string]entrada[T]),
		ttl:      ttl,
	}
	go c.limpieza()
	return c
}

// Get devuelve el valor cacheado. ok es false si no existe o expiró.
func (c *Cache[T]) Get(clave string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entradas[clave]
	if !ok || time.Now().After(e.expira) {
		var cero T
		return cero, false
	}
	return e.valor, true
}

// Set guarda un valor con el TTL configurado.
func (c *Cache[T]) Set(clave string, valor T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entradas[clave] = entrada[T]{
		valor:  valor,
		expira: time.Now().Add(c.ttl),
	}
}

// Invalidar elimina la entrada (tras una escritura confirmada al recurso).
func (c *Cache[T]) Invalidar(clave string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entradas, clave)
}

// limpieza retira periódicamente las entradas expiradas.
func (c *Cache[T]) limpieza() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		ahora := time.Now()
		for k, e := range c.entradas {
			if ahora.After(e.expira) {
				delete(c.entradas, k)
			}
		}
		c.mu.Unlock()
	}
}
