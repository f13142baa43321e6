// Package memoria implementa los puertos del almacén local en memoria.
// Se usa en tests y como degradación cuando Redis no está disponible al
// arrancar: la herramienta sigue operando offline-first sin durabilidad.
package memoria

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
)

var (
	_ repository.AlmacenPlanes            = (*Almacen)(nil)
	_ repository.ColaPendientes           = (*Almacen)(nil)
	_ repository.ResumenMensualRepository = (*Almacen)(nil)
)

// Almacen almacén local en memoria: planes, borradores, cola y resúmenes.
type Almacen struct {
	mu         sync.RWMutex
	planes     map[string]entity.Plan
	borradores map[string]entity.Borrador
	cola       []entity.OperacionPendiente
	resumenes  map[string]entity.ResumenMensual
	ultimaSync time.Time
}

// NewAlmacen construye el almacén vacío.
func NewAlmacen() *Almacen {
	return &Almacen{
		planes:     make(map[string]entity.Plan),
		borradores: make(map[string]entity.Borrador),
		resumenes:  make(map[string]entity.ResumenMensual),
	}
}

// GuardarPlan inserta o reemplaza el plan por referencia.
func (a *Almacen) GuardarPlan(_ context.Context, plan *entity.Plan) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.planes[plan.Referencia] = *plan
	return nil
}

// ObtenerPlan devuelve el plan o nil si no existe.
func (a *Almacen) ObtenerPlan(_ context.Context, referencia string) (*entity.Plan, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.planes[referencia]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListarPlanes devuelve la colección ordenada por fecha de creación descendente.
func (a *Almacen) ListarPlanes(_ context.Context) ([]entity.Plan, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	lista := make([]entity.Plan, 0, len(a.planes))
	for _, p := range a.planes {
		lista = append(lista, p)
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Fecha.After(lista[j].Fecha)
	})
	return lista, nil
}

// EliminarPlan borra el plan; no falla si no existe.
func (a *Almacen) EliminarPlan(_ context.Context, referencia string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.planes, referencia)
	return nil
}

// ReemplazarPlanes sustituye la colección completa (post-fusión).
func (a *Almacen) ReemplazarPlanes(_ context.Context, planes []entity.Plan) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.planes = make(map[string]entity.Plan, len(planes))
	for _, p := range planes {
		a.planes[p.Referencia] = p
	}
	return nil
}

// GuardarBorrador inserta o reemplaza el borrador.
func (a *Almacen) GuardarBorrador(_ context.Context, b *entity.Borrador) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.borradores[b.ID] = *b
	return nil
}

// ListarBorradores devuelve los borradores ordenados por creación descendente.
func (a *Almacen) ListarBorradores(_ context.Context) ([]entity.Borrador, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	lista := make([]entity.Borrador, 0, len(a.borradores))
	for _, b := range a.borradores {
		lista = append(lista, b)
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Creado.After(lista[j].Creado)
	})
	return lista, nil
}

// EliminarBorrador borra el borrador; no falla si no existe.
func (a *Almacen) EliminarBorrador(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.borradores, id)
	return nil
}

// MarcarSincronizacion guarda el instante de la última sincronización completa.
func (a *Almacen) MarcarSincronizacion(_ context.Context, t time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ultimaSync = t
	return nil
}

// UltimaSincronizacion devuelve la marca; cero si nunca se sincronizó.
func (a *Almacen) UltimaSincronizacion(_ context.Context) (time.Time, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ultimaSync, nil
}

// Encolar añade la operación al final de la cola.
func (a *Almacen) Encolar(_ context.Context, op entity.OperacionPendiente) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cola = append(a.cola, op)
	return nil
}

// Listar devuelve una instantánea de la cola en orden FIFO.
func (a *Almacen) Listar(_ context.Context) ([]entity.OperacionPendiente, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	instantanea := make([]entity.OperacionPendiente, len(a.cola))
	copy(instantanea, a.cola)
	return instantanea, nil
}

// Eliminar retira la operación por id preservando el orden relativo del resto.
func (a *Almacen) Eliminar(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, op := range a.cola {
		if op.ID == id {
			a.cola = append(a.cola[:i], a.cola[i+1:]...)
			return nil
		}
	}
	return nil
}

// Tamano devuelve el número de operaciones pendientes.
func (a *Almacen) Tamano(_ context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cola), nil
}

// Obtener devuelve el resumen del mes o nil si no existe.
func (a *Almacen) Obtener(_ context.Context, anio, mes int) (*entity.ResumenMensual, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.resumenes[entity.ClaveMes(anio, mes)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Guardar inserta o reemplaza el resumen del mes.
func (a *Almacen) Guardar(_ context.Context, resumen *entity.ResumenMensual) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resumenes[resumen.Clave()] = *resumen
	return nil
}
