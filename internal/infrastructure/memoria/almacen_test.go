package memoria_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/infrastructure/memoria"
)

func TestAlmacen_Planes(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	viejo := entity.Plan{Referencia: "P-1", Fecha: base}
	nuevo := entity.Plan{Referencia: "P-2", Fecha: base.Add(time.Hour)}
	require.NoError(t, mem.GuardarPlan(ctx, &viejo))
	require.NoError(t, mem.GuardarPlan(ctx, &nuevo))

	lista, err := mem.ListarPlanes(ctx)
	require.NoError(t, err)
	require.Len(t, lista, 2)
	assert.Equal(t, "P-2", lista[0].Referencia, "orden por fecha descendente")

	p, err := mem.ObtenerPlan(ctx, "P-1")
	require.NoError(t, err)
	require.NotNil(t, p)

	p, err = mem.ObtenerPlan(ctx, "NO-EXISTE")
	require.NoError(t, err)
	assert.Nil(t, p, "no encontrado es nil, nil")

	require.NoError(t, mem.EliminarPlan(ctx, "P-1"))
	require.NoError(t, mem.EliminarPlan(ctx, "P-1"), "borrar dos veces no falla")
}

func TestAlmacen_ReemplazarPlanes(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()

	p := entity.Plan{Referencia: "VIEJO"}
	require.NoError(t, mem.GuardarPlan(ctx, &p))

	require.NoError(t, mem.ReemplazarPlanes(ctx, []entity.Plan{{Referencia: "A"}, {Referencia: "B"}}))
	lista, err := mem.ListarPlanes(ctx)
	require.NoError(t, err)
	assert.Len(t, lista, 2, "el reemplazo sustituye la colección completa")

	viejo, err := mem.ObtenerPlan(ctx, "VIEJO")
	require.NoError(t, err)
	assert.Nil(t, viejo)
}

func TestAlmacen_ColaFIFO(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()

	for _, id := range []string{"op-1", "op-2", "op-3"} {
		require.NoError(t, mem.Encolar(ctx, entity.OperacionPendiente{ID: id, Tipo: entity.OperacionPlan}))
	}

	ops, err := mem.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, "op-1", ops[0].ID, "la cola conserva el orden de llegada")

	// Retirar una del medio preserva el orden relativo del resto
	require.NoError(t, mem.Eliminar(ctx, "op-2"))
	ops, err = mem.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, "op-3", ops[1].ID)

	n, err := mem.Tamano(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAlmacen_ListarDevuelveInstantanea(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()
	require.NoError(t, mem.Encolar(ctx, entity.OperacionPendiente{ID: "op-1"}))

	instantanea, err := mem.Listar(ctx)
	require.NoError(t, err)

	// Mutar la cola después no afecta a la instantánea ya tomada
	require.NoError(t, mem.Encolar(ctx, entity.OperacionPendiente{ID: "op-2"}))
	assert.Len(t, instantanea, 1)
}

func TestAlmacen_Resumenes(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()

	r, err := mem.Obtener(ctx, 2026, 8)
	require.NoError(t, err)
	assert.Nil(t, r, "mes sin resumen es nil, nil")

	resumen := entity.NuevoResumenMensual(2026, 8)
	resumen.PlanesCreados = 3
	require.NoError(t, mem.Guardar(ctx, resumen))

	r, err = mem.Obtener(ctx, 2026, 8)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 3, r.PlanesCreados)
}
