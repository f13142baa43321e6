package repository

import (
	"context"
	"time"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

// AlmacenPlanes define el puerto del almacén local duradero.
// La colección local es la canónica para el proceso en ejecución; el motor de
// sincronización la lee y fusiona pero nunca la posee.
type AlmacenPlanes interface {
	GuardarPlan(ctx context.Context, plan *entity.Plan) error
	ObtenerPlan(ctx context.Context, referencia string) (*entity.Plan, error) // nil, nil si no existe
	ListarPlanes(ctx context.Context) ([]entity.Plan, error)
	EliminarPlan(ctx context.Context, referencia string) error
	// ReemplazarPlanes sustituye la colección completa (resultado de una fusión).
	ReemplazarPlanes(ctx context.Context, planes []entity.Plan) error

	GuardarBorrador(ctx context.Context, borrador *entity.Borrador) error
	ListarBorradores(ctx context.Context) ([]entity.Borrador, error)
	EliminarBorrador(ctx context.Context, id string) error

	// Marca de la última sincronización completa con el remoto.
	MarcarSincronizacion(ctx context.Context, t time.Time) error
	UltimaSincronizacion(ctx context.Context) (time.Time, error) // cero si nunca
}

// ColaPendientes cola FIFO de mutaciones no sincronizadas (at-least-once).
type ColaPendientes interface {
	Encolar(ctx context.Context, op entity.OperacionPendiente) error
	// Listar devuelve una instantánea de la cola en orden FIFO.
	Listar(ctx context.Context) ([]entity.OperacionPendiente, error)
	Eliminar(ctx context.Context, id string) error
	Tamano(ctx context.Context) (int, error)
}

// ResumenMensualRepository almacena los agregados mensuales de analítica.
type ResumenMensualRepository interface {
	Obtener(ctx context.Context, anio, mes int) (*entity.ResumenMensual, error) // nil, nil si no existe
	Guardar(ctx context.Context, resumen *entity.ResumenMensual) error
}
