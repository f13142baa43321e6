package repository

import (
	"context"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

// PlanRemoto define el puerto hacia el almacén remoto de planes.
// El remoto es opaco: la lectura devuelve el último estado confirmado y la
// escritura puede rechazarse con domain.ErrConflicto si la etiqueta de versión
// del plan está obsoleta (otro escritor modificó el registro).
type PlanRemoto interface {
	// LeerPlanes devuelve la colección remota completa, con Version poblada.
	LeerPlanes(ctx context.Context) ([]entity.Plan, error)

	// EscribirPlan persiste el plan con concurrencia optimista y devuelve la
	// nueva etiqueta de versión. Version == 0 en el plan significa inserción.
	EscribirPlan(ctx context.Context, plan *entity.Plan) (int64, error)

	// EliminarPlan borra el plan del remoto. No falla si no existe.
	EliminarPlan(ctx context.Context, referencia string) error
}

// UsuarioRepository define el puerto de lectura de usuarios y roles.
type UsuarioRepository interface {
	PorEmail(ctx context.Context, email string) (*entity.Usuario, error) // nil, nil si no existe
	Listar(ctx context.Context) ([]entity.Usuario, error)
}
