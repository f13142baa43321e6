package planes

import (
	"context"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

// ResultadoSync desenlace de la escritura remota de un plan.
// Exactamente uno de los tres casos aplica: escritura confirmada (Version > 0),
// operación encolada (Offline) o conflicto pendiente de resolución.
type ResultadoSync struct {
	Version   int64
	Offline   bool
	Conflicto *entity.Conflicto
}

// Sincronizador puerto hacia el motor de sincronización. Las implementaciones
// nunca devuelven error por fallos de conectividad: eso se traduce en Offline.
type Sincronizador interface {
	GuardarPlan(ctx context.Context, plan *entity.Plan) ResultadoSync
	// EliminarPlan intenta el borrado remoto; devuelve true si quedó encolado.
	EliminarPlan(ctx context.Context, referencia string) bool
}

// RegistradorAnalytics recibe las señales de refresco de analítica tras cada
// mutación. Los fallos del registrador se degradan a log, nunca a error.
type RegistradorAnalytics interface {
	RegistrarCreacion(ctx context.Context, plan *entity.Plan)
	RegistrarTransicion(ctx context.Context, plan *entity.Plan)
}
