package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
)

var _ repository.PlanRemoto = (*PlanRepo)(nil)

// PlanRepo adaptador del almacén remoto de planes sobre PostgreSQL.
//
// Cada plan se guarda como un documento JSONB con una columna de versión que
// actúa de etiqueta de precondición: una escritura con versión obsoleta se
// rechaza con domain.ErrConflicto en lugar de sobrescribir en silencio.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

// LeerPlanes devuelve la colección remota completa con Version poblada.
func (r *PlanRepo) LeerPlanes(ctx context.Context) ([]entity.Plan, error) {
	query := `SELECT datos, version FROM planes ORDER BY actualizado DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: leer planes: %v", domain.ErrIOTransitorio, err)
	}
	defer rows.Close()

	var planes []entity.Plan
	for rows.Next() {
		var datos []byte
		var version int64
		if err := rows.Scan(&datos, &version); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		var p entity.Plan
		if err := json.Unmarshal(datos, &p); err != nil {
			// Documento malformado: se degrada omitiéndolo, no rompe la lectura
			continue
		}
		p.Version = version
		planes = append(planes, p)
	}
	return planes, rows.Err()
}

// EscribirPlan persiste con concurrencia optimista y devuelve la nueva versión.
// Version == 0 inserta; si la referencia ya existe, es un conflicto.
// Version > 0 actualiza solo si la versión remota coincide.
func (r *PlanRepo) EscribirPlan(ctx context.Context, plan *entity.Plan) (int64, error) {
	datos, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("serializar plan %s: %w", plan.Referencia, err)
	}
	ahora := time.Now()

	if plan.Version == 0 {
		query := `
			INSERT INTO planes (referencia, datos, version, actualizado)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (referencia) DO NOTHING`
		tag, err := r.q.Exec(ctx, query, plan.Referencia, datos, ahora)
		if err != nil {
			return 0, fmt.Errorf("%w: insertar plan: %v", domain.ErrIOTransitorio, err)
		}
		if tag.RowsAffected() == 0 {
			// Ya existe en remoto: otro escritor lo creó primero
			return 0, fmt.Errorf("%w: %s", domain.ErrConflicto, plan.Referencia)
		}
		return 1, nil
	}

	query := `
		UPDATE planes SET datos = $2, version = version + 1, actualizado = $3
		WHERE referencia = $1 AND version = $4
		RETURNING version`
	var nuevaVersion int64
	err = r.q.QueryRow(ctx, query, plan.Referencia, datos, ahora, plan.Version).Scan(&nuevaVersion)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("%w: %s", domain.ErrConflicto, plan.Referencia)
		}
		return 0, fmt.Errorf("%w: actualizar plan: %v", domain.ErrIOTransitorio, err)
	}
	return nuevaVersion, nil
}

// EliminarPlan borra el plan del remoto. No falla si no existe.
func (r *PlanRepo) EliminarPlan(ctx context.Context, referencia string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM planes WHERE referencia = $1`, referencia)
	if err != nil {
		return fmt.Errorf("%w: eliminar plan: %v", domain.ErrIOTransitorio, err)
	}
	return nil
}
