package analytics

import (
	"context"
	"time"

	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/repository"
	"github.com/refinancia/planes-api/pkg/logger"
)

// Registro actualiza de forma incremental el resumen del mes afectado por cada
// mutación de plan. Los resúmenes se crean perezosamente en la primera
// escritura del mes y nunca se recalculan desde cero.
//
// Los fallos se degradan a log: una señal de analítica perdida no debe hacer
// fallar la operación del usuario.
type Registro struct {
	resumenes repository.ResumenMensualRepository
	log       *logger.Logger
}

// NewRegistro construye el registrador.
func NewRegistro(resumenes repository.ResumenMensualRepository, log *logger.Logger) *Registro {
	return &Registro{resumenes: resumenes, log: log}
}

// RegistrarCreacion incorpora un plan recién creado al resumen de su mes.
func (r *Registro) RegistrarCreacion(ctx context.Context, plan *entity.Plan) {
	r.actualizar(ctx, plan.Fecha, func(resumen *entity.ResumenMensual) {
		resumen.PlanesCreados++
		resumen.AhorroTotal = resumen.AhorroTotal.Add(plan.Ahorro)
		resumen.ComisionesTotal = resumen.ComisionesTotal.Add(plan.Comision)
		if plan.Cliente.DNI != "" {
			resumen.ClientesUnicos[plan.Cliente.DNI] = true
		}
		for _, d := range plan.Deudas {
			resumen.PorProducto[d.Producto]++
			resumen.PorEntidad[d.Entidad]++
		}
		resumen.PorEstado[string(plan.Estado)]++
	})
}

// RegistrarTransicion incorpora un avance de fase al resumen del mes en curso.
func (r *Registro) RegistrarTransicion(ctx context.Context, plan *entity.Plan) {
	r.actualizar(ctx, time.Now(), func(resumen *entity.ResumenMensual) {
		switch plan.Estado {
		case entity.EstadoPlanContratado:
			resumen.PlanesContratados++
		case entity.EstadoPrimerPago:
			resumen.PrimerosPagos++
		}
		resumen.PorEstado[string(plan.Estado)]++
	})
}

// actualizar lee (o crea) el resumen del mes de `fecha`, aplica la mutación y
// lo persiste.
func (r *Registro) actualizar(ctx context.Context, fecha time.Time, fn func(*entity.ResumenMensual)) {
	anio, mes := fecha.Year(), int(fecha.Month())
	resumen, err := r.resumenes.Obtener(ctx, anio, mes)
	if err != nil {
		r.log.Warn().Err(err).Str("mes", entity.ClaveMes(anio, mes)).Msg("no se pudo leer el resumen mensual")
		return
	}
	if resumen == nil {
		resumen = entity.NuevoResumenMensual(anio, mes)
	}
	fn(resumen)
	if err := r.resumenes.Guardar(ctx, resumen); err != nil {
		r.log.Warn().Err(err).Str("mes", entity.ClaveMes(anio, mes)).Msg("no se pudo guardar el resumen mensual")
	}
}
