package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/domain/finanzas"
	"github.com/refinancia/planes-api/internal/domain/repository"
)

const (
	mesesPorDefecto = 6
	mesesMaximo     = 24
)

// PeriodoUseCase construye el reporte de ventana móvil de N meses a partir de
// los resúmenes mensuales.
type PeriodoUseCase struct {
	resumenes repository.ResumenMensualRepository
}

// NewPeriodoUseCase construye el caso de uso.
func NewPeriodoUseCase(resumenes repository.ResumenMensualRepository) *PeriodoUseCase {
	return &PeriodoUseCase{resumenes: resumenes}
}

// AgregarPeriodo agrega los últimos `meses` meses calendario terminando en el
// mes de `ahora`. La salida tiene exactamente `meses` filas en orden
// cronológico; los meses sin resumen aparecen a cero con su etiqueta correcta.
func (uc *PeriodoUseCase) AgregarPeriodo(ctx context.Context, meses int, ahora time.Time) (*dto.PeriodoDTO, error) {
	if meses <= 0 {
		meses = mesesPorDefecto
	}
	if meses > mesesMaximo {
		meses = mesesMaximo
	}

	totales := dto.TotalesPeriodoDTO{
		AhorroTotal:     decimal.Zero,
		ComisionesTotal: decimal.Zero,
		PorProducto:     make(map[string]int),
		PorEntidad:      make(map[string]int),
		PorEstado:       make(map[string]int),
	}
	clientes := make(map[string]bool)
	filas := make([]dto.MesPeriodoDTO, 0, meses)

	// Del mes más antiguo al actual, para presentación cronológica
	for k := meses - 1; k >= 0; k-- {
		// time.Date normaliza meses fuera de rango (enero-2 → noviembre del año anterior)
		ref := time.Date(ahora.Year(), ahora.Month()-time.Month(k), 1, 0, 0, 0, 0, ahora.Location())
		anio, mes := ref.Year(), int(ref.Month())

		resumen, err := uc.resumenes.Obtener(ctx, anio, mes)
		if err != nil {
			return nil, fmt.Errorf("resumen %s: %w", entity.ClaveMes(anio, mes), err)
		}
		if resumen == nil {
			resumen = entity.NuevoResumenMensual(anio, mes)
		}

		filas = append(filas, filaDeResumen(resumen, ref))

		totales.PlanesCreados += resumen.PlanesCreados
		totales.PlanesContratados += resumen.PlanesContratados
		totales.PrimerosPagos += resumen.PrimerosPagos
		totales.AhorroTotal = totales.AhorroTotal.Add(resumen.AhorroTotal)
		totales.ComisionesTotal = totales.ComisionesTotal.Add(resumen.ComisionesTotal)
		for dni := range resumen.ClientesUnicos {
			clientes[dni] = true
		}
		for k, v := range resumen.PorProducto {
			totales.PorProducto[k] += v
		}
		for k, v := range resumen.PorEntidad {
			totales.PorEntidad[k] += v
		}
		for k, v := range resumen.PorEstado {
			totales.PorEstado[k] += v
		}
	}

	totales.ClientesUnicos = len(clientes)
	totales.AhorroTotal = totales.AhorroTotal.Round(2)
	totales.ComisionesTotal = totales.ComisionesTotal.Round(2)
	totales.TasaConversion = tasaConversion(totales.PlanesContratados, totales.PlanesCreados)

	return &dto.PeriodoDTO{
		Meses:   filas,
		Totales: totales,
		Cambios: cambiosMesAMes(filas),
	}, nil
}

// filaDeResumen convierte el resumen de un mes en la fila del reporte.
func filaDeResumen(r *entity.ResumenMensual, ref time.Time) dto.MesPeriodoDTO {
	return dto.MesPeriodoDTO{
		Etiqueta:          etiquetaMes(ref),
		Anio:              r.Anio,
		Mes:               r.Mes,
		PlanesCreados:     r.PlanesCreados,
		PlanesContratados: r.PlanesContratados,
		PrimerosPagos:     r.PrimerosPagos,
		AhorroTotal:       r.AhorroTotal.Round(2),
		ComisionesTotal:   r.ComisionesTotal.Round(2),
		TasaConversion:    tasaConversion(r.PlanesContratados, r.PlanesCreados),
	}
}

// cambiosMesAMes compara solo las dos filas más recientes de la ventana, con
// la misma regla de guarda porcentual que los KPIs.
func cambiosMesAMes(filas []dto.MesPeriodoDTO) dto.CambiosDTO {
	cambios := dto.CambiosDTO{
		PlanesCreados:     decimal.Zero,
		PlanesContratados: decimal.Zero,
		Ahorro:            decimal.Zero,
		Comisiones:        decimal.Zero,
	}
	if len(filas) < 2 {
		return cambios
	}
	actual := filas[len(filas)-1]
	anterior := filas[len(filas)-2]
	cambios.PlanesCreados = finanzas.CambioPorcentual(
		decimal.NewFromInt(int64(actual.PlanesCreados)), decimal.NewFromInt(int64(anterior.PlanesCreados)))
	cambios.PlanesContratados = finanzas.CambioPorcentual(
		decimal.NewFromInt(int64(actual.PlanesContratados)), decimal.NewFromInt(int64(anterior.PlanesContratados)))
	cambios.Ahorro = finanzas.CambioPorcentual(actual.AhorroTotal, anterior.AhorroTotal)
	cambios.Comisiones = finanzas.CambioPorcentual(actual.ComisionesTotal, anterior.ComisionesTotal)
	return cambios
}

// tasaConversion = contratados/creados*100, 0 si no hubo planes creados.
func tasaConversion(contratados, creados int) decimal.Decimal {
	if creados == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(contratados)).
		Div(decimal.NewFromInt(int64(creados))).
		Mul(decimal.NewFromInt(100)).Round(2)
}

// etiquetaMes devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func etiquetaMes(t time.Time) string {
	meses := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", meses[t.Month()-1], t.Year())
}
