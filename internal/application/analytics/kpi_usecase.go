// Package analytics contiene las proyecciones de lectura sobre la colección
// de planes (KPIs, embudo) y el reporte de período sobre resúmenes mensuales.
// Son proyecciones puras: se recalculan bajo demanda y nunca son la fuente de
// verdad.
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

// KPIUseCase calcula los indicadores del mes en curso frente al anterior.
type KPIUseCase struct {
	local repository.AlmacenPlanes
}

// NewKPIUseCase construye el caso de uso.
func NewKPIUseCase(local repository.AlmacenPlanes) *KPIUseCase {
	return &KPIUseCase{local: local}
}

// KPIs carga la colección local y calcula los indicadores a fecha de hoy.
func (uc *KPIUseCase) KPIs(ctx context.Context) (*dto.KPIsDTO, error) {
	planes, err := uc.local.ListarPlanes(ctx)
	if err != nil {
		return nil, fmt.Errorf("kpis: %w", err)
	}
	kpis := CalcularKPIs(planes, time.Now())
	return &kpis, nil
}

// Embudo carga la colección local y cuenta planes por estado.
func (uc *KPIUseCase) Embudo(ctx context.Context) (*dto.EmbudoDTO, error) {
	planes, err := uc.local.ListarPlanes(ctx)
	if err != nil {
		return nil, fmt.Errorf("embudo: %w", err)
	}
	embudo := CalcularEmbudo(planes)
	return &embudo, nil
}

// PlanesDelMes filtra los planes cuya fecha cae en el mes calendario indicado.
// Los planes con fecha ausente o inválida se excluyen, nunca rompen el filtro.
func PlanesDelMes(planes []entity.Plan, mes time.Month, anio int) []entity.Plan {
	var filtrados []entity.Plan
	for _, p := range planes {
		if p.Fecha.IsZero() {
			continue
		}
		if p.Fecha.Month() == mes && p.Fecha.Year() == anio {
			filtrados = append(filtrados, p)
		}
	}
	return filtrados
}

// CalcularKPIs calcula los indicadores del mes que contiene `ahora` frente al
// mes calendario anterior. Todos los cambios porcentuales usan la regla de
// guarda de finanzas.CambioPorcentual: nunca hay división por cero.
func CalcularKPIs(planes []entity.Plan, ahora time.Time) dto.KPIsDTO {
	// Primer día del mes actual menos un día cae siempre en el mes anterior
	mesAnterior := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location()).AddDate(0, 0, -1)

	actual := resumirMes(PlanesDelMes(planes, ahora.Month(), ahora.Year()))
	anterior := resumirMes(PlanesDelMes(planes, mesAnterior.Month(), mesAnterior.Year()))

	return dto.KPIsDTO{
		TotalPlanes:      actual.total,
		CambioPlanes:     finanzas.CambioPorcentual(decimal.NewFromInt(int64(actual.total)), decimal.NewFromInt(int64(anterior.total))),
		TasaConversion:   actual.conversion,
		CambioConversion: finanzas.CambioPorcentual(actual.conversion, anterior.conversion),
		AhorroTotal:      actual.ahorro,
		CambioAhorro:     finanzas.CambioPorcentual(actual.ahorro, anterior.ahorro),
		ComisionesTotal:  actual.comisiones,
		CambioComisiones: finanzas.CambioPorcentual(actual.comisiones, anterior.comisiones),
	}
}

// CalcularEmbudo cuenta planes por estado del ciclo de vida. Los estados no
// reconocidos quedan fuera de los tres cubos; no son un error.
func CalcularEmbudo(planes []entity.Plan) dto.EmbudoDTO {
	var embudo dto.EmbudoDTO
	for _, p := range planes {
		switch p.Estado {
		case entity.EstadoPlanCreado:
			embudo.PlanCreado++
		case entity.EstadoPlanContratado:
			embudo.PlanContratado++
		case entity.EstadoPrimerPago:
			embudo.PrimerPago++
		}
	}
	return embudo
}

type resumenMes struct {
	total      int
	conversion decimal.Decimal
	ahorro     decimal.Decimal
	comisiones decimal.Decimal
}

// resumirMes agrega el cubo de un mes: total, conversión (contratados o más
// avanzados sobre el total), ahorro y comisiones con el modelo de comisión
// compartido.
func resumirMes(planes []entity.Plan) resumenMes {
	r := resumenMes{
		conversion: decimal.Zero,
		ahorro:     decimal.Zero,
		comisiones: decimal.Zero,
	}
	contratados := 0
	for _, p := range planes {
		r.total++
		if p.Estado == entity.EstadoPlanContratado || p.Estado == entity.EstadoPrimerPago {
			contratados++
		}
		r.ahorro = r.ahorro.Add(p.Ahorro)
		r.comisiones = r.comisiones.Add(finanzas.Comision(p.TotalFinal, p.Ahorro))
	}
	if r.total > 0 {
		r.conversion = decimal.NewFromInt(int64(contratados)).
			Div(decimal.NewFromInt(int64(r.total))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	r.ahorro = r.ahorro.Round(2)
	r.comisiones = r.comisiones.Round(2)
	return r
}
