package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinancia/planes-api/internal/application/analytics"
	"github.com/refinancia/planes-api/internal/domain/entity"
	"github.com/refinancia/planes-api/internal/infrastructure/memoria"
)

var ahora = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func planMes(ref string, fecha time.Time, estado entity.Estado, ahorro, totalFinal string) entity.Plan {
	return entity.Plan{
		Referencia: ref,
		Fecha:      fecha,
		Estado:     estado,
		Ahorro:     dec(ahorro),
		TotalFinal: dec(totalFinal),
	}
}

func TestPlanesDelMes(t *testing.T) {
	planes := []entity.Plan{
		planMes("A", ahora, entity.EstadoPlanCreado, "0", "0"),
		planMes("B", ahora.AddDate(0, -1, 0), entity.EstadoPlanCreado, "0", "0"),
		{Referencia: "SIN-FECHA"}, // fecha cero: se excluye, no rompe
	}
	delMes := analytics.PlanesDelMes(planes, ahora.Month(), ahora.Year())
	require.Len(t, delMes, 1)
	assert.Equal(t, "A", delMes[0].Referencia)
}

func TestCalcularKPIs(t *testing.T) {
	// Mes actual: 2 planes (1 contratado), ahorro 300. Mes anterior: 1 plan, ahorro 200.
	planes := []entity.Plan{
		planMes("A", ahora, entity.EstadoPlanCreado, "100", "900"),
		planMes("B", ahora.AddDate(0, 0, -1), entity.EstadoPlanContratado, "200", "800"),
		planMes("C", ahora.AddDate(0, -1, 0), entity.EstadoPlanCreado, "200", "800"),
	}

	kpis := analytics.CalcularKPIs(planes, ahora)

	assert.Equal(t, 2, kpis.TotalPlanes)
	assert.True(t, dec("100").Equal(kpis.CambioPlanes), "de 1 a 2 planes es +100%%, dio %s", kpis.CambioPlanes)
	assert.True(t, dec("50").Equal(kpis.TasaConversion), "1 de 2 contratado, dio %s", kpis.TasaConversion)
	assert.True(t, dec("300").Equal(kpis.AhorroTotal))
	assert.True(t, dec("50").Equal(kpis.CambioAhorro), "de 200 a 300 es +50%%, dio %s", kpis.CambioAhorro)
}

func TestCalcularKPIs_SinHistorico_NuncaNaN(t *testing.T) {
	// Sin planes en ningún mes: todos los indicadores y cambios deben ser 0
	kpis := analytics.CalcularKPIs(nil, ahora)
	assert.Equal(t, 0, kpis.TotalPlanes)
	assert.True(t, kpis.CambioPlanes.IsZero())
	assert.True(t, kpis.TasaConversion.IsZero())
	assert.True(t, kpis.CambioConversion.IsZero())
	assert.True(t, kpis.CambioAhorro.IsZero())
	assert.True(t, kpis.CambioComisiones.IsZero())

	// Solo mes actual: los cambios con base cero se reportan como +100
	planes := []entity.Plan{planMes("A", ahora, entity.EstadoPlanContratado, "100", "900")}
	kpis = analytics.CalcularKPIs(planes, ahora)
	assert.True(t, dec("100").Equal(kpis.CambioPlanes))
	assert.True(t, dec("100").Equal(kpis.CambioAhorro))
}

func TestCalcularEmbudo(t *testing.T) {
	planes := []entity.Plan{
		planMes("A", ahora, entity.EstadoPlanCreado, "0", "0"),
		planMes("B", ahora, entity.EstadoPlanCreado, "0", "0"),
		planMes("C", ahora, entity.EstadoPlanContratado, "0", "0"),
		planMes("D", ahora, entity.EstadoPrimerPago, "0", "0"),
		planMes("E", ahora, entity.Estado("estado_raro"), "0", "0"), // fuera de los cubos
	}
	embudo := analytics.CalcularEmbudo(planes)
	assert.Equal(t, 2, embudo.PlanCreado)
	assert.Equal(t, 1, embudo.PlanContratado)
	assert.Equal(t, 1, embudo.PrimerPago)
}

func TestKPIUseCase_LeeDelAlmacenLocal(t *testing.T) {
	mem := memoria.NewAlmacen()
	ctx := context.Background()
	p := planMes("A", time.Now(), entity.EstadoPlanCreado, "100", "900")
	require.NoError(t, mem.GuardarPlan(ctx, &p))

	uc := analytics.NewKPIUseCase(mem)
	kpis, err := uc.KPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, kpis.TotalPlanes)

	embudo, err := uc.Embudo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, embudo.PlanCreado)
}
