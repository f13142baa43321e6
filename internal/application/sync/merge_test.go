package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/refinancia/planes-api/internal/application/sync"
	"github.com/refinancia/planes-api/internal/domain/entity"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func planCon(ref string, fecha time.Time, estado entity.Estado) entity.Plan {
	return entity.Plan{Referencia: ref, Fecha: fecha, Estado: estado}
}

func planActualizado(ref string, fecha, actualizacion time.Time, estado entity.Estado) entity.Plan {
	p := planCon(ref, fecha, estado)
	p.UltimaActualizacion = &actualizacion
	return p
}

func porReferencia(planes []entity.Plan) map[string]entity.Plan {
	m := make(map[string]entity.Plan, len(planes))
	for _, p := range planes {
		m[p.Referencia] = p
	}
	return m
}

func TestFusionarPlanes_GanaElMasReciente(t *testing.T) {
	local := []entity.Plan{planActualizado("P-1", base, base.Add(2*time.Hour), entity.EstadoPlanContratado)}
	remoto := []entity.Plan{planCon("P-1", base, entity.EstadoPlanCreado)}

	res := appsync.FusionarPlanes(local, remoto)
	require.Len(t, res, 1)
	assert.Equal(t, entity.EstadoPlanContratado, res[0].Estado, "el valor local más reciente debe ganar")

	// Y al revés: el remoto más reciente gana sobre el local viejo
	local = []entity.Plan{planCon("P-1", base, entity.EstadoPlanCreado)}
	remoto = []entity.Plan{planActualizado("P-1", base, base.Add(3*time.Hour), entity.EstadoPrimerPago)}
	res = appsync.FusionarPlanes(local, remoto)
	require.Len(t, res, 1)
	assert.Equal(t, entity.EstadoPrimerPago, res[0].Estado)
}

func TestFusionarPlanes_EmpateConservaRemoto(t *testing.T) {
	local := []entity.Plan{planCon("P-1", base, entity.EstadoPlanContratado)}
	remoto := []entity.Plan{planCon("P-1", base, entity.EstadoPlanCreado)}

	res := appsync.FusionarPlanes(local, remoto)
	require.Len(t, res, 1)
	assert.Equal(t, entity.EstadoPlanCreado, res[0].Estado, "con timestamps idénticos se conserva el remoto")
}

func TestFusionarPlanes_UnionDeClaves(t *testing.T) {
	// Escenario: dos fuentes con un plan compartido y uno exclusivo cada una
	local := []entity.Plan{
		planCon("SOLO-LOCAL", base, entity.EstadoPlanCreado),
		planActualizado("COMUN", base, base.Add(time.Hour), entity.EstadoPlanContratado),
	}
	remoto := []entity.Plan{
		planCon("COMUN", base, entity.EstadoPlanCreado),
		planCon("SOLO-REMOTO", base, entity.EstadoPrimerPago),
	}

	res := appsync.FusionarPlanes(local, remoto)
	require.Len(t, res, 3, "la fusión es la unión de claves, sin duplicados")

	m := porReferencia(res)
	assert.Equal(t, entity.EstadoPlanCreado, m["SOLO-LOCAL"].Estado)
	assert.Equal(t, entity.EstadoPrimerPago, m["SOLO-REMOTO"].Estado)
	assert.Equal(t, entity.EstadoPlanContratado, m["COMUN"].Estado, "en el plan común gana el local más reciente")
}

func TestFusionarPlanes_Idempotente(t *testing.T) {
	local := []entity.Plan{
		planCon("A", base, entity.EstadoPlanCreado),
		planActualizado("B", base, base.Add(time.Hour), entity.EstadoPlanContratado),
	}
	remoto := []entity.Plan{
		planCon("B", base, entity.EstadoPlanCreado),
		planCon("C", base.Add(time.Minute), entity.EstadoPrimerPago),
	}

	una := appsync.FusionarPlanes(local, remoto)
	dos := appsync.FusionarPlanes(una, remoto)
	assert.Equal(t, porReferencia(una), porReferencia(dos), "refusionar con el mismo remoto no cambia nada")
}

func TestFusionarPlanes_ConmutativaPorClave(t *testing.T) {
	a := []entity.Plan{
		planCon("X", base, entity.EstadoPlanCreado),
		planActualizado("Y", base, base.Add(time.Hour), entity.EstadoPlanContratado),
	}
	b := []entity.Plan{
		planActualizado("X", base, base.Add(2*time.Hour), entity.EstadoPrimerPago),
		planCon("Z", base, entity.EstadoPlanCreado),
	}

	// El ganador por clave no depende del lado, salvo el empate (que aquí no hay)
	ab := porReferencia(appsync.FusionarPlanes(a, b))
	ba := porReferencia(appsync.FusionarPlanes(b, a))
	for ref, p := range ab {
		assert.Equal(t, p.Estado, ba[ref].Estado, "ganador distinto para %s según el orden", ref)
	}
}

func TestFusionarPlanes_LocalGanadorHeredaVersion(t *testing.T) {
	local := planActualizado("P-1", base, base.Add(time.Hour), entity.EstadoPlanContratado)
	local.Version = 0 // nunca escrito en remoto desde este cliente
	remoto := planCon("P-1", base, entity.EstadoPlanCreado)
	remoto.Version = 7

	res := appsync.FusionarPlanes([]entity.Plan{local}, []entity.Plan{remoto})
	require.Len(t, res, 1)
	assert.Equal(t, int64(7), res[0].Version, "el local ganador hereda la etiqueta de versión remota")
	assert.Equal(t, entity.EstadoPlanContratado, res[0].Estado)
}
