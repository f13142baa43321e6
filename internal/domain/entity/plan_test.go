package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

func TestFechaEfectiva(t *testing.T) {
	creacion := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	actualizacion := creacion.Add(48 * time.Hour)

	p := entity.Plan{Fecha: creacion}
	assert.Equal(t, creacion, p.FechaEfectiva(), "sin actualización manda la fecha de creación")

	p.UltimaActualizacion = &actualizacion
	assert.Equal(t, actualizacion, p.FechaEfectiva(), "la actualización posterior manda")

	// Una actualización anterior a la creación no debe ganar
	anterior := creacion.Add(-time.Hour)
	p.UltimaActualizacion = &anterior
	assert.Equal(t, creacion, p.FechaEfectiva())
}

func TestNormalizar_RecalculaProgreso(t *testing.T) {
	p := entity.Plan{Estado: entity.Estado("en_pago"), Progreso: 3}
	p.Normalizar()
	assert.Equal(t, entity.EstadoPrimerPago, p.Estado)
	assert.Equal(t, 100, p.Progreso, "el progreso se deriva siempre del estado")
}

func TestAgregarEvento(t *testing.T) {
	p := entity.Plan{Estado: entity.EstadoPlanCreado}
	ahora := time.Now()
	p.AgregarEvento(ahora, "simulacion", "Plan simulado", "ana")
	p.AgregarEvento(ahora.Add(time.Minute), "avance_fase", "Avance a Plan contratado", "ana")

	assert.Len(t, p.Historial, 2)
	assert.Equal(t, "simulacion", p.Historial[0].Accion)
	assert.Equal(t, "ana", p.Historial[1].Usuario)
}
