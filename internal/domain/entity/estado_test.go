package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

func TestNormalizarEstado_Legacy(t *testing.T) {
	casos := map[string]entity.Estado{
		"simulado":       entity.EstadoPlanCreado,
		"contratado":     entity.EstadoPlanContratado,
		"en_negociacion": entity.EstadoPlanContratado,
		"aprobado":       entity.EstadoPlanContratado,
		"en_pago":        entity.EstadoPrimerPago,
		"completado":     entity.EstadoPrimerPago,
		"cancelado":      entity.EstadoPlanCreado,
		"":               entity.EstadoPlanCreado,
		"cualquier_cosa": entity.EstadoPlanCreado,
	}
	for raw, esperado := range casos {
		assert.Equal(t, esperado, entity.NormalizarEstado(raw), "estado legacy %q", raw)
	}
}

func TestNormalizarEstado_Idempotente(t *testing.T) {
	entradas := []string{"simulado", "en_pago", "plan_contratado", "", "xyz"}
	for _, raw := range entradas {
		una := entity.NormalizarEstado(raw)
		dos := entity.NormalizarEstado(string(una))
		assert.Equal(t, una, dos, "normalizar dos veces %q debe dar lo mismo", raw)
	}
}

func TestSiguiente_SoloHaciaAdelante(t *testing.T) {
	sig, ok := entity.Siguiente(entity.EstadoPlanCreado)
	assert.True(t, ok)
	assert.Equal(t, entity.EstadoPlanContratado, sig)

	sig, ok = entity.Siguiente(entity.EstadoPlanContratado)
	assert.True(t, ok)
	assert.Equal(t, entity.EstadoPrimerPago, sig)

	// primer_pago es terminal
	_, ok = entity.Siguiente(entity.EstadoPrimerPago)
	assert.False(t, ok, "primer_pago no tiene sucesor")
}

func TestPuedeTransitar(t *testing.T) {
	assert.True(t, entity.PuedeTransitar(entity.EstadoPlanCreado, entity.EstadoPlanContratado))
	assert.True(t, entity.PuedeTransitar(entity.EstadoPlanContratado, entity.EstadoPrimerPago))

	// Ni hacia atrás ni saltando estados
	assert.False(t, entity.PuedeTransitar(entity.EstadoPlanContratado, entity.EstadoPlanCreado))
	assert.False(t, entity.PuedeTransitar(entity.EstadoPrimerPago, entity.EstadoPlanContratado))
	assert.False(t, entity.PuedeTransitar(entity.EstadoPlanCreado, entity.EstadoPrimerPago))
}

func TestProgresoPara(t *testing.T) {
	assert.Equal(t, 25, entity.ProgresoPara(entity.EstadoPlanCreado))
	assert.Equal(t, 50, entity.ProgresoPara(entity.EstadoPlanContratado))
	assert.Equal(t, 100, entity.ProgresoPara(entity.EstadoPrimerPago))
	assert.Equal(t, 0, entity.ProgresoPara(entity.Estado("otro")))
}
