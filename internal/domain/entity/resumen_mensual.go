package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ResumenMensual agregado de analítica de un mes calendario, con clave (Anio, Mes).
// Se crea de forma perezosa en la primera escritura del mes y se actualiza de
// forma incremental con cada mutación de plan; nunca se recalcula desde cero.
type ResumenMensual struct {
	Anio              int             `json:"anio"`
	Mes               int             `json:"mes"` // 1-12
	PlanesCreados     int             `json:"planesCreados"`
	PlanesContratados int             `json:"planesContratados"`
	PrimerosPagos     int             `json:"primerosPagos"`
	AhorroTotal       decimal.Decimal `json:"ahorroTotal"`
	ComisionesTotal   decimal.Decimal `json:"comisionesTotal"`
	ClientesUnicos    map[string]bool `json:"clientesUnicos"` // set de DNI
	PorProducto       map[string]int  `json:"porProducto"`
	PorEntidad        map[string]int  `json:"porEntidad"`
	PorEstado         map[string]int  `json:"porEstado"`
}

// NuevoResumenMensual crea un resumen vacío con los mapas inicializados.
func NuevoResumenMensual(anio, mes int) *ResumenMensual {
	return &ResumenMensual{
		Anio:            anio,
		Mes:             mes,
		AhorroTotal:     decimal.Zero,
		ComisionesTotal: decimal.Zero,
		ClientesUnicos:  make(map[string]bool),
		PorProducto:     make(map[string]int),
		PorEntidad:      make(map[string]int),
		PorEstado:       make(map[string]int),
	}
}

// Clave devuelve la clave de almacenamiento "YYYY-MM".
func (r *ResumenMensual) Clave() string {
	return ClaveMes(r.Anio, r.Mes)
}

// ClaveMes construye la clave "YYYY-MM" para un mes calendario.
func ClaveMes(anio, mes int) string {
	return fmt.Sprintf("%04d-%02d", anio, mes)
}
