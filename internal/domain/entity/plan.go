package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cliente datos del deudor titular del plan.
type Cliente struct {
	Nombre string `json:"nombre"`
	DNI    string `json:"dni"` // DNI o NIE
	Email  string `json:"email,omitempty"`
}

// Deuda una línea de deuda incluida en el plan.
type Deuda struct {
	Contrato     string          `json:"contrato,omitempty"` // número de contrato, opcional
	Producto     string          `json:"producto"`           // tarjeta, prestamo_personal, microcredito, ...
	Entidad      string          `json:"entidad"`            // entidad acreedora
	Importe      decimal.Decimal `json:"importe"`            // importe original
	Descuento    decimal.Decimal `json:"descuento"`          // porcentaje aplicado, ya acotado por producto
	ImporteFinal decimal.Decimal `json:"importeFinal"`       // importe * (1 - descuento/100)
	Antiguedad   string          `json:"antiguedad,omitempty"`
}

// EventoHistorial entrada del registro de auditoría del plan.
// El historial es append-only y está ordenado cronológicamente por Fecha.
type EventoHistorial struct {
	Fecha       time.Time `json:"fecha"`
	Accion      string    `json:"accion"`
	Estado      Estado    `json:"estado"`
	Descripcion string    `json:"descripcion"`
	Usuario     string    `json:"usuario,omitempty"`
}

// Plan entidad central: un plan de reestructuración de deuda.
//
// Invariantes:
//   - Ahorro == TotalImporte - Σ Deudas[i].ImporteFinal tras cada mutación.
//   - Progreso es función pura del Estado (ProgresoPara).
//   - Referencia es inmutable y única dentro de la colección.
type Plan struct {
	Referencia          string            `json:"referencia"`
	Cliente             Cliente           `json:"cliente"`
	Fecha               time.Time         `json:"fecha"`
	Estado              Estado            `json:"estado"`
	TotalImporte        decimal.Decimal   `json:"totalImporte"`
	TotalFinal          decimal.Decimal   `json:"totalFinal"`
	DescuentoMedio      decimal.Decimal   `json:"descuentoMedio"`
	NumCuotas           int               `json:"numCuotas"`
	CuotaMensual        decimal.Decimal   `json:"cuotaMensual"`
	Ahorro              decimal.Decimal   `json:"ahorro"`
	Comision            decimal.Decimal   `json:"comision"`
	Deudas              []Deuda           `json:"deudas"`
	Historial           []EventoHistorial `json:"historial"`
	Progreso            int               `json:"progreso"`
	FechaContratacion   *time.Time        `json:"fechaContratacion,omitempty"`
	FechaPrimerPago     *time.Time        `json:"fechaPrimerPago,omitempty"`
	UltimaActualizacion *time.Time        `json:"ultimaActualizacion,omitempty"`

	// Version etiqueta de versión del almacén remoto (concurrencia optimista).
	// Cero significa que el plan nunca se ha escrito en remoto.
	Version int64 `json:"version,omitempty"`
}

// FechaEfectiva devuelve max(UltimaActualizacion, Fecha).
// Es el timestamp que decide el ganador en la fusión local/remoto.
func (p *Plan) FechaEfectiva() time.Time {
	if p.UltimaActualizacion != nil && p.UltimaActualizacion.After(p.Fecha) {
		return *p.UltimaActualizacion
	}
	return p.Fecha
}

// Normalizar lleva el estado al modelo canónico y recalcula el progreso.
// Se aplica en lectura: los datos remotos pueden traer estados legacy.
func (p *Plan) Normalizar() {
	p.Estado = NormalizarEstado(string(p.Estado))
	p.Progreso = ProgresoPara(p.Estado)
}

// AgregarEvento añade una entrada al historial.
func (p *Plan) AgregarEvento(fecha time.Time, accion, descripcion, usuario string) {
	p.Historial = append(p.Historial, EventoHistorial{
		Fecha:       fecha,
		Accion:      accion,
		Estado:      p.Estado,
		Descripcion: descripcion,
		Usuario:     usuario,
	})
}
