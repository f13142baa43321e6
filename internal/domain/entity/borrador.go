package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeudaBorrador línea de deuda de un borrador, sin campos calculados.
type DeudaBorrador struct {
	Contrato   string          `json:"contrato,omitempty"`
	Producto   string          `json:"producto"`
	Entidad    string          `json:"entidad"`
	Importe    decimal.Decimal `json:"importe"`
	Descuento  decimal.Decimal `json:"descuento"`
	Antiguedad string          `json:"antiguedad,omitempty"`
}

// Borrador un plan en preparación que aún no se ha simulado.
// Comparte los campos de formulario del Plan pero no tiene ciclo de vida:
// nunca lleva historial ni progreso, y su estado es el marcador fijo "borrador".
type Borrador struct {
	ID        string          `json:"id"`
	Cliente   Cliente         `json:"cliente"`
	NumCuotas int             `json:"numCuotas"`
	Deudas    []DeudaBorrador `json:"deudas"`
	Estado    Estado          `json:"estado"` // siempre EstadoBorrador
	Creado    time.Time       `json:"creado"`
}
