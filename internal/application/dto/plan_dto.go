package dto

import (
	"github.com/shopspring/decimal"

	"github.com/refinancia/planes-api/internal/domain/entity"
)

// DeudaRequest línea de deuda del formulario del simulador.
type DeudaRequest struct {
	Contrato   string          `json:"contrato"`
	Producto   string          `json:"producto"`
	Entidad    string          `json:"entidad"`
	Importe    decimal.Decimal `json:"importe"`
	Descuento  decimal.Decimal `json:"descuento"`
	Antiguedad string          `json:"antiguedad"`
}

// SimularRequest entrada del simulador (también usada por la confirmación directa).
type SimularRequest struct {
	NombreDeudor string         `json:"nombreDeudor"`
	DNI          string         `json:"dni"`
	Email        string         `json:"email"`
	NumCuotas    int            `json:"numCuotas"`
	Deudas       []DeudaRequest `json:"deudas"`
}

// BorradorRequest formulario guardado como borrador, sin validar.
type BorradorRequest struct {
	NombreDeudor string         `json:"nombreDeudor"`
	DNI          string         `json:"dni"`
	Email        string         `json:"email"`
	NumCuotas    int            `json:"numCuotas"`
	Deudas       []DeudaRequest `json:"deudas"`
}

// GuardadoResponse resultado de una mutación de plan. Offline indica que la
// escritura remota quedó encolada; Conflicto que el remoto rechazó la escritura
// y requiere resolución explícita.
type GuardadoResponse struct {
	Plan      *entity.Plan      `json:"plan"`
	Offline   bool              `json:"offline"`
	Conflicto *entity.Conflicto `json:"conflicto,omitempty"`
	Aviso     string            `json:"aviso,omitempty"`
}
