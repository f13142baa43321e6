package dto

import "github.com/shopspring/decimal"

// KPIsDTO indicadores del mes en curso frente al mes anterior.
// Los cambios son porcentuales y están protegidos contra división por cero.
type KPIsDTO struct {
	TotalPlanes      int             `json:"totalPlanes"`
	CambioPlanes     decimal.Decimal `json:"cambioPlanes"`
	TasaConversion   decimal.Decimal `json:"tasaConversion"`
	CambioConversion decimal.Decimal `json:"cambioConversion"`
	AhorroTotal      decimal.Decimal `json:"ahorroTotal"`
	CambioAhorro     decimal.Decimal `json:"cambioAhorro"`
	ComisionesTotal  decimal.Decimal `json:"comisionesTotal"`
	CambioComisiones decimal.Decimal `json:"cambioComisiones"`
}

// EmbudoDTO conteo de planes por estado del ciclo de vida.
type EmbudoDTO struct {
	PlanCreado     int `json:"plan_creado"`
	PlanContratado int `json:"plan_contratado"`
	PrimerPago     int `json:"primer_pago"`
}

// MesPeriodoDTO una fila mensual del reporte de período.
// Los meses sin resumen aparecen a cero con su etiqueta calendario correcta.
type MesPeriodoDTO struct {
	Etiqueta          string          `json:"etiqueta"` // ej. "Febrero 2026"
	Anio              int             `json:"anio"`
	Mes               int             `json:"mes"`
	PlanesCreados     int             `json:"planesCreados"`
	PlanesContratados int             `json:"planesContratados"`
	PrimerosPagos     int             `json:"primerosPagos"`
	AhorroTotal       decimal.Decimal `json:"ahorroTotal"`
	ComisionesTotal   decimal.Decimal `json:"comisionesTotal"`
	TasaConversion    decimal.Decimal `json:"tasaConversion"`
}

// TotalesPeriodoDTO agregados de la ventana completa.
type TotalesPeriodoDTO struct {
	PlanesCreados     int             `json:"planesCreados"`
	PlanesContratados int             `json:"planesContratados"`
	PrimerosPagos     int             `json:"primerosPagos"`
	AhorroTotal       decimal.Decimal `json:"ahorroTotal"`
	ComisionesTotal   decimal.Decimal `json:"comisionesTotal"`
	ClientesUnicos    int             `json:"clientesUnicos"`
	TasaConversion    decimal.Decimal `json:"tasaConversion"`
	PorProducto       map[string]int  `json:"porProducto"`
	PorEntidad        map[string]int  `json:"porEntidad"`
	PorEstado         map[string]int  `json:"porEstado"`
}

// CambiosDTO variación mes a mes entre las dos filas más recientes de la ventana.
type CambiosDTO struct {
	PlanesCreados     decimal.Decimal `json:"planesCreados"`
	PlanesContratados decimal.Decimal `json:"planesContratados"`
	Ahorro            decimal.Decimal `json:"ahorro"`
	Comisiones        decimal.Decimal `json:"comisiones"`
}

// PeriodoDTO reporte de ventana móvil de N meses, en orden cronológico.
type PeriodoDTO struct {
	Meses   []MesPeriodoDTO   `json:"meses"`
	Totales TotalesPeriodoDTO `json:"totales"`
	Cambios CambiosDTO        `json:"cambios"`
}
