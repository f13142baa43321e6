// Package finanzas contiene la aritmética de importes y porcentajes:
// descuentos, cuotas, comisiones y variaciones porcentuales.
// Todos los cálculos usan decimales; el redondeo a 2 decimales se aplica
// en los valores de salida, no en los intermedios.
package finanzas

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/refinancia/planes-api/internal/domain"
	"github.com/refinancia/planes-api/internal/domain/entity"
)

var (
	cien = decimal.NewFromInt(100)

	// Modelo de comisión: base sobre la deuda final + honorario de éxito sobre el ahorro.
	comisionBase  = decimal.NewFromFloat(0.15)
	comisionExito = decimal.NewFromFloat(0.25)
)

// Descuento máximo negociable por tipo de producto (porcentaje).
var maxDescuentoPorProducto = map[string]decimal.Decimal{
	"tarjeta":           decimal.NewFromInt(70),
	"prestamo_personal": decimal.NewFromInt(60),
	"microcredito":      decimal.NewFromInt(50),
	"linea_credito":     decimal.NewFromInt(55),
	"hipoteca":          decimal.NewFromInt(20),
}

// maxDescuentoDefecto tope para productos no catalogados.
var maxDescuentoDefecto = decimal.NewFromInt(50)

// MaxDescuentoProducto devuelve el descuento máximo permitido para el producto.
func MaxDescuentoProducto(producto string) decimal.Decimal {
	if max, ok := maxDescuentoPorProducto[producto]; ok {
		return max
	}
	return maxDescuentoDefecto
}

// AplicarDescuento devuelve importe * (1 - descuentoPct/100).
// Falla con ErrImporteInvalido si el importe es negativo; el porcentaje se
// acota a [0, 100] en lugar de fallar.
func AplicarDescuento(importe, descuentoPct decimal.Decimal) (decimal.Decimal, error) {
	if importe.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrImporteInvalido, importe)
	}
	pct := acotar(descuentoPct, decimal.Zero, cien)
	return importe.Mul(cien.Sub(pct)).Div(cien), nil
}

// AcotarDescuento acota el porcentaje al rango [0, máximo del producto].
func AcotarDescuento(producto string, descuentoPct decimal.Decimal) decimal.Decimal {
	return acotar(descuentoPct, decimal.Zero, MaxDescuentoProducto(producto))
}

// DescuentoMedioSimple devuelve la media simple (no ponderada por importe) de
// los descuentos de las deudas con importe > 0. Lista vacía devuelve 0.
//
// La media es deliberadamente simple: así es como el producto define
// "descuento medio", aunque lo habitual sería ponderar por importe.
func DescuentoMedioSimple(deudas []entity.Deuda) decimal.Decimal {
	var suma decimal.Decimal
	n := 0
	for _, d := range deudas {
		if !d.Importe.IsPositive() {
			continue
		}
		suma = suma.Add(d.Descuento)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return suma.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// Comision calcula la comisión de un plan: deudaFinal*0.15 + ahorro*0.25.
// El mismo modelo se usa en los KPIs y en los resúmenes mensuales.
func Comision(deudaFinal, ahorro decimal.Decimal) decimal.Decimal {
	return deudaFinal.Mul(comisionBase).Add(ahorro.Mul(comisionExito)).Round(2)
}

// CuotaMensual divide el total final entre el número de cuotas, a 2 decimales.
// Con cero cuotas devuelve el total (pago único).
func CuotaMensual(totalFinal decimal.Decimal, numCuotas int) decimal.Decimal {
	if numCuotas <= 0 {
		return totalFinal.Round(2)
	}
	return totalFinal.Div(decimal.NewFromInt(int64(numCuotas))).Round(2)
}

// CambioPorcentual devuelve ((actual - anterior) / anterior) * 100.
// Regla de guarda contra división por cero: si anterior == 0, el cambio es 100
// cuando actual > 0 y 0 en caso contrario. Nunca devuelve NaN ni infinito.
func CambioPorcentual(actual, anterior decimal.Decimal) decimal.Decimal {
	if anterior.IsZero() {
		if actual.IsPositive() {
			return cien
		}
		return decimal.Zero
	}
	return actual.Sub(anterior).Div(anterior).Mul(cien).Round(2)
}

func acotar(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
