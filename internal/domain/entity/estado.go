package entity

// Estado del ciclo de vida de un plan de reestructuración.
type Estado string

// Modelo canónico de 3 estados. Las transiciones son solo hacia adelante:
// plan_creado → plan_contratado → primer_pago.
const (
	EstadoPlanCreado     Estado = "plan_creado"
	EstadoPlanContratado Estado = "plan_contratado"
	EstadoPrimerPago     Estado = "primer_pago"

	// EstadoBorrador marca un borrador sin ciclo de vida (nunca entra a la máquina de estados).
	EstadoBorrador Estado = "borrador"
)

// Tabla de normalización de estados legacy (texto libre) al modelo canónico.
var estadosLegacy = map[string]Estado{
	"simulado":       EstadoPlanCreado,
	"contratado":     EstadoPlanContratado,
	"en_negociacion": EstadoPlanContratado,
	"aprobado":       EstadoPlanContratado,
	"en_pago":        EstadoPrimerPago,
	"completado":     EstadoPrimerPago,
	"cancelado":      EstadoPlanCreado,
}

// NormalizarEstado mapea un estado legacy o canónico al modelo canónico.
// Entrada vacía o no reconocida devuelve plan_creado. Es idempotente:
// NormalizarEstado(NormalizarEstado(x)) == NormalizarEstado(x).
func NormalizarEstado(raw string) Estado {
	switch Estado(raw) {
	case EstadoPlanCreado, EstadoPlanContratado, EstadoPrimerPago:
		return Estado(raw)
	}
	if e, ok := estadosLegacy[raw]; ok {
		return e
	}
	return EstadoPlanCreado
}

// Siguiente devuelve el estado sucesor. ok es false si el estado es terminal
// (o no pertenece a la máquina de estados).
func Siguiente(e Estado) (Estado, bool) {
	switch e {
	case EstadoPlanCreado:
		return EstadoPlanContratado, true
	case EstadoPlanContratado:
		return EstadoPrimerPago, true
	}
	return e, false
}

// PuedeTransitar devuelve true solo para las dos aristas hacia adelante.
// No existen transiciones hacia atrás ni saltos de estado.
func PuedeTransitar(desde, hacia Estado) bool {
	sig, ok := Siguiente(desde)
	return ok && sig == hacia
}

// ProgresoPara devuelve el porcentaje de progreso derivado del estado (25/50/100).
// Es función pura del estado; nunca se asigna de forma independiente.
func ProgresoPara(e Estado) int {
	switch e {
	case EstadoPlanCreado:
		return 25
	case EstadoPlanContratado:
		return 50
	case EstadoPrimerPago:
		return 100
	}
	return 0
}

// EtiquetaEstado devuelve el nombre legible del estado para historial y avisos.
func EtiquetaEstado(e Estado) string {
	switch e {
	case EstadoPlanCreado:
		return "Plan creado"
	case EstadoPlanContratado:
		return "Plan contratado"
	case EstadoPrimerPago:
		return "Primer pago"
	}
	return string(e)
}
