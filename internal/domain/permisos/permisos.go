// Package permisos define la tabla estática de rol → capacidades que consultan
// los casos de uso antes de mutar un plan.
package permisos

// Roles conocidos de la herramienta.
const (
	RolAdmin      = "admin"
	RolSupervisor = "supervisor"
	RolAsesor     = "asesor"
	RolLectura    = "lectura"
)

// Capacidades flags de capacidad por rol.
type Capacidades struct {
	PuedeSimular     bool `json:"puedeSimular"`
	PuedeGuardar     bool `json:"puedeGuardar"`
	PuedeAvanzar     bool `json:"puedeAvanzar"`
	PuedeExportarPDF bool `json:"puedeExportarPDF"`
	PuedeEliminar    bool `json:"puedeEliminar"`
	SoloLectura      bool `json:"soloLectura"`
}

var tabla = map[string]Capacidades{
	RolAdmin: {
		PuedeSimular:     true,
		PuedeGuardar:     true,
		PuedeAvanzar:     true,
		PuedeExportarPDF: true,
		PuedeEliminar:    true,
	},
	RolSupervisor: {
		PuedeSimular:     true,
		PuedeGuardar:     true,
		PuedeAvanzar:     true,
		PuedeExportarPDF: true,
	},
	RolAsesor: {
		PuedeSimular:     true,
		PuedeGuardar:     true,
		PuedeAvanzar:     true,
		PuedeExportarPDF: true,
	},
	RolLectura: {
		SoloLectura: true,
	},
}

// Para devuelve las capacidades del rol. Un rol no reconocido se trata como
// solo lectura (fallo seguro, nunca error).
func Para(rol string) Capacidades {
	if caps, ok := tabla[rol]; ok {
		return caps
	}
	return Capacidades{SoloLectura: true}
}
