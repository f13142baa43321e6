package dto

import "time"

// EstadoSyncDTO estado del motor de sincronización.
type EstadoSyncDTO struct {
	Pendientes           int        `json:"pendientes"`
	Conflictos           int        `json:"conflictos"`
	UltimaSincronizacion *time.Time `json:"ultimaSincronizacion,omitempty"`
}

// DrenajeDTO resultado de un drenaje de la cola de pendientes.
type DrenajeDTO struct {
	Exitosas int `json:"exitosas"`
	Fallidas int `json:"fallidas"`
}

// ResolverConflictoRequest resolución elegida por el usuario.
type ResolverConflictoRequest struct {
	Resolucion string `json:"resolucion"` // usar_local | usar_remoto | cancelar
}
