package entity

import (
	"encoding/json"
	"time"
)

// Tipos de operación pendiente de sincronizar.
const (
	OperacionPlan    = "plan"
	OperacionEntrada = "entrada"
)

// OperacionPendiente una mutación encolada mientras el remoto no está disponible.
// La cola es FIFO y no deduplica: un mismo plan puede aparecer varias veces si
// se guardó repetidamente offline (semántica at-least-once; el último valor en
// la cola es el autoritativo en remoto al drenar).
type OperacionPendiente struct {
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"` // "plan" | "entrada"
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Conflicto registro de un conflicto de escritura remota pendiente de resolución
// explícita por el usuario. Bloquea solo al plan afectado, nunca a la colección.
type Conflicto struct {
	ID         string    `json:"id"`
	Referencia string    `json:"referencia"`
	Local      *Plan     `json:"local"`
	Remoto     *Plan     `json:"remoto"`
	Timestamp  time.Time `json:"timestamp"`
}

// Resolución de un conflicto.
type Resolucion string

const (
	ResolucionUsarLocal  Resolucion = "usar_local"
	ResolucionUsarRemoto Resolucion = "usar_remoto"
	ResolucionCancelar   Resolucion = "cancelar"
)
