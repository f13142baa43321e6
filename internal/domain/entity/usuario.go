package entity

import "time"

// Usuario un asesor de la herramienta, con rol para el control de capacidades.
type Usuario struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nombre       string    `json:"nombre"`
	Rol          string    `json:"rol"` // ver internal/domain/permisos
	PasswordHash string    `json:"-"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
