package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado       = errors.New("recurso no encontrado")
	ErrUsuarioNoEncontrado = errors.New("usuario no encontrado")
	ErrValidacion         = errors.New("entrada inválida")
	ErrImporteInvalido    = errors.New("importe inválido")
	ErrPermisoDenegado    = errors.New("permiso denegado")
	ErrEstadoTerminal     = errors.New("el plan está en su estado final")
	ErrConflicto          = errors.New("el registro remoto cambió de forma concurrente")
	ErrIOTransitorio      = errors.New("almacén remoto no disponible")
	ErrDatosIncompletos   = errors.New("datos incompletos en la respuesta del colaborador")
	ErrNoAutorizado       = errors.New("no autorizado")
	ErrDuplicado          = errors.New("recurso duplicado")
)
