// Package http expone la API REST de la herramienta: ciclo de vida de planes,
// borradores, analítica y estado de sincronización.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/analytics"
	"github.com/refinancia/planes-api/internal/application/auth"
	"github.com/refinancia/planes-api/internal/application/planes"
	appsync "github.com/refinancia/planes-api/internal/application/sync"
	"github.com/refinancia/planes-api/internal/domain/permisos"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PlanesUC   *planes.UseCase
	KPIsUC     *analytics.KPIUseCase
	PeriodoUC  *analytics.PeriodoUseCase
	SyncEngine *appsync.Engine
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/capacidades", authHandler.Capacidades)
	protected.Get("/usuarios", RequireRole(permisos.RolAdmin, permisos.RolSupervisor), authHandler.ListarUsuarios)

	// Planes (protegido; las capacidades finas las decide el caso de uso por rol)
	planesGroup := protected.Group("/planes")
	planHandler := NewPlanHandler(deps.PlanesUC)
	planesGroup.Get("/", planHandler.Listar)
	planesGroup.Post("/simular", planHandler.Simular)
	planesGroup.Post("/confirmar", planHandler.Confirmar)
	planesGroup.Get("/:referencia", planHandler.Obtener)
	planesGroup.Post("/:referencia/avanzar", planHandler.Avanzar)
	planesGroup.Delete("/:referencia", planHandler.Eliminar)

	// Borradores (protegido)
	borradores := protected.Group("/borradores")
	borradores.Get("/", planHandler.ListarBorradores)
	borradores.Post("/", planHandler.GuardarBorrador)
	borradores.Delete("/:id", planHandler.EliminarBorrador)

	// Analítica (protegido)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.KPIsUC, deps.PeriodoUC)
	analyticsGroup.Get("/kpis", analyticsHandler.KPIs)
	analyticsGroup.Get("/embudo", analyticsHandler.Embudo)
	analyticsGroup.Get("/periodo", analyticsHandler.Periodo)

	// Sincronización (protegido)
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncEngine)
	syncGroup.Get("/estado", syncHandler.Estado)
	syncGroup.Post("/drenar", syncHandler.Drenar)
	syncGroup.Get("/conflictos", syncHandler.Conflictos)
	syncGroup.Post("/conflictos/:id/resolver", syncHandler.Resolver)
}
