package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/dto"
	appsync "github.com/refinancia/planes-api/internal/application/sync"
	"github.com/refinancia/planes-api/internal/domain/entity"
)

// SyncHandler expone el estado del motor de sincronización, el drenaje manual
// y la resolución de conflictos.
type SyncHandler struct {
	engine *appsync.Engine
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(engine *appsync.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

// Estado godoc
// @Summary      Estado de la sincronización
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/sync/estado [get]
func (h *SyncHandler) Estado(c *fiber.Ctx) error {
	estado, err := h.engine.Estado(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(estado))
}

// Drenar godoc
// @Summary      Drenar la cola de operaciones pendientes
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/sync/drenar [post]
func (h *SyncHandler) Drenar(c *fiber.Ctx) error {
	res, err := h.engine.Drenar(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	// La fusión puede fallar con el remoto caído; el ciclo periódico la reintenta
	_ = h.engine.Sincronizar(c.Context())
	return c.JSON(dto.OK(res))
}

// Conflictos godoc
// @Summary      Listar conflictos pendientes de resolución
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/sync/conflictos [get]
func (h *SyncHandler) Conflictos(c *fiber.Ctx) error {
	return c.JSON(dto.OK(h.engine.Conflictos()))
}

// Resolver godoc
// @Summary      Resolver un conflicto
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "ID del conflicto"
// @Param        body  body  dto.ResolverConflictoRequest  true  "usar_local | usar_remoto | cancelar"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/sync/conflictos/{id}/resolver [post]
func (h *SyncHandler) Resolver(c *fiber.Ctx) error {
	var in dto.ResolverConflictoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	if err := h.engine.Resolver(c.Context(), c.Params("id"), entity.Resolucion(in.Resolucion)); err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"resuelto": true}))
}
