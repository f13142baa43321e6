package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/application/planes"
)

// PlanHandler maneja el ciclo de vida de planes y borradores.
type PlanHandler struct {
	uc *planes.UseCase
}

// NewPlanHandler construye el handler de planes.
func NewPlanHandler(uc *planes.UseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// Listar godoc
// @Summary      Listar planes
// @Tags         planes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/planes [get]
func (h *PlanHandler) Listar(c *fiber.Ctx) error {
	lista, err := h.uc.Listar(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(lista))
}

// Obtener godoc
// @Summary      Obtener un plan por referencia
// @Tags         planes
// @Produce      json
// @Security     BearerAuth
// @Param        referencia  path  string  true  "Referencia del plan"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/planes/{referencia} [get]
func (h *PlanHandler) Obtener(c *fiber.Ctx) error {
	plan, err := h.uc.Obtener(c.Context(), c.Params("referencia"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(plan))
}

// Simular godoc
// @Summary      Simular un plan de refinanciación
// @Tags         planes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SimularRequest  true  "formulario del simulador"
// @Success      201  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIResponse
// @Router       /api/planes/simular [post]
func (h *PlanHandler) Simular(c *fiber.Ctx) error {
	var in dto.SimularRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	res, err := h.uc.Simular(c.Context(), GetRol(c), GetNombre(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(res))
}

// Confirmar godoc
// @Summary      Confirmar (contratar) un plan
// @Tags         planes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SimularRequest  true  "formulario del simulador"
// @Success      201  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIResponse
// @Router       /api/planes/confirmar [post]
func (h *PlanHandler) Confirmar(c *fiber.Ctx) error {
	var in dto.SimularRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	res, err := h.uc.Confirmar(c.Context(), GetRol(c), GetNombre(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(res))
}

// Avanzar godoc
// @Summary      Avanzar el plan a la siguiente fase
// @Tags         planes
// @Produce      json
// @Security     BearerAuth
// @Param        referencia  path  string  true  "Referencia del plan"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Failure      409  {object}  dto.APIResponse
// @Router       /api/planes/{referencia}/avanzar [post]
func (h *PlanHandler) Avanzar(c *fiber.Ctx) error {
	res, err := h.uc.Avanzar(c.Context(), GetRol(c), GetNombre(c), c.Params("referencia"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(res))
}

// Eliminar godoc
// @Summary      Eliminar un plan
// @Tags         planes
// @Produce      json
// @Security     BearerAuth
// @Param        referencia  path  string  true  "Referencia del plan"
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/planes/{referencia} [delete]
func (h *PlanHandler) Eliminar(c *fiber.Ctx) error {
	if err := h.uc.Eliminar(c.Context(), GetRol(c), c.Params("referencia")); err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"eliminado": true}))
}

// GuardarBorrador godoc
// @Summary      Guardar el formulario como borrador
// @Tags         borradores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BorradorRequest  true  "formulario parcial"
// @Success      201  {object}  dto.APIResponse
// @Router       /api/borradores [post]
func (h *PlanHandler) GuardarBorrador(c *fiber.Ctx) error {
	var in dto.BorradorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	b, err := h.uc.GuardarBorrador(c.Context(), GetRol(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(b))
}

// ListarBorradores godoc
// @Summary      Listar borradores
// @Tags         borradores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/borradores [get]
func (h *PlanHandler) ListarBorradores(c *fiber.Ctx) error {
	lista, err := h.uc.ListarBorradores(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(lista))
}

// EliminarBorrador godoc
// @Summary      Eliminar un borrador
// @Tags         borradores
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del borrador"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/borradores/{id} [delete]
func (h *PlanHandler) EliminarBorrador(c *fiber.Ctx) error {
	if err := h.uc.EliminarBorrador(c.Context(), GetRol(c), c.Params("id")); err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"eliminado": true}))
}
