package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/auth"
	"github.com/refinancia/planes-api/internal/application/dto"
	"github.com/refinancia/planes-api/internal/domain/permisos"
)

// AuthHandler maneja login y listado de usuarios.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", "email y password son requeridos"))
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListarUsuarios godoc
// @Summary      Listar usuarios
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/usuarios [get]
func (h *AuthHandler) ListarUsuarios(c *fiber.Ctx) error {
	usuarios, err := h.uc.ListarUsuarios(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(usuarios))
}

// Capacidades godoc
// @Summary      Capacidades del rol autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/auth/capacidades [get]
func (h *AuthHandler) Capacidades(c *fiber.Ctx) error {
	return c.JSON(dto.OK(permisos.Para(GetRol(c))))
}
