package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/refinancia/planes-api/internal/application/analytics"
	"github.com/refinancia/planes-api/internal/application/dto"
)

// AnalyticsHandler expone KPIs, embudo y reporte de período.
type AnalyticsHandler struct {
	kpis    *analytics.KPIUseCase
	periodo *analytics.PeriodoUseCase
}

// NewAnalyticsHandler construye el handler de analítica.
func NewAnalyticsHandler(kpis *analytics.KPIUseCase, periodo *analytics.PeriodoUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{kpis: kpis, periodo: periodo}
}

// KPIs godoc
// @Summary      Indicadores del mes en curso frente al anterior
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/analytics/kpis [get]
func (h *AnalyticsHandler) KPIs(c *fiber.Ctx) error {
	out, err := h.kpis.KPIs(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Embudo godoc
// @Summary      Conteo de planes por estado del ciclo de vida
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/analytics/embudo [get]
func (h *AnalyticsHandler) Embudo(c *fiber.Ctx) error {
	out, err := h.kpis.Embudo(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Periodo godoc
// @Summary      Reporte de ventana móvil de N meses
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        meses  query  int  false  "Tamaño de la ventana (por defecto 6, máximo 24)"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/analytics/periodo [get]
func (h *AnalyticsHandler) Periodo(c *fiber.Ctx) error {
	meses := c.QueryInt("meses")
	out, err := h.periodo.AgregarPeriodo(c.Context(), meses, time.Now())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.OK(out))
}
