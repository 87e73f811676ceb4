package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// PlotHandler consultas de cuarentena de lotes.
type PlotHandler struct {
	uc  *inventory.QuarantineUseCase
	log *logger.Logger
	now func() time.Time
}

// NewPlotHandler construye el handler.
func NewPlotHandler(uc *inventory.QuarantineUseCase, log *logger.Logger, now func() time.Time) *PlotHandler {
	if now == nil {
		now = time.Now
	}
	return &PlotHandler{uc: uc, log: log, now: now}
}

// Block godoc
// @Summary      Estado de cuarentena de un lote
// @Description  blocked=true mientras alguna carencia vigente impida el ingreso de animales.
// @Tags         plots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.PlotBlockResponse
// @Router       /api/plots/{id}/block [get]
func (h *PlotHandler) Block(c *fiber.Ctx) error {
	out, err := h.uc.PlotBlocked(c.Context(), c.Params("id"), h.now())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Releases godoc
// @Summary      Próximas liberaciones de lotes
// @Tags         plots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (1..365)"  default(7)
// @Success      200  {object}  dto.PlotReleaseListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/plots/releases [get]
func (h *PlotHandler) Releases(c *fiber.Ctx) error {
	out, err := h.uc.UpcomingReleases(c.Context(), h.now(), c.QueryInt("days", 7))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
