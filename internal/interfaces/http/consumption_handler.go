package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// ConsumptionHandler eventos de consumo (aplicaciones sanitarias, raciones, tratamientos de terreno).
type ConsumptionHandler struct {
	binder *inventory.ConsumptionBinder
	log    *logger.Logger
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(binder *inventory.ConsumptionBinder, log *logger.Logger) *ConsumptionHandler {
	return &ConsumptionHandler{binder: binder, log: log}
}

// Apply godoc
// @Summary      Registrar consumo
// @Description  Descuenta el stock del producto y crea el evento en una sola transacción.
// @Description  El tipo de evento se deriva de la categoría del producto.
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyConsumptionRequest  true  "product_id, quantity, animal/lote y fecha"
// @Success      201   {object}  dto.ConsumptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/consumptions [post]
func (h *ConsumptionHandler) Apply(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyConsumptionRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	ev, err := h.binder.ApplyFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToConsumptionResponse(ev))
}

// GetByID godoc
// @Summary      Obtener evento de consumo
// @Tags         consumptions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.ConsumptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumptions/{id} [get]
func (h *ConsumptionHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, domain.ErrEventNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	ev, err := h.binder.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToConsumptionResponse(ev))
}

// Edit godoc
// @Summary      Editar evento de consumo
// @Description  Si cambia el producto o la cantidad se revierte la salida original y se registra la nueva.
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del evento"
// @Param        body  body  dto.EditConsumptionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ConsumptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consumptions/{id} [put]
func (h *ConsumptionHandler) Edit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := idParam(c, domain.ErrEventNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.EditConsumptionRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	ev, err := h.binder.EditFromRequest(c.Context(), id, userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToConsumptionResponse(ev))
}

// Cancel godoc
// @Summary      Anular evento de consumo
// @Description  Devuelve la cantidad al stock (entrada REVERSAL) y elimina el evento.
// @Tags         consumptions
// @Security     Bearer
// @Param        id   path  string  true  "ID del evento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumptions/{id} [delete]
func (h *ConsumptionHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := idParam(c, domain.ErrEventNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.binder.Cancel(c.Context(), id, userID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
