package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/usecase"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// ProductHandler catálogo de productos de una categoría (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar producto
// @Description  El nombre es único entre los productos activos de la categoría (sin distinguir mayúsculas ni acentos).
// @Description  opening_balance > 0 se registra como una entrada OPENING.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/{category}/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	out, err := h.uc.Register(c.Context(), GetCategory(c), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, domain.ErrProductNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.Context(), GetCategory(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category       path   string  true   "medications | feeds | land-products"
// @Param        name           query  string  false  "Contiene (sin distinguir mayúsculas)"
// @Param        active         query  string  false  "true | false"
// @Param        low_stock      query  bool    false  "Solo saldo <= umbral"
// @Param        expiring_days  query  int     false  "Vencen dentro de N días"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/{category}/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if status, e := bindQuery(c, &q); e != nil {
		return c.Status(status).JSON(e)
	}
	out, err := h.uc.List(c.Context(), GetCategory(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  La unidad de medida no puede cambiar si el producto ya tiene movimientos.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/{category}/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, domain.ErrProductNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateProductRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	out, err := h.uc.Update(c.Context(), GetCategory(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar producto
// @Description  Los productos no se borran; su historial permanece en el libro.
// @Tags         products
// @Security     Bearer
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := idParam(c, domain.ErrProductNotFound)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Deactivate(c.Context(), GetCategory(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
