package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// LocalCategory key de la categoría resuelta desde la ruta.
const LocalCategory = "category"

// categorySlugs prefijo de ruta de cada categoría.
var categorySlugs = map[string]entity.Category{
	"medications":   entity.CategoryMedication,
	"feeds":         entity.CategoryFeed,
	"land-products": entity.CategoryLandProduct,
}

// WithCategory fija la categoría del grupo de rutas en c.Locals. Los handlers de catálogo
// y stock operan solo sobre productos de esa categoría.
func WithCategory(category entity.Category) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !category.Valid() {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_CATEGORY", Message: "categoría desconocida"})
		}
		c.Locals(LocalCategory, category)
		return c.Next()
	}
}

// GetCategory devuelve la categoría del contexto.
func GetCategory(c *fiber.Ctx) entity.Category {
	cat, _ := c.Locals(LocalCategory).(entity.Category)
	return cat
}
