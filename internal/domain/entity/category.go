package entity

// Category agrupa los productos del libro de stock. Cada categoría tiene su propia política
// (umbrales de pronóstico, carencia) inyectada desde configuración.
type Category string

const (
	CategoryMedication  Category = "MEDICATION"   // medicamentos (sanidad animal)
	CategoryFeed        Category = "FEED"         // raciones y suplementos
	CategoryLandProduct Category = "LAND_PRODUCT" // insumos de manejo de terreno
)

// Categories lista las categorías soportadas en orden estable.
var Categories = []Category{CategoryMedication, CategoryFeed, CategoryLandProduct}

// Valid indica si la categoría es una de las soportadas.
func (c Category) Valid() bool {
	switch c {
	case CategoryMedication, CategoryFeed, CategoryLandProduct:
		return true
	}
	return false
}

// ConsumptionKind devuelve el tipo de evento de consumo que genera un producto de la categoría.
func (c Category) ConsumptionKind() string {
	switch c {
	case CategoryMedication:
		return ConsumptionHealthApplication
	case CategoryFeed:
		return ConsumptionFeedSupply
	case CategoryLandProduct:
		return ConsumptionLandTreatment
	}
	return ""
}
