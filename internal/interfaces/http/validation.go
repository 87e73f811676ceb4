package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator validador compartido; los errores usan el nombre JSON (o query) del campo.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// bindJSON decodifica el body y valida los tags. Devuelve el cuerpo de error a responder o nil.
func bindJSON(c *fiber.Ctx, out any) (int, *dto.ErrorResponse) {
	if err := c.BodyParser(out); err != nil {
		return fiber.StatusBadRequest, &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	return validateStruct(out)
}

// bindQuery decodifica los query params y valida los tags.
func bindQuery(c *fiber.Ctx, out any) (int, *dto.ErrorResponse) {
	if err := c.QueryParser(out); err != nil {
		return fiber.StatusBadRequest, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"}
	}
	return validateStruct(out)
}

// idParam lee el :id de la ruta. Un id que no es UUID no puede existir: responde notFound.
func idParam(c *fiber.Ctx, notFound error) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", notFound
	}
	return id, nil
}

func validateStruct(out any) (int, *dto.ErrorResponse) {
	err := getValidator().Struct(out)
	if err == nil {
		return 0, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.StatusBadRequest, &dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fiber.StatusUnprocessableEntity, &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "uuid":
		return "debe ser un UUID"
	case "datetime":
		return "formato de fecha YYYY-MM-DD"
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "valores permitidos: " + fe.Param()
	}
	return "valor inválido"
}
