package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// BindAndValidate parses the request body into T and validates it.
// Failures are returned as VALIDATION_ERROR domain errors.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, domain.NewValidationError(map[string]string{
			"body": "Le corps de la requête est invalide",
		})
	}
	if err := Validate(input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Validate checks the validate tags of input.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return domain.NewValidationError(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Ce champ est requis"
	case "email":
		return "L'email doit être valide"
	case "oneof":
		return "La valeur doit être l'une de : " + fe.Param()
	case "min":
		return "La valeur est trop courte ou trop petite (min " + fe.Param() + ")"
	case "max":
		return "La valeur est trop longue ou trop grande (max " + fe.Param() + ")"
	case "uuid", "uuid4":
		return "L'identifiant doit être un UUID"
	case "gt":
		return "La valeur doit être supérieure à " + fe.Param()
	default:
		return "La valeur est invalide"
	}
}
