package common

import (
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PageRequest reads the page and limit query parameters.
func PageRequest(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", dto.DefaultPageSize),
	}.Normalize()
}

// ParamUUID parses the named path parameter as a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, InvalidID(name)
	}
	return id, nil
}

// InvalidID is the validation error of a malformed UUID field.
func InvalidID(field string) error {
	return domain.NewValidationError(map[string]string{
		field: "L'identifiant doit être un UUID",
	})
}
