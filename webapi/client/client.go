package client

import (
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	clientsvc "github.com/amirasaad/bankmanager/pkg/service/client"
	"github.com/amirasaad/bankmanager/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the client CRUD endpoints.
func Routes(r fiber.Router, svc *clientsvc.Service) {
	g := r.Group("/clients")
	g.Get("/", List(svc))
	g.Post("/", Create(svc))
	g.Get("/:id", Get(svc))
	g.Put("/:id", Update(svc))
	g.Patch("/:id", Update(svc))
	g.Delete("/:id", Delete(svc))
}

// List returns clients matching the optional search query on name, e-mail
// or telephone.
func List(svc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.List(c.UserContext(), dto.ClientFilter{
			PageRequest: common.PageRequest(c),
			Search:      c.Query("search"),
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]ClientResponse, 0, len(page.Items))
		for _, cl := range page.Items {
			out = append(out, ToClientResponse(cl))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

func Create(svc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateClientRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		created, err := svc.Create(c.UserContext(), clientsvc.CreateRequest{
			Profile: client.Profile{
				Titulaire: input.Titulaire,
				Email:     input.Email,
				Telephone: input.Telephone,
				Adresse:   input.Adresse,
			},
			Password: input.Password,
			NCI:      input.NCI,
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Client créé avec succès", ToClientResponse(created))
	}
}

func Get(svc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		cl, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", ToClientResponse(cl))
	}
}

func Update(svc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateClientRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		cl, err := svc.Update(c.UserContext(), id, clientsvc.Patch{
			Titulaire: input.Titulaire,
			Email:     input.Email,
			Telephone: input.Telephone,
			Adresse:   input.Adresse,
			Password:  input.Password,
			IsActive:  input.IsActive,
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Client mis à jour avec succès", ToClientResponse(cl))
	}
}

func Delete(svc *clientsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Client supprimé avec succès", nil)
	}
}
