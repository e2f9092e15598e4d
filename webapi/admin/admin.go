package admin

import (
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/middleware"
	adminsvc "github.com/amirasaad/bankmanager/pkg/service/admin"
	"github.com/amirasaad/bankmanager/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the admin CRUD endpoints. All of them require an admin
// token.
func Routes(r fiber.Router, svc *adminsvc.Service, cfg *config.App) {
	g := r.Group("/admins", middleware.JwtProtected(cfg.Auth.Jwt), middleware.RequireAdmin())
	g.Get("/", List(svc))
	g.Post("/", Create(svc))
	g.Get("/:id", Get(svc))
	g.Put("/:id", Update(svc))
	g.Patch("/:id", Update(svc))
	g.Delete("/:id", Delete(svc))
}

func List(svc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.List(c.UserContext(), common.PageRequest(c))
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]AdminResponse, 0, len(page.Items))
		for _, a := range page.Items {
			out = append(out, ToAdminResponse(a))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

func Create(svc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAdminRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		a, err := svc.Create(c.UserContext(), input.Nom, input.Email, input.MotDePasse)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Administrateur créé avec succès", ToAdminResponse(a))
	}
}

func Get(svc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", ToAdminResponse(a))
	}
}

func Update(svc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateAdminRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		a, err := svc.Update(c.UserContext(), id, adminsvc.Patch{
			Nom:      input.Nom,
			Email:    input.Email,
			Password: input.MotDePasse,
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Administrateur mis à jour avec succès", ToAdminResponse(a))
	}
}

func Delete(svc *adminsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Administrateur supprimé avec succès", nil)
	}
}
