package auth

import (
	authsvc "github.com/amirasaad/bankmanager/pkg/service/auth"
	"github.com/amirasaad/bankmanager/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(r fiber.Router, authSvc *authsvc.Service) {
	r.Post("/auth/login", Login(authSvc))
}

// Login authenticates an admin and returns a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		a, token, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var resp LoginResponse
		resp.Token = token
		resp.Admin.ID = a.ID.String()
		resp.Admin.Nom = a.Nom
		resp.Admin.Email = a.Email
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Connexion réussie", resp)
	}
}
