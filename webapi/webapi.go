// Package webapi provides the HTTP API of the bank manager. It is
// organized into sub-packages for the different resources:
//   - account: account lifecycle, balance and archive lookups
//   - client: client management
//   - transaction: ledger entries
//   - admin: back-office operators
//   - auth: admin login
package webapi

import (
	_ "github.com/amirasaad/bankmanager/cmd/server/swagger"
	"github.com/amirasaad/bankmanager/pkg/app"
	accountweb "github.com/amirasaad/bankmanager/webapi/account"
	adminweb "github.com/amirasaad/bankmanager/webapi/admin"
	authweb "github.com/amirasaad/bankmanager/webapi/auth"
	clientweb "github.com/amirasaad/bankmanager/webapi/client"
	"github.com/amirasaad/bankmanager/webapi/common"
	transactionweb "github.com/amirasaad/bankmanager/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:      "bankmanager",
		ErrorHandler: common.ErrorHandler,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(common.RequestID())
	fiberApp.Use(common.Version())
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))
	fiberApp.Use(common.RateLimiter(app.Config.RateLimit))
	if app.Config.Env == "development" {
		fiberApp.Use(logger.New())
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Bank manager API is running", fiber.Map{
			"version": common.APIVersion,
		})
	})

	api := fiberApp.Group("/api/"+common.APIVersion, common.RequestLogger(app.Deps.Logger))
	accountweb.Routes(api, app.AccountService, app.Config)
	clientweb.Routes(api, app.ClientService)
	transactionweb.Routes(api, app.TransactionService)
	adminweb.Routes(api, app.AdminService, app.Config)
	authweb.Routes(api, app.AuthService)
	return fiberApp
}
