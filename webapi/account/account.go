package account

import (
	"errors"
	"strings"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/middleware"
	accountsvc "github.com/amirasaad/bankmanager/pkg/service/account"
	"github.com/amirasaad/bankmanager/webapi/common"
	transactionweb "github.com/amirasaad/bankmanager/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the account endpoints.
//
// Routes:
//   - GET    /comptes                       : List accounts.
//   - POST   /comptes                       : Open an account.
//   - GET    /comptes/archives              : List archived savings accounts.
//   - GET    /comptes/:numero               : Show an account, live or archived.
//   - PUT    /comptes/:numero               : Update the holder of an account.
//   - DELETE /comptes/:numero               : Close an account (admin only).
//   - POST   /comptes/:numero/bloquer       : Block a savings account.
//   - POST   /comptes/:numero/debloquer     : Unblock an account.
//   - GET    /comptes/:numero/transactions  : List the account transactions.
//   - GET    /comptes/:numero/solde         : Derived balance.
func Routes(r fiber.Router, svc *accountsvc.Service, cfg *config.App) {
	g := r.Group("/comptes")
	g.Get("/", List(svc))
	g.Post("/", Open(svc))
	g.Get("/archives", ListArchived(svc))
	g.Get("/:numero", Get(svc))
	g.Put("/:numero", Update(svc))
	g.Patch("/:numero", Update(svc))
	g.Delete("/:numero", middleware.JwtProtected(cfg.Auth.Jwt), middleware.RequireAdmin(), Close(svc))
	g.Post("/:numero/bloquer", Block(svc))
	g.Post("/:numero/debloquer", Unblock(svc))
	g.Get("/:numero/transactions", Transactions(svc))
	g.Get("/:numero/solde", Balance(svc))
}

// parseType accepts the legacy "cheque" alias of courant.
func parseType(s string) account.Type {
	if strings.EqualFold(s, "cheque") {
		return account.Courant
	}
	return account.Type(strings.ToLower(s))
}

// List returns a handler listing accounts. Without a statut filter only
// actif accounts are returned.
func List(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := dto.AccountFilter{
			PageRequest: common.PageRequest(c),
			Status:      account.Status(c.Query("statut")),
			Search:      c.Query("search"),
			Sort:        c.Query("sort", dto.SortDateCreation),
			Order:       c.Query("order", "desc"),
		}
		if t := c.Query("type"); t != "" {
			filter.Type = parseType(t)
		}
		page, err := svc.List(c.UserContext(), filter)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]AccountResponse, 0, len(page.Items))
		// Listings show the materialized solde, the column sort=solde orders by.
		for _, a := range page.Items {
			out = append(out, ToAccountResponse(a, a.CachedBalance))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

// Open returns a handler opening an account. A client is provisioned when
// the body does not reference an existing one.
func Open(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OpenAccountRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		req := accountsvc.OpenRequest{
			Type:         account.Type(input.Type),
			SoldeInitial: input.SoldeInitial,
			Devise:       input.Devise,
		}
		if input.Client.ID != "" {
			id := uuid.MustParse(input.Client.ID)
			req.ClientID = &id
		} else {
			req.Client = &accountsvc.NewClient{
				Titulaire: input.Client.Titulaire,
				Email:     input.Client.Email,
				Telephone: input.Client.Telephone,
				Adresse:   input.Client.Adresse,
			}
		}
		opened, err := svc.Open(c.UserContext(), req)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Compte créé avec succès", OpenedResponse{
			AccountResponse: ToAccountResponse(opened.Account, opened.Account.CachedBalance),
			NouveauClient:   opened.Provisioned,
		})
	}
}

func ListArchived(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := svc.ListArchived(c.UserContext(), common.PageRequest(c))
		out := make([]AccountResponse, 0, len(page.Items))
		for _, r := range page.Items {
			out = append(out, ToArchivedResponse(r))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

// Get returns a handler showing one account. Accounts no longer held
// locally are looked up in the archive.
func Get(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		v, err := svc.Get(c.UserContext(), numero)
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		if v.Archived != nil {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "", ToArchivedResponse(*v.Archived))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", ToAccountResponse(v.Account, v.Balance))
	}
}

func Update(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		req := accountsvc.UpdateRequest{Titulaire: input.Titulaire}
		if info := input.InformationsClient; info != nil {
			req.Telephone = info.Telephone
			req.Email = info.Email
			req.Password = info.Password
			req.NCI = info.NCI
		}
		v, err := svc.Update(c.UserContext(), numero, req)
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Compte mis à jour avec succès",
			ToAccountResponse(v.Account, v.Balance))
	}
}

func Close(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		v, err := svc.Close(c.UserContext(), numero)
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Compte fermé avec succès",
			ToAccountResponse(v.Account, v.Balance))
	}
}

func Block(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		input, err := common.BindAndValidate[BlockRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		v, err := svc.Block(c.UserContext(), numero, account.BlockRequest{
			Reason:   input.Motif,
			Duration: input.Duree,
			Unit:     account.DurationUnit(input.Unite),
		})
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Compte bloqué avec succès",
			ToAccountResponse(v.Account, v.Balance))
	}
}

func Unblock(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		input, err := common.BindAndValidate[UnblockRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		v, err := svc.Unblock(c.UserContext(), numero, input.Motif)
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Compte débloqué avec succès",
			ToAccountResponse(v.Account, v.Balance))
	}
}

func Transactions(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		page, err := svc.Transactions(c.UserContext(), numero, common.PageRequest(c))
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		out := make([]transactionweb.TransactionResponse, 0, len(page.Items))
		for _, t := range page.Items {
			out = append(out, transactionweb.ToTransactionResponse(t))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

func Balance(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		numero := c.Params("numero")
		v, err := svc.Get(c.UserContext(), numero)
		if err != nil {
			return common.ErrorJSON(c, withNumber(err, numero))
		}
		var devise string
		if v.Account != nil {
			devise = v.Account.Currency
		} else {
			devise = v.Archived.Devise
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", BalanceResponse{
			NumeroCompte: numero,
			Solde:        v.Balance,
			Devise:       devise,
		})
	}
}

// withNumber attaches the account number to a not-found error.
func withNumber(err error, numero string) error {
	if errors.Is(err, account.ErrAccountNotFound) {
		return account.ErrAccountNotFound.WithDetails(map[string]any{"numeroCompte": numero})
	}
	return err
}
