package transaction

import (
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	txsvc "github.com/amirasaad/bankmanager/pkg/service/transaction"
	"github.com/amirasaad/bankmanager/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the transaction CRUD endpoints. Every write keeps the
// cached balance of the affected accounts in step.
func Routes(r fiber.Router, svc *txsvc.Service) {
	g := r.Group("/transactions")
	g.Get("/", List(svc))
	g.Post("/", Create(svc))
	g.Get("/:id", Get(svc))
	g.Put("/:id", Update(svc))
	g.Patch("/:id", Update(svc))
	g.Delete("/:id", Delete(svc))
}

func List(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := dto.TransactionFilter{
			PageRequest: common.PageRequest(c),
			Type:        account.TransactionType(c.Query("type")),
			Status:      account.TransactionStatus(c.Query("statut")),
		}
		if raw := c.Query("compteId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorJSON(c, common.InvalidID("compteId"))
			}
			filter.AccountID = &id
		}
		page, err := svc.List(c.UserContext(), filter)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		out := make([]TransactionResponse, 0, len(page.Items))
		for _, t := range page.Items {
			out = append(out, ToTransactionResponse(t))
		}
		return common.PaginatedResponseJSON(c, "", out, page.Pagination)
	}
}

func Create(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		req := txsvc.CreateRequest{
			AccountID: uuid.MustParse(input.CompteID),
			Type:      account.TransactionType(input.Type),
			Amount:    input.Montant,
			Status:    account.TransactionStatus(input.Statut),
		}
		if input.Date != nil {
			req.Date = *input.Date
		}
		tx, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction créée avec succès", ToTransactionResponse(tx))
	}
}

func Get(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		tx, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", ToTransactionResponse(tx))
	}
}

func Update(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		patch := account.TransactionPatch{Amount: input.Montant, Date: input.Date}
		if input.Type != nil {
			t := account.TransactionType(*input.Type)
			patch.Type = &t
		}
		if input.Statut != nil {
			s := account.TransactionStatus(*input.Statut)
			patch.Status = &s
		}
		if input.CompteID != nil {
			accountID := uuid.MustParse(*input.CompteID)
			patch.AccountID = &accountID
		}
		tx, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction mise à jour avec succès", ToTransactionResponse(tx))
	}
}

func Delete(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction supprimée avec succès", nil)
	}
}
