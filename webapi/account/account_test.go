package account_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type body = map[string]any

type AccountTestSuite struct {
	suite.Suite
	env *testutils.Env
	seq int
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) SetupTest() {
	s.env = testutils.New(s.T())
}

func (s *AccountTestSuite) do(method, path, payload, token string) (int, body) {
	resp := testutils.MakeRequest(s.env.Fiber, method, path, payload, token)
	return resp.StatusCode, testutils.Decode[body](s.T(), resp)
}

// open creates an account for a new client and returns its number.
func (s *AccountTestSuite) open(typ string) string {
	s.seq++
	payload := fmt.Sprintf(`{
		"type": %q,
		"soldeInitial": 50000,
		"devise": "FCFA",
		"client": {
			"titulaire": "Diop Awa",
			"email": "awa%d@example.com",
			"telephone": "+22177000%04d",
			"adresse": "Dakar"
		}
	}`, typ, s.seq, s.seq)
	status, out := s.do(fiber.MethodPost, "/api/v1/comptes", payload, "")
	s.Require().Equal(fiber.StatusCreated, status, out)
	data := out["data"].(body)
	s.Require().Equal(true, data["nouveauClient"])
	return data["numeroCompte"].(string)
}

func errorCode(out body) string {
	e, _ := out["error"].(body)
	code, _ := e["code"].(string)
	return code
}

func (s *AccountTestSuite) TestOpenAndShow() {
	numero := s.open("courant")
	s.Regexp(`^C\d{8}$`, numero)

	status, out := s.do(fiber.MethodGet, "/api/v1/comptes/"+numero, "", "")
	s.Equal(fiber.StatusOK, status)
	s.Equal(true, out["success"])
	s.NotEmpty(out["traceId"])
	data := out["data"].(body)
	s.Equal("Diop Awa", data["titulaire"])
	s.Equal("actif", data["statut"])
	s.Equal("50000", data["solde"])

	status, out = s.do(fiber.MethodGet, "/api/v1/comptes/"+numero+"/solde", "", "")
	s.Equal(fiber.StatusOK, status)
	s.Equal("50000", out["data"].(body)["solde"])

	status, out = s.do(fiber.MethodGet, "/api/v1/comptes/"+numero+"/transactions", "", "")
	s.Equal(fiber.StatusOK, status)
	txs := out["data"].([]any)
	s.Require().Len(txs, 1)
	s.Equal("depot", txs[0].(body)["type"])
	s.Equal("valide", txs[0].(body)["statut"])

	status, out = s.do(fiber.MethodGet, "/api/v1/comptes/C00000000", "", "")
	s.Equal(fiber.StatusNotFound, status)
	s.Equal("COMPTE_NOT_FOUND", errorCode(out))
}

func (s *AccountTestSuite) TestOpenValidation() {
	status, out := s.do(fiber.MethodPost, "/api/v1/comptes",
		`{"type":"livret","soldeInitial":50000,"client":{"titulaire":"X"}}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("VALIDATION_ERROR", errorCode(out))

	status, out = s.do(fiber.MethodPost, "/api/v1/comptes", `{
		"type":"courant","soldeInitial":5000,
		"client":{"titulaire":"Diop Awa","email":"low@example.com","telephone":"+221770009999","adresse":"Dakar"}
	}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Contains(out["error"].(body)["details"], "soldeInitial")
}

func (s *AccountTestSuite) TestBlockUnblock() {
	courant := s.open("courant")
	status, out := s.do(fiber.MethodPost, "/api/v1/comptes/"+courant+"/bloquer",
		`{"motif":"Contrôle","duree":30,"unite":"jours"}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("INVALID_ACCOUNT_TYPE", errorCode(out))

	epargne := s.open("epargne")
	status, out = s.do(fiber.MethodPost, "/api/v1/comptes/"+epargne+"/bloquer",
		`{"motif":"Épargne programmée","duree":1,"unite":"mois"}`, "")
	s.Require().Equal(fiber.StatusOK, status, out)
	data := out["data"].(body)
	s.Equal("bloque", data["statut"])
	s.NotEmpty(data["dateDeblocagePrevue"])

	status, out = s.do(fiber.MethodPost, "/api/v1/comptes/"+epargne+"/bloquer",
		`{"motif":"Encore","duree":1,"unite":"jours"}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("ACCOUNT_NOT_ACTIVE", errorCode(out))

	_, out = s.do(fiber.MethodGet, "/api/v1/comptes", "", "")
	s.Len(out["data"], 1, "blocked accounts are hidden by default")
	_, out = s.do(fiber.MethodGet, "/api/v1/comptes?statut=bloque", "", "")
	s.Len(out["data"], 1)

	status, out = s.do(fiber.MethodPost, "/api/v1/comptes/"+epargne+"/debloquer", `{"motif":"Fin"}`, "")
	s.Require().Equal(fiber.StatusOK, status, out)
	s.Equal("actif", out["data"].(body)["statut"])

	status, out = s.do(fiber.MethodPost, "/api/v1/comptes/"+epargne+"/debloquer", `{"motif":"Fin"}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("ACCOUNT_NOT_BLOCKED", errorCode(out))
}

func (s *AccountTestSuite) TestListFilters() {
	s.open("courant")
	s.open("epargne")

	status, out := s.do(fiber.MethodGet, "/api/v1/comptes?type=cheque&limit=1", "", "")
	s.Equal(fiber.StatusOK, status)
	items := out["data"].([]any)
	s.Require().Len(items, 1)
	s.Equal("courant", items[0].(body)["type"])
	pagination := out["pagination"].(body)
	s.Equal(float64(1), pagination["totalItems"])
	s.Equal(float64(1), pagination["itemsPerPage"])

	_, out = s.do(fiber.MethodGet, "/api/v1/comptes?limit=500", "", "")
	s.Equal(float64(100), out["pagination"].(body)["itemsPerPage"])
}

func (s *AccountTestSuite) TestUpdate() {
	numero := s.open("courant")
	status, out := s.do(fiber.MethodPatch, "/api/v1/comptes/"+numero,
		`{"titulaire":"Fall Moussa","informationsClient":{"telephone":"+221781112233"}}`, "")
	s.Require().Equal(fiber.StatusOK, status, out)
	data := out["data"].(body)
	s.Equal("Fall Moussa", data["titulaire"])
	s.Equal(float64(2), data["metadata"].(body)["version"])

	status, out = s.do(fiber.MethodPut, "/api/v1/comptes/"+numero, `{}`, "")
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("VALIDATION_ERROR", errorCode(out))
}

func (s *AccountTestSuite) TestCloseRequiresAdmin() {
	numero := s.open("courant")

	status, _ := s.do(fiber.MethodDelete, "/api/v1/comptes/"+numero, "", "")
	s.Equal(fiber.StatusBadRequest, status)
	status, _ = s.do(fiber.MethodDelete, "/api/v1/comptes/"+numero, "", "not-a-token")
	s.Equal(fiber.StatusUnauthorized, status)

	token := s.env.AdminToken(s.T())
	status, out := s.do(fiber.MethodDelete, "/api/v1/comptes/"+numero, "", token)
	s.Require().Equal(fiber.StatusOK, status, out)
	s.Equal("ferme", out["data"].(body)["statut"])

	status, out = s.do(fiber.MethodDelete, "/api/v1/comptes/"+numero, "", token)
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("ACCOUNT_ALREADY_CLOSED", errorCode(out))

	status, _ = s.do(fiber.MethodGet, "/api/v1/comptes/"+numero, "", "")
	s.Equal(fiber.StatusNotFound, status)
}

func (s *AccountTestSuite) TestArchivedAccounts() {
	blockedAt := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	unblockAt := blockedAt.AddDate(0, 0, 30)
	_, err := s.env.Store.ArchiveAccount(context.Background(), archive.Record{
		NumeroCompte:        "C99999999",
		Titulaire:           "Ndiaye Fatou",
		Type:                "epargne",
		Solde:               decimal.NewFromInt(75000),
		Devise:              "FCFA",
		Statut:              "bloque",
		DateBlocage:         archive.At(&blockedAt),
		DateDeblocagePrevue: archive.At(&unblockAt),
	})
	s.Require().NoError(err)

	status, out := s.do(fiber.MethodGet, "/api/v1/comptes/C99999999", "", "")
	s.Require().Equal(fiber.StatusOK, status, out)
	data := out["data"].(body)
	s.Equal(true, data["archive"])
	s.Equal("75000", data["solde"])

	status, out = s.do(fiber.MethodGet, "/api/v1/comptes/archives", "", "")
	s.Equal(fiber.StatusOK, status)
	s.Len(out["data"], 1)

	status, out = s.do(fiber.MethodGet, "/api/v1/comptes/archives?page=9223372036854775807", "", "")
	s.Equal(fiber.StatusOK, status)
	s.Empty(out["data"])
	s.Equal(float64(dto.MaxPage), out["pagination"].(body)["currentPage"])
}

func (s *AccountTestSuite) TestResponseHeaders() {
	resp := testutils.MakeRequest(s.env.Fiber, http.MethodGet, "/api/v1/comptes", "", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal("v1", resp.Header.Get("X-API-Version"))
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
}
