package webapi_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/money"
	authsvc "github.com/dkurilov/bankcards/pkg/service/auth"
	cardsvc "github.com/dkurilov/bankcards/pkg/service/card"
	transfersvc "github.com/dkurilov/bankcards/pkg/service/transfer"
	usersvc "github.com/dkurilov/bankcards/pkg/service/user"
	"github.com/dkurilov/bankcards/pkg/testutils"
	"github.com/dkurilov/bankcards/pkg/utils"
	"github.com/dkurilov/bankcards/webapi"

	"github.com/gofiber/fiber/v2"
)

type fixture struct {
	app  *fiber.App
	uow  *testutils.MemoryUoW
	auth *authsvc.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.App{
		Env:       "test",
		Jwt:       config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	uow := testutils.NewMemoryUoW()
	logger := slog.New(slog.DiscardHandler)
	auth := authsvc.New(uow, cfg.Jwt, logger)
	app := webapi.SetupApp(cfg, webapi.Services{
		Auth:     auth,
		User:     usersvc.New(uow, logger),
		Card:     cardsvc.New(uow, logger),
		Transfer: transfersvc.New(uow, logger),
	})
	return &fixture{app: app, uow: uow, auth: auth}
}

// tokenFor seeds a user and returns a signed token for them.
func (f *fixture) tokenFor(t *testing.T, role domain.Role) (uuid.UUID, string) {
	t.Helper()
	u := domain.User{
		ID:       uuid.New(),
		Username: fmt.Sprintf("user-%s", uuid.NewString()[:8]),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Role:     role,
	}
	f.uow.SeedUser(u)
	token, err := f.auth.GenerateToken(&u)
	require.NoError(t, err)
	return u.ID, token
}

func decodeData(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	hashed, err := utils.HashPassword("s3cretpass")
	require.NoError(t, err)
	f.uow.SeedUser(domain.User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: hashed,
		Role:           domain.RoleUser,
	})

	resp := testutils.MakeRequestWithApp(f.app, http.MethodPost, "/auth/login",
		`{"identity":"alice","password":"s3cretpass"}`, "")
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeData(t, resp.Body.Bytes())
	assert.NotEmpty(t, data["token"])

	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/auth/login",
		`{"identity":"alice","password":"wrongpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/auth/login",
		`{"identity":"nobody","password":"s3cretpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)

	resp := testutils.MakeRequestWithApp(f.app, http.MethodPost, "/user",
		`{"username":"bob","email":"bob@example.com","password":"s3cretpass"}`, "")
	require.Equal(t, http.StatusCreated, resp.Code)
	data := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, "bob", data["username"])
	assert.Equal(t, "USER", data["role"])
	assert.NotContains(t, resp.Body.String(), "password")

	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/user",
		`{"username":"bob","email":"bob2@example.com","password":"s3cretpass"}`, "")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestCardEndpointsRequireToken(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/cards", "/cards/" + uuid.NewString()} {
		resp := testutils.MakeRequestWithApp(f.app, http.MethodGet, target, "", "")
		assert.NotEqual(t, http.StatusOK, resp.Code, target)
	}
}

func TestCreateAndListCards(t *testing.T) {
	f := newFixture(t)
	_, token := f.tokenFor(t, domain.RoleUser)

	resp := testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards",
		`{"number":"4000123412341234","cvv":"123","pin":"4321","expiry":"12/30"}`, token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	data := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, "**** **** **** 1234", data["masked_number"])
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, "0.00", data["balance"])
	assert.Equal(t, "12/30", data["expiry"])
	assert.NotContains(t, resp.Body.String(), "4000123412341234")

	// Same number again is a conflict.
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards",
		`{"number":"4000123412341234","cvv":"999","pin":"1111","expiry":"12/30"}`, token)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Bad PIN shape is rejected up front.
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards",
		`{"number":"4000123412341235","cvv":"123","pin":"12345","expiry":"12/30"}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodGet, "/cards", "", token)
	require.Equal(t, http.StatusOK, resp.Code)
	var listEnvelope struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listEnvelope))
	require.Len(t, listEnvelope.Data, 1)
	assert.Equal(t, "**** **** **** 1234", listEnvelope.Data[0]["masked_number"])
}

func TestGetCardScoping(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerToken := f.tokenFor(t, domain.RoleUser)
	_, strangerToken := f.tokenFor(t, domain.RoleUser)
	_, adminToken := f.tokenFor(t, domain.RoleAdmin)

	cardID := f.uow.SeedCard(domain.Card{
		OwnerID: ownerID,
		Last4:   "1234",
		Status:  domain.CardStatusActive,
	})

	resp := testutils.MakeRequestWithApp(f.app, http.MethodGet, "/cards/"+cardID.String(), "", ownerToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodGet, "/cards/"+cardID.String(), "", strangerToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodGet, "/cards/"+cardID.String(), "", adminToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestTransferEndpoint(t *testing.T) {
	f := newFixture(t)
	ownerID, token := f.tokenFor(t, domain.RoleUser)

	fromID := f.uow.SeedCard(domain.Card{
		OwnerID: ownerID,
		Status:  domain.CardStatusActive,
		Balance: money.MustParse("500.00"),
	})
	toID := f.uow.SeedCard(domain.Card{
		OwnerID: ownerID,
		Status:  domain.CardStatusActive,
		Balance: money.MustParse("125.50"),
	})

	body := fmt.Sprintf(`{"from_card_id":%q,"to_card_id":%q,"amount":"200.00"}`, fromID, toID)
	resp := testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards/transfer", body, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	data := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, "COMPLETED", data["status"])
	assert.Equal(t, "200.00", data["amount"])
	assert.Equal(t, money.MustParse("300.00"), f.uow.CardBalance(fromID))
	assert.Equal(t, money.MustParse("325.50"), f.uow.CardBalance(toID))

	body = fmt.Sprintf(`{"from_card_id":%q,"to_card_id":%q,"amount":"10000.00"}`, fromID, toID)
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards/transfer", body, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	body = fmt.Sprintf(`{"from_card_id":%q,"to_card_id":%q,"amount":"10.00"}`, fromID, fromID)
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards/transfer", body, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	body = fmt.Sprintf(`{"from_card_id":%q,"to_card_id":%q,"amount":"1.5.0"}`, fromID, toID)
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards/transfer", body, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Embedded sign characters must not slip past amount parsing and move
	// funds with a flipped sign.
	for _, amount := range []string{"--1", "+-1", "1.+5"} {
		body = fmt.Sprintf(`{"from_card_id":%q,"to_card_id":%q,"amount":%q}`, fromID, toID, amount)
		resp = testutils.MakeRequestWithApp(f.app, http.MethodPost, "/cards/transfer", body, token)
		assert.Equal(t, http.StatusBadRequest, resp.Code, amount)
	}
	assert.Equal(t, money.MustParse("300.00"), f.uow.CardBalance(fromID))
	assert.Equal(t, money.MustParse("325.50"), f.uow.CardBalance(toID))
}

func TestMalformedCardID(t *testing.T) {
	f := newFixture(t)
	_, token := f.tokenFor(t, domain.RoleUser)

	resp := testutils.MakeRequestWithApp(f.app, http.MethodGet, "/cards/not-a-uuid", "", token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid card ID")
}

func TestBlockAndAdminUpdate(t *testing.T) {
	f := newFixture(t)
	ownerID, ownerToken := f.tokenFor(t, domain.RoleUser)
	_, adminToken := f.tokenFor(t, domain.RoleAdmin)

	cardID := f.uow.SeedCard(domain.Card{
		OwnerID: ownerID,
		Status:  domain.CardStatusActive,
	})

	resp := testutils.MakeRequestWithApp(f.app, http.MethodPost,
		"/cards/"+cardID.String()+"/block", "", ownerToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.CardStatusBlockRequested, f.uow.CardStatus(cardID))

	// Owner cannot force a status; admin can.
	resp = testutils.MakeRequestWithApp(f.app, http.MethodPatch,
		"/cards/"+cardID.String(), `{"status":"ACTIVE"}`, ownerToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodPatch,
		"/cards/"+cardID.String(), `{"status":"BLOCKED"}`, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.CardStatusBlocked, f.uow.CardStatus(cardID))

	resp = testutils.MakeRequestWithApp(f.app, http.MethodPatch,
		"/cards/"+cardID.String(), `{"expiry":"01/32"}`, adminToken)
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeData(t, resp.Body.Bytes())
	assert.Equal(t, "01/32", data["expiry"])
}

func TestDeleteCard(t *testing.T) {
	f := newFixture(t)
	ownerID, token := f.tokenFor(t, domain.RoleUser)
	cardID := f.uow.SeedCard(domain.Card{OwnerID: ownerID, Status: domain.CardStatusActive})

	resp := testutils.MakeRequestWithApp(f.app, http.MethodDelete, "/cards/"+cardID.String(), "", token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = testutils.MakeRequestWithApp(f.app, http.MethodDelete, "/cards/"+cardID.String(), "", token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
