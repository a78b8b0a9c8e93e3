package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"refnet/internal/handlers"
	"refnet/internal/models"
	"refnet/internal/ratelimit"
	"refnet/internal/repositories/memory"
	"refnet/internal/services/commission"
	"refnet/internal/services/recharge"
	"refnet/internal/services/referral"
	"refnet/internal/services/user"
	"refnet/internal/services/wallet"
	"refnet/internal/services/withdrawal"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-secret"

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T, limiter *ratelimit.Limiter) *api {
	store := memory.New()
	wallets := wallet.NewService(store, nil, nil, nil)
	referrals := referral.NewService(store, referral.Config{MaxDepth: referral.DefaultMaxDepth}, nil)

	app := fiber.New()
	SetupRoutes(app, Services{
		Users:       user.NewService(store, referrals, nil),
		Referrals:   referrals,
		Commissions: commission.NewService(store, wallets, referral.DefaultMaxDepth, nil, nil),
		Wallets:     wallets,
		Withdrawals: withdrawal.NewService(store, wallets, nil),
		Recharges:   recharge.NewService(store, wallets, nil),
	}, Options{
		JWTSecret: secret,
		Limiter:   limiter,
		Health:    handlers.NewHealthHandler("test", nil),
	})
	return &api{t: t, app: app}
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, userID, role, time.Minute)
	require.NoError(t, err)
	return tok
}

// do sends body as JSON with a bearer token and decodes the response into out when set.
func (a *api) do(method, path, tok string, body interface{}, out interface{}) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type userEnvelope struct {
	User models.User `json:"user"`
}

func (a *api) activatedUser(sponsorCode string) models.User {
	a.t.Helper()
	service, admin := token(a.t, 1000, models.RoleService), token(a.t, 1001, models.RoleAdmin)

	var created userEnvelope
	require.Equal(a.t, http.StatusCreated, a.do("POST", "/api/v1/internal/users", service,
		fiber.Map{"sponsor_code": sponsorCode}, &created))
	id := created.User.ID

	require.Equal(a.t, http.StatusOK, a.do("POST", "/api/v1/me/review", token(a.t, id, models.RoleUser), nil, nil))

	var activated userEnvelope
	require.Equal(a.t, http.StatusOK, a.do("POST", fmt.Sprintf("/api/v1/admin/users/%d/activate", id), admin, nil, &activated))
	require.Equal(a.t, models.ActivationActivated, activated.User.ActivationStatus)
	return activated.User
}

func TestOrderToWithdrawalFlow(t *testing.T) {
	a := newAPI(t, nil)
	admin := token(t, 1001, models.RoleAdmin)
	service := token(t, 1000, models.RoleService)

	root := a.activatedUser("")
	child := a.activatedUser(root.ReferralCode)
	grandchild := a.activatedUser(child.ReferralCode)
	require.NotNil(t, grandchild.ReferredBy)
	assert.Equal(t, child.ID, *grandchild.ReferredBy)

	assert.Equal(t, http.StatusOK, a.do("PUT", "/api/v1/admin/commission-configs/1", admin, fiber.Map{"percent": "10"}, nil))
	assert.Equal(t, http.StatusOK, a.do("PUT", "/api/v1/admin/commission-configs/2", admin, fiber.Map{"percent": "5"}, nil))

	order := fiber.Map{"order_id": "ORD-1", "user_id": grandchild.ID, "amount": "200.00"}
	var dist commission.Distribution
	require.Equal(t, http.StatusOK, a.do("POST", "/api/v1/internal/orders/completed", service, order, &dist))
	assert.Len(t, dist.Records, 2)
	assert.True(t, decimal.NewFromInt(30).Equal(dist.TotalCredited))

	// replay is a no-op
	var replay commission.Distribution
	require.Equal(t, http.StatusOK, a.do("POST", "/api/v1/internal/orders/completed", service, order, &replay))
	assert.Empty(t, replay.Records)
	assert.Equal(t, 2, replay.Duplicates)

	var balance struct {
		Wallet models.Balance `json:"wallet"`
	}
	rootToken := token(t, root.ID, models.RoleUser)
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/me/wallet", rootToken, nil, &balance))
	assert.True(t, decimal.NewFromInt(10).Equal(balance.Wallet.Available))

	var network referral.Overview
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/me/network", rootToken, nil, &network))
	assert.Equal(t, 2, network.TotalMembers)
	assert.True(t, decimal.NewFromInt(10).Equal(network.TotalEarnings))

	bank := fiber.Map{"iban": "FR7630006000011234567890189"}
	assert.Equal(t, http.StatusUnprocessableEntity,
		a.do("POST", "/api/v1/me/withdrawals", rootToken, fiber.Map{"amount": "10.01", "bank_details": bank}, nil))

	var created struct {
		Withdrawal models.WithdrawalRequest `json:"withdrawal"`
	}
	require.Equal(t, http.StatusCreated,
		a.do("POST", "/api/v1/me/withdrawals", rootToken, fiber.Map{"amount": "7.50", "bank_details": bank}, &created))
	assert.Equal(t, models.RequestPending, created.Withdrawal.Status)

	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/me/wallet", rootToken, nil, &balance))
	assert.True(t, decimal.RequireFromString("2.50").Equal(balance.Wallet.Available))
	assert.True(t, decimal.RequireFromString("7.50").Equal(balance.Wallet.Locked))

	approve := fmt.Sprintf("/api/v1/admin/withdrawals/%d/approve", created.Withdrawal.ID)
	assert.Equal(t, http.StatusOK, a.do("POST", approve, admin, fiber.Map{"note": "paid"}, nil))
	assert.Equal(t, http.StatusConflict, a.do("POST", approve, admin, nil, nil))

	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/me/wallet", rootToken, nil, &balance))
	assert.True(t, decimal.RequireFromString("2.50").Equal(balance.Wallet.Total))

	var report struct {
		Reconciliation wallet.Reconciliation `json:"reconciliation"`
	}
	require.Equal(t, http.StatusOK,
		a.do("GET", fmt.Sprintf("/api/v1/admin/users/%d/wallet/reconcile", root.ID), admin, nil, &report))
	assert.True(t, report.Reconciliation.Balanced)
}

func TestRechargeFlow(t *testing.T) {
	a := newAPI(t, nil)
	admin := token(t, 1001, models.RoleAdmin)
	member := a.activatedUser("")
	memberToken := token(t, member.ID, models.RoleUser)

	var created struct {
		Recharge models.RechargeRequest `json:"recharge"`
	}
	require.Equal(t, http.StatusCreated, a.do("POST", "/api/v1/me/recharges", memberToken,
		fiber.Map{"amount": "40", "proof": fiber.Map{"receipt": "TX-991"}}, &created))

	var page struct {
		Data       []models.RechargeRequest `json:"data"`
		Pagination utils.Pagination         `json:"pagination"`
	}
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/admin/recharges?status=PENDING", admin, nil, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)

	path := fmt.Sprintf("/api/v1/admin/recharges/%d/approve", created.Recharge.ID)
	require.Equal(t, http.StatusOK, a.do("POST", path, admin, nil, nil))

	var history struct {
		Data []models.WalletTransaction `json:"data"`
	}
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/me/wallet/transactions", memberToken, nil, &history))
	require.Len(t, history.Data, 1)
	assert.Equal(t, models.TransactionTypeRecharge, history.Data[0].Type)
}

type configList struct {
	Configs []models.CommissionConfig `json:"configs"`
}

func TestValidationAndAccess(t *testing.T) {
	a := newAPI(t, nil)
	member := a.activatedUser("")
	memberToken := token(t, member.ID, models.RoleUser)
	admin := token(t, 1001, models.RoleAdmin)
	service := token(t, 1000, models.RoleService)

	assert.Equal(t, http.StatusUnauthorized, a.do("GET", "/api/v1/me/wallet", "", nil, nil))
	assert.Equal(t, http.StatusForbidden, a.do("GET", "/api/v1/admin/withdrawals", memberToken, nil, nil))
	assert.Equal(t, http.StatusForbidden,
		a.do("POST", "/api/v1/internal/orders/completed", memberToken, fiber.Map{"order_id": "x", "user_id": 1, "amount": "1"}, nil))

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	assert.Equal(t, http.StatusBadRequest,
		a.do("POST", "/api/v1/me/withdrawals", memberToken, fiber.Map{"amount": "1.001", "bank_details": fiber.Map{"iban": "x"}}, &body))
	assert.Contains(t, body.Fields, "amount")

	var before configList
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/admin/commission-configs", admin, nil, &before))
	for _, bad := range []string{"abc", "1e", ""} {
		body.Fields = nil
		assert.Equal(t, http.StatusBadRequest,
			a.do("POST", "/api/v1/internal/orders/completed", service, fiber.Map{"order_id": "bad-" + bad, "user_id": member.ID, "amount": bad}, &body))
		assert.Contains(t, body.Fields, "amount")

		body.Fields = nil
		assert.Equal(t, http.StatusBadRequest, a.do("POST", "/api/v1/me/recharges", memberToken, fiber.Map{"amount": bad}, &body))
		assert.Contains(t, body.Fields, "amount")

		body.Fields = nil
		assert.Equal(t, http.StatusBadRequest, a.do("PUT", "/api/v1/admin/commission-configs/1", admin, fiber.Map{"percent": bad}, &body))
		assert.Contains(t, body.Fields, "percent")
	}
	var after configList
	require.Equal(t, http.StatusOK, a.do("GET", "/api/v1/admin/commission-configs", admin, nil, &after))
	assert.Equal(t, before, after)

	assert.Equal(t, http.StatusBadRequest, a.do("PUT", "/api/v1/admin/commission-configs/1", admin, fiber.Map{"percent": "101"}, nil))
	assert.Equal(t, http.StatusBadRequest, a.do("PUT", "/api/v1/admin/commission-configs/9", admin, fiber.Map{"percent": "1"}, nil))
	assert.Equal(t, http.StatusNotFound, a.do("DELETE", "/api/v1/admin/commission-configs/3", admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/api/v1/admin/users/999", admin, nil, nil))
	assert.Equal(t, http.StatusConflict, a.do("POST", fmt.Sprintf("/api/v1/admin/users/%d/activate", member.ID), admin, nil, nil))
}

func TestRateLimitedAPI(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Minute)
	defer store.Close()
	a := newAPI(t, ratelimit.NewLimiter(store, 2, time.Minute))

	assert.Equal(t, http.StatusUnauthorized, a.do("GET", "/api/v1/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do("GET", "/api/v1/me", "", nil, nil))
	assert.Equal(t, http.StatusTooManyRequests, a.do("GET", "/api/v1/me", "", nil, nil))

	// health stays outside the limiter
	assert.Equal(t, http.StatusOK, a.do("GET", "/health", "", nil, nil))
}
