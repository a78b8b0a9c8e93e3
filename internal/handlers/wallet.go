package handlers

import (
	"refnet/internal/services/wallet"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.walletService.GetBalance(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": balance})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, wallet.DefaultHistoryLimit, wallet.MaxHistoryLimit)
	history, err := h.walletService.History(c.UserContext(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, utils.NewPaginatedResponse(history, p))
}

func (h *WalletHandler) Reconcile(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid user id")
	}

	report, err := h.walletService.Reconcile(c.UserContext(), id)
	switch {
	case err == nil:
		return utils.Success(c, fiber.Map{"reconciliation": report})
	case report != nil:
		return utils.Respond(c, fiber.StatusInternalServerError, fiber.Map{
			"error":          "wallet does not match its ledger",
			"reconciliation": report,
		})
	default:
		return utils.Error(c, err)
	}
}

type reverseRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

func (h *WalletHandler) Reverse(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid transaction id")
	}

	var input reverseRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}

	entry, err := h.walletService.Reverse(c.UserContext(), id, input.Reason)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": entry})
}
