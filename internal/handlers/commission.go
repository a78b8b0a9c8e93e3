package handlers

import (
	"strconv"
	"strings"

	"refnet/internal/services/commission"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CommissionHandler struct {
	commissionService commission.Service
}

func NewCommissionHandler(commissionService commission.Service) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

type orderCompletedRequest struct {
	OrderID string `json:"order_id" validate:"required,max=64"`
	UserID  uint   `json:"user_id" validate:"required"`
	Amount  string `json:"amount" validate:"required,money"`
}

// OrderCompleted distributes the commissions of a paid order. Replays return an
// empty distribution with the duplicates counted.
func (h *CommissionHandler) OrderCompleted(c *fiber.Ctx) error {
	var input orderCompletedRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}
	amount, err := decimalField("amount", input.Amount)
	if err != nil {
		return utils.Invalid(c, err)
	}

	dist, err := h.commissionService.Distribute(c.UserContext(), commission.Order{
		OrderID: strings.TrimSpace(input.OrderID),
		UserID:  input.UserID,
		Amount:  amount,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, dist)
}

func (h *CommissionHandler) OrderCommissions(c *fiber.Ctx) error {
	records, err := h.commissionService.RecordsForOrder(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"records": records})
}

func (h *CommissionHandler) ListConfigs(c *fiber.Ctx) error {
	configs, err := h.commissionService.ListConfigs(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"configs": configs})
}

type upsertConfigRequest struct {
	Percent string `json:"percent" validate:"required,percent"`
	Active  *bool  `json:"active"`
}

func (h *CommissionHandler) UpsertConfig(c *fiber.Ctx) error {
	level, err := strconv.Atoi(c.Params("level"))
	if err != nil {
		return utils.BadRequest(c, "invalid level")
	}

	var input upsertConfigRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}
	percent, err := decimalField("percent", input.Percent)
	if err != nil {
		return utils.Invalid(c, err)
	}
	active := input.Active == nil || *input.Active

	cfg, err := h.commissionService.UpsertConfig(c.UserContext(), level, percent, active)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"config": cfg})
}

func (h *CommissionHandler) DeleteConfig(c *fiber.Ctx) error {
	level, err := strconv.Atoi(c.Params("level"))
	if err != nil {
		return utils.BadRequest(c, "invalid level")
	}
	if err := h.commissionService.DeleteConfig(c.UserContext(), level); err != nil {
		return utils.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
