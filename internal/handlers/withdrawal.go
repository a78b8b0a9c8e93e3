package handlers

import (
	"context"

	"refnet/internal/models"
	"refnet/internal/services/withdrawal"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultRequestPageSize = 20
	maxRequestPageSize     = 100
)

type WithdrawalHandler struct {
	withdrawalService withdrawal.Service
}

func NewWithdrawalHandler(withdrawalService withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

type withdrawalRequest struct {
	Amount      string                 `json:"amount" validate:"required,money"`
	BankDetails map[string]interface{} `json:"bank_details" validate:"required"`
}

type decisionRequest struct {
	Note string `json:"note" validate:"max=255"`
}

func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input withdrawalRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}
	amount, err := decimalField("amount", input.Amount)
	if err != nil {
		return utils.Invalid(c, err)
	}

	req, err := h.withdrawalService.Create(c.UserContext(), withdrawal.CreateInput{
		UserID:      claims.UserID,
		Amount:      amount,
		BankDetails: input.BankDetails,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{"withdrawal": req})
}

// ListMine lists the caller's own requests.
func (h *WithdrawalHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	return h.list(c, claims.UserID)
}

// List is the admin queue, filtered by ?status= and ?user_id=.
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "invalid user_id")
	}
	return h.list(c, userID)
}

func (h *WithdrawalHandler) list(c *fiber.Ctx, userID uint) error {
	p := utils.GetPagination(c, defaultRequestPageSize, maxRequestPageSize)
	items, total, err := h.withdrawalService.List(c.UserContext(), models.RequestFilter{
		UserID: userID,
		Status: c.Query("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(items, p))
}

func (h *WithdrawalHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid request id")
	}

	req, err := h.withdrawalService.Get(c.UserContext(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"withdrawal": req})
}

func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.withdrawalService.Approve)
}

func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.withdrawalService.Reject)
}

func (h *WithdrawalHandler) decide(c *fiber.Ctx, apply func(ctx context.Context, id uint, note string) (*models.WithdrawalRequest, error)) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid request id")
	}

	var input decisionRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &input); err != nil {
			return utils.Invalid(c, err)
		}
	}

	req, err := apply(c.UserContext(), id, input.Note)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"withdrawal": req})
}
