package handlers

import (
	"context"

	"refnet/internal/models"
	"refnet/internal/services/recharge"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type RechargeHandler struct {
	rechargeService recharge.Service
}

func NewRechargeHandler(rechargeService recharge.Service) *RechargeHandler {
	return &RechargeHandler{rechargeService: rechargeService}
}

type rechargeRequest struct {
	Amount string                 `json:"amount" validate:"required,money"`
	Proof  map[string]interface{} `json:"proof" validate:"required"`
}

func (h *RechargeHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input rechargeRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}
	amount, err := decimalField("amount", input.Amount)
	if err != nil {
		return utils.Invalid(c, err)
	}

	req, err := h.rechargeService.Create(c.UserContext(), recharge.CreateInput{
		UserID: claims.UserID,
		Amount: amount,
		Proof:  input.Proof,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{"recharge": req})
}

// ListMine lists the caller's own requests.
func (h *RechargeHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	return h.list(c, claims.UserID)
}

// List is the admin queue, filtered by ?status= and ?user_id=.
func (h *RechargeHandler) List(c *fiber.Ctx) error {
	userID, ok := queryUint(c, "user_id")
	if !ok {
		return utils.BadRequest(c, "invalid user_id")
	}
	return h.list(c, userID)
}

func (h *RechargeHandler) list(c *fiber.Ctx, userID uint) error {
	p := utils.GetPagination(c, defaultRequestPageSize, maxRequestPageSize)
	items, total, err := h.rechargeService.List(c.UserContext(), models.RequestFilter{
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

func (h *RechargeHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid request id")
	}

	req, err := h.rechargeService.Get(c.UserContext(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"recharge": req})
}

func (h *RechargeHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.rechargeService.Approve)
}

func (h *RechargeHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.rechargeService.Reject)
}

func (h *RechargeHandler) decide(c *fiber.Ctx, apply func(ctx context.Context, id uint, note string) (*models.RechargeRequest, error)) error {
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
	return utils.Success(c, fiber.Map{"recharge": req})
}
