package handlers

import (
	"refnet/internal/services/user"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	SponsorCode string `json:"sponsor_code" validate:"omitempty,max=20"`
}

// Register is called by the identity service once an account exists.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input registerRequest
	if err := bind(c, &input); err != nil {
		return utils.Invalid(c, err)
	}

	u, err := h.userService.Register(c.UserContext(), input.SponsorCode)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{"user": u})
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.Get(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *UserHandler) SubmitForReview(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.SubmitForReview(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid user id")
	}

	u, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *UserHandler) Activate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid user id")
	}

	u, err := h.userService.Activate(c.UserContext(), id)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}
