package handlers

import (
	"refnet/internal/services/referral"
	"refnet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referralService referral.Service
}

func NewReferralHandler(referralService referral.Service) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

func (h *ReferralHandler) MyNetwork(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	return h.overview(c, claims.UserID)
}

func (h *ReferralHandler) UserNetwork(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "invalid user id")
	}
	return h.overview(c, id)
}

func (h *ReferralHandler) overview(c *fiber.Ctx, userID uint) error {
	overview, err := h.referralService.Overview(c.UserContext(), userID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, overview)
}
