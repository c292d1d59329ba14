package handlers

import (
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity returns the caller's most recent activity entries, newest first.
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return utils.BadRequestResponse(c, "limit must not be negative")
	}

	entries, err := h.activityService.ListRecent(c.UserContext(), user.ID, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	responses := make([]dto.ActivityResponse, len(entries))
	for i, e := range entries {
		responses[i] = *dto.ActivityToActivityResponse(e)
	}

	return utils.SuccessResponse(c, responses)
}
