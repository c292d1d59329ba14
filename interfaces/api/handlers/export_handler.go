package handlers

import (
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportTasks writes a JSON snapshot of the caller's tasks to object storage
// and returns where it landed.
func (h *ExportHandler) ExportTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if h.exportService == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "EXPORT_DISABLED", "Export storage is not configured", nil)
	}

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	export, err := h.exportService.ExportTasks(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Task export failed", "user_id", user.ID, "error", err)
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "Tasks exported", "count", export.Count, "provider", export.Provider)

	return utils.CreatedResponse(c, export)
}
