package handlers

import (
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	project, err := h.projectService.CreateProject(ctx, user.ID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "Project created", "project_id", project.ID, "slug", project.Slug)

	return utils.CreatedResponse(c, dto.ProjectToProjectResponse(project))
}

func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projects, err := h.projectService.ListProjects(ctx, user.ID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	responses := make([]dto.ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = *dto.ProjectToProjectResponse(p)
	}

	return utils.SuccessResponse(c, responses)
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	project, err := h.projectService.GetProject(ctx, user.ID, projectID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToProjectResponse(project))
}

func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	project, err := h.projectService.UpdateProject(ctx, user.ID, projectID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToProjectResponse(project))
}

func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project ID")
	}

	if err := h.projectService.DeleteProject(ctx, user.ID, projectID); err != nil {
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "Project deleted", "project_id", projectID)

	return utils.NoContentResponse(c)
}
