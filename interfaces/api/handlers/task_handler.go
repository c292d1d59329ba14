package handlers

import (
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.CreateTask(ctx, user.ID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "project_id", task.ProjectID)

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.TaskFilterRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	tasks, err := h.taskService.ListTasks(ctx, user.ID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) SearchTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	tasks, err := h.taskService.SearchTasks(ctx, user.ID, c.Query("q"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) GetSubtasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	parentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	tasks, err := h.taskService.GetSubtasks(ctx, user.ID, parentID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) GetCompletion(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	parentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	parent, stats, err := h.taskService.GetCompletion(ctx, user.ID, parentID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.CompletionToCompletionResponse(parent, stats))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "task_id", taskID, "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	task, err := h.taskService.UpdateTask(ctx, user.ID, taskID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(ctx, user.ID, taskID); err != nil {
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID)

	return utils.NoContentResponse(c)
}

func (h *TaskHandler) CompleteTask(c *fiber.Ctx) error {
	return h.setCompletion(c, true)
}

func (h *TaskHandler) UncompleteTask(c *fiber.Ctx) error {
	return h.setCompletion(c, false)
}

func (h *TaskHandler) setCompletion(c *fiber.Ctx, completed bool) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	complete := h.taskService.UncompleteTask
	if completed {
		complete = h.taskService.CompleteTask
	}

	task, err := complete(ctx, user.ID, taskID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}
