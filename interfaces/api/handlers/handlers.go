package handlers

import (
	"taskhub/domain/services"
	websocketManager "taskhub/infrastructure/websocket"
	websocketHandler "taskhub/interfaces/api/websocket"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService     services.UserService
	TaskService     services.TaskService
	ProjectService  services.ProjectService
	ActivityService services.ActivityService
	ExportService   services.ExportService // nil when no storage is configured

	WebSocketManager *websocketManager.Manager
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	TaskHandler     *TaskHandler
	ProjectHandler  *ProjectHandler
	ActivityHandler *ActivityHandler
	ExportHandler   *ExportHandler

	WebSocketHandler *websocketHandler.WebSocketHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:     NewAuthHandler(services.UserService),
		UserHandler:     NewUserHandler(services.UserService),
		TaskHandler:     NewTaskHandler(services.TaskService),
		ProjectHandler:  NewProjectHandler(services.ProjectService),
		ActivityHandler: NewActivityHandler(services.ActivityService),
		ExportHandler:   NewExportHandler(services.ExportService),

		WebSocketHandler: websocketHandler.NewWebSocketHandler(services.WebSocketManager),
	}
}
