package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"taskhub/application/serviceimpl"
	"taskhub/infrastructure/activity"
	"taskhub/infrastructure/memory"
	websocketManager "taskhub/infrastructure/websocket"
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	activityRepo := memory.NewActivityRepository()
	observer := activity.NewDispatcher(activity.NewRecorder(activityRepo))

	projectRepo := memory.NewProjectRepository()
	projectService := serviceimpl.NewProjectService(projectRepo, observer)
	taskService := serviceimpl.NewTaskService(memory.NewTaskRepository(), projectRepo, observer)

	h := handlers.NewHandlers(&handlers.Services{
		UserService:      serviceimpl.NewUserService(memory.NewUserRepository(), projectService, testSecret, time.Hour),
		TaskService:      taskService,
		ProjectService:   projectService,
		ActivityService:  serviceimpl.NewActivityService(activityRepo),
		WebSocketManager: websocketManager.NewManager(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	SetupRoutes(app, h, testSecret)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App) (token, inboxID string) {
	t.Helper()

	status, env := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"username": "ana",
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
	var auth struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(env.Data, &auth)

	_, env = call(t, app, http.MethodGet, "/api/v1/projects", auth.Token, nil)
	var projects []struct {
		ID      string `json:"id"`
		IsInbox bool   `json:"isInbox"`
	}
	_ = json.Unmarshal(env.Data, &projects)
	for _, p := range projects {
		if p.IsInbox {
			return auth.Token, p.ID
		}
	}
	t.Fatal("registration did not create an inbox")
	return "", ""
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method, path, token string
	}{
		{http.MethodGet, "/api/v1/tasks", ""},
		{http.MethodPost, "/api/v1/tasks", ""},
		{http.MethodGet, "/api/v1/projects", ""},
		{http.MethodGet, "/api/v1/activity", ""},
		{http.MethodGet, "/api/v1/auth/me", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, env := call(t, app, tt.method, tt.path, tt.token, nil)
			if status != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", status)
			}
			if env.Success {
				t.Error("success = true on a rejected request")
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	app := newTestApp(t)
	token, inbox := register(t, app)

	status, env := call(t, app, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"content":   "Write report",
		"projectId": inbox,
		"priority":  "high",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	var parent struct {
		ID       string `json:"id"`
		Priority *int   `json:"priority"`
	}
	_ = json.Unmarshal(env.Data, &parent)
	if parent.Priority == nil || *parent.Priority != 3 {
		t.Errorf("priority = %v, want 3", parent.Priority)
	}

	for _, content := range []string{"Outline", "Draft"} {
		status, _ := call(t, app, http.MethodPost, "/api/v1/tasks", token, map[string]any{
			"content":   content,
			"projectId": inbox,
			"parentId":  parent.ID,
		})
		if status != http.StatusCreated {
			t.Fatalf("create subtask status = %d", status)
		}
	}

	_, env = call(t, app, http.MethodGet, "/api/v1/tasks/"+parent.ID+"/subtasks", token, nil)
	var subtasks []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &subtasks)
	if len(subtasks) != 2 {
		t.Fatalf("subtasks = %d, want 2", len(subtasks))
	}

	status, _ = call(t, app, http.MethodPost, "/api/v1/tasks/"+subtasks[0].ID+"/complete", token, nil)
	if status != http.StatusOK {
		t.Fatalf("complete status = %d", status)
	}

	_, env = call(t, app, http.MethodGet, "/api/v1/tasks/"+parent.ID+"/completion", token, nil)
	var completion struct {
		Total      int `json:"total"`
		Completed  int `json:"completed"`
		Percentage int `json:"percentage"`
	}
	_ = json.Unmarshal(env.Data, &completion)
	if completion.Total != 2 || completion.Completed != 1 || completion.Percentage != 50 {
		t.Errorf("completion = %+v", completion)
	}

	// Top-level listing leaves subtasks out.
	_, env = call(t, app, http.MethodGet, "/api/v1/tasks?projectId="+inbox, token, nil)
	var listed []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &listed)
	if len(listed) != 1 || listed[0].ID != parent.ID {
		t.Errorf("listed = %+v, want only the parent", listed)
	}

	status, _ = call(t, app, http.MethodDelete, "/api/v1/tasks/"+parent.ID, token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}
	status, _ = call(t, app, http.MethodGet, "/api/v1/tasks/"+parent.ID, token, nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t)
	token, inbox := register(t, app)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing content", map[string]any{"projectId": inbox}, http.StatusBadRequest},
		{"bad project id", map[string]any{"content": "x", "projectId": "nope"}, http.StatusBadRequest},
		{"unknown project", map[string]any{"content": "x", "projectId": "8a5f0c3e-0f43-4a53-9d3c-6c1f4b1d2e10"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, http.MethodPost, "/api/v1/tasks", token, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestExportDisabledWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	token, _ := register(t, app)

	status, env := call(t, app, http.MethodPost, "/api/v1/exports/tasks", token, nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if env.Error == nil || env.Error.Code != "EXPORT_DISABLED" {
		t.Errorf("error = %+v", env.Error)
	}
}
