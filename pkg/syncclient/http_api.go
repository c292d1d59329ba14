package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"time"

	"github.com/google/uuid"
)

// HTTPTaskAPI talks to the TaskHub REST API with a bearer token and decodes
// its {success, data, error} envelope.
type HTTPTaskAPI struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewHTTPTaskAPI(baseURL, token string) *HTTPTaskAPI {
	return &HTTPTaskAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient swaps the underlying client, mostly for tests.
func (a *HTTPTaskAPI) WithHTTPClient(hc *http.Client) *HTTPTaskAPI {
	a.httpClient = hc
	return a
}

// Login exchanges credentials for a token and keeps it for later calls.
func (a *HTTPTaskAPI) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := a.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	a.token = out.Token
	return &out, nil
}

func (a *HTTPTaskAPI) ListTasks(ctx context.Context, filter *dto.TaskFilterRequest) ([]dto.TaskResponse, error) {
	query := url.Values{}
	if filter != nil {
		setIf(query, "projectId", filter.ProjectID)
		setIf(query, "parentId", filter.ParentID)
		setIf(query, "dueDate", filter.DueDate)
		setIf(query, "priority", filter.Priority)
	}
	var out []dto.TaskResponse
	if err := a.do(ctx, http.MethodGet, "/tasks", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HTTPTaskAPI) SearchTasks(ctx context.Context, q string) ([]dto.TaskResponse, error) {
	var out []dto.TaskResponse
	if err := a.do(ctx, http.MethodGet, "/tasks/search", url.Values{"q": {q}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HTTPTaskAPI) GetTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := a.do(ctx, http.MethodGet, "/tasks/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]dto.TaskResponse, error) {
	var out []dto.TaskResponse
	if err := a.do(ctx, http.MethodGet, "/tasks/"+parentID.String()+"/subtasks", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HTTPTaskAPI) GetCompletion(ctx context.Context, parentID uuid.UUID) (*dto.CompletionResponse, error) {
	var out dto.CompletionResponse
	if err := a.do(ctx, http.MethodGet, "/tasks/"+parentID.String()+"/completion", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := a.do(ctx, http.MethodPost, "/tasks", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) UpdateTask(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := a.do(ctx, http.MethodPatch, "/tasks/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil, nil)
}

func (a *HTTPTaskAPI) CompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := a.do(ctx, http.MethodPost, "/tasks/"+id.String()+"/complete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) UncompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	if err := a.do(ctx, http.MethodPost, "/tasks/"+id.String()+"/uncomplete", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *HTTPTaskAPI) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := a.baseURL + "/api/v1" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, &env)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

// statusError maps the statuses the API uses for domain failures back to the
// service sentinels so callers can match them with errors.Is.
func statusError(status int, env *envelope) error {
	var code, message string
	if env.Error != nil {
		code, message = env.Error.Code, env.Error.Message
	}

	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = services.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = services.ErrNotFound
	case http.StatusBadRequest:
		sentinel = services.ErrValidation
	default:
		return &TransportError{StatusCode: status, Code: code, Message: message}
	}

	if message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

var _ TaskAPI = (*HTTPTaskAPI)(nil)
