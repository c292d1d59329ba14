package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"testing"

	"github.com/google/uuid"
)

func TestHTTPTaskAPI_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, services.ErrUnauthorized},
		{"not found", http.StatusNotFound, services.ErrNotFound},
		{"validation", http.StatusBadRequest, services.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"success":false,"error":{"code":"X","message":"nope"}}`)
			}))
			defer srv.Close()

			api := NewHTTPTaskAPI(srv.URL, "tok")
			_, err := api.GetTask(context.Background(), uuid.New())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHTTPTaskAPI_ServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"boom"}}`)
	}))
	defer srv.Close()

	_, err := NewHTTPTaskAPI(srv.URL, "tok").ListTasks(context.Background(), nil)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if terr.StatusCode != http.StatusInternalServerError || terr.Code != "INTERNAL_ERROR" {
		t.Errorf("TransportError = %+v", terr)
	}
}

func TestHTTPTaskAPI_DeleteNoContent(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	id := uuid.New()
	if err := NewHTTPTaskAPI(srv.URL+"/", "tok").DeleteTask(context.Background(), id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/tasks/"+id.String() {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestHTTPTaskAPI_UpdateSendsMinimalPatch(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"`+uuid.NewString()+`","content":"A","priority":2,"tags":[]}}`)
	}))
	defer srv.Close()

	resp, err := NewHTTPTaskAPI(srv.URL, "tok").UpdateTask(context.Background(), uuid.New(), &dto.UpdateTaskRequest{Priority: dto.SetPriority(2)})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if len(body) != 1 || body["priority"] != float64(2) {
		t.Errorf("request body = %v, want only priority", body)
	}
	if resp.Priority == nil || *resp.Priority != 2 {
		t.Errorf("response priority = %v", resp.Priority)
	}
}

func TestHTTPTaskAPI_ListQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	tasks, err := NewHTTPTaskAPI(srv.URL, "tok").ListTasks(context.Background(), &dto.TaskFilterRequest{DueDate: "today", Priority: "high"})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks = %v", tasks)
	}
	if query != "dueDate=today&priority=high" {
		t.Errorf("query = %q", query)
	}
}
