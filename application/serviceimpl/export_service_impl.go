package serviceimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"taskhub/domain/dto"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
)

type ExportServiceImpl struct {
	taskRepo repositories.TaskRepository
	storage  ports.StoragePort
	now      func() time.Time
}

func NewExportService(taskRepo repositories.TaskRepository, storage ports.StoragePort) services.ExportService {
	return &ExportServiceImpl{
		taskRepo: taskRepo,
		storage:  storage,
		now:      time.Now,
	}
}

type taskExport struct {
	ExportedAt time.Time          `json:"exportedAt"`
	OwnerID    uuid.UUID          `json:"ownerId"`
	Tasks      []dto.TaskResponse `json:"tasks"`
}

// ExportTasks writes every task the owner has, subtasks included, to
// exports/<ownerId>/<unix>.json.
func (s *ExportServiceImpl) ExportTasks(ctx context.Context, ownerID uuid.UUID) (*dto.ExportResponse, error) {
	tasks, err := s.taskRepo.Find(ctx, repositories.TaskFilter{OwnerID: ownerID})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load tasks for export", "user_id", ownerID, "error", err)
		return nil, err
	}

	now := s.now().UTC()
	payload, err := json.MarshalIndent(taskExport{
		ExportedAt: now,
		OwnerID:    ownerID,
		Tasks:      dto.TasksToTaskResponses(tasks),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	path := fmt.Sprintf("exports/%s/%d.json", ownerID, now.Unix())
	url, err := s.storage.UploadFile(ctx, bytes.NewReader(payload), path, "application/json")
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload export", "path", path, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Tasks exported", "user_id", ownerID, "count", len(tasks), "provider", s.storage.GetProviderName())
	return &dto.ExportResponse{
		URL:      url,
		Count:    len(tasks),
		Provider: s.storage.GetProviderName(),
	}, nil
}
