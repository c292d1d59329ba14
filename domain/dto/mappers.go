package dto

import (
	"taskhub/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	tags := make([]string, len(task.Tags))
	copy(tags, task.Tags)

	return &TaskResponse{
		ID:           task.ID,
		Content:      task.Content,
		Description:  task.Description,
		ProjectID:    task.ProjectID,
		ParentID:     task.ParentID,
		Priority:     task.Priority.Int(),
		DueDate:      task.DueDate,
		Tags:         tags,
		IsCompleted:  task.IsCompleted,
		Order:        task.Order,
		SubtaskCount: task.SubtaskCount,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *TaskToTaskResponse(task)
	}
	return responses
}

func ProjectToProjectResponse(project *models.Project) *ProjectResponse {
	if project == nil {
		return nil
	}
	return &ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		Slug:      project.Slug,
		Color:     project.Color,
		IsInbox:   project.IsInbox,
		Order:     project.Order,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

func ActivityToActivityResponse(entry *models.ActivityLog) *ActivityResponse {
	if entry == nil {
		return nil
	}
	return &ActivityResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		CreatedAt:  entry.CreatedAt,
	}
}

func CompletionToCompletionResponse(parent *models.Task, stats models.CompletionStats) *CompletionResponse {
	return &CompletionResponse{
		ParentID:   parent.ID,
		Total:      stats.Total,
		Completed:  stats.Completed,
		Percentage: stats.Percentage,
	}
}
