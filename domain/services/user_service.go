package services

import (
	"context"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"time"

	"github.com/google/uuid"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, time.Time, *models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateJWT(user *models.User) (string, time.Time, error)
}
