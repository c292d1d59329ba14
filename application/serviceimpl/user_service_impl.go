package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo       repositories.UserRepository
	projectService services.ProjectService
	jwtSecret      string
	jwtTTL         time.Duration
}

func NewUserService(userRepo repositories.UserRepository, projectService services.ProjectService, jwtSecret string, jwtTTL time.Duration) services.UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		projectService: projectService,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, _ := s.userRepo.GetByEmail(ctx, email); existing != nil {
		logger.WarnContext(ctx, "Email already exists", "email", email)
		return nil, fmt.Errorf("%w: email already exists", services.ErrConflict)
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		logger.WarnContext(ctx, "Username already exists", "username", req.Username)
		return nil, fmt.Errorf("%w: username already exists", services.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      "user",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, err
	}

	if _, err := s.projectService.EnsureInbox(ctx, user.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to create inbox for new user", "user_id", user.ID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, time.Time, *models.User, error) {
	invalid := fmt.Errorf("%w: invalid email or password", services.ErrUnauthorized)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		logger.WarnContext(ctx, "Login failed - email not found", "email", req.Email)
		return "", time.Time{}, nil, invalid
	}

	if !user.IsActive {
		logger.WarnContext(ctx, "Login failed - account disabled", "user_id", user.ID)
		return "", time.Time{}, nil, fmt.Errorf("%w: account is disabled", services.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return "", time.Time{}, nil, invalid
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", time.Time{}, nil, err
	}

	logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return token, expiresAt, user, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) GenerateJWT(user *models.User) (string, time.Time, error) {
	return utils.GenerateToken(utils.UserContext{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, s.jwtSecret, s.jwtTTL, time.Now())
}
