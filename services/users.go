package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prono-league/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB      *gorm.DB
	logger  *slog.Logger
	metrics *Metrics
}

func NewUserService(db *gorm.DB, logger *slog.Logger, metrics *Metrics) *UserService {
	return &UserService{DB: db, logger: logger, metrics: metrics}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
}

// Register creates a contestant with zero points. Usernames are trimmed and unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var taken int64
	if err := db.Model(&models.User{}).Where("username = ?", in.Username).Count(&taken).Error; err != nil {
		return nil, storageError("check username", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: username %q is already taken", ErrConflict, in.Username)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: in.Username,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, storageError("create user", err)
	}

	s.metrics.UsersRegistered.Inc()
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// List returns every user, best total first and earlier registrations ahead on ties.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("total_points DESC, created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupError("user", err)
	}
	return &user, nil
}
