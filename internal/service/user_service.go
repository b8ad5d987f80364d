package service

import (
	"context"
	"strings"

	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// UserStore — хранилище пользователей.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type UserService struct {
	store  UserStore
	logger *zerolog.Logger
}

func NewUserService(store UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Invalid("user name must not be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateUser применяет частичное обновление имени и почты.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, Invalid("user name must not be empty")
		}
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return nil, err
		}
		user.Email = *upd.Email
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// validateEmail проверяет только форму адреса, без обращения к DNS.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invalid("email must not be empty")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return Invalid("invalid email address")
	}
	return nil
}
