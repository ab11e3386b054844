package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pos-service/internal/entity"
	"pos-service/internal/repository"
)

type UserService struct {
	repo     *repository.UserRepository
	hashCost int
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, hashCost int) *UserService {
	return &UserService{repo: repo, hashCost: hashCost}
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.repo.GetUsers(ctx)
}

func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.repo.GetRoles(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" || user.Email == "" || user.Password == "" {
		return nil, missingFields("email")
	}
	if user.RoleID <= 0 {
		return nil, &ValidationError{Field: "role_id", Message: "role is required"}
	}

	if err := s.checkEmail(ctx, user.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hash(user.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.Password = ""

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		switch {
		case repository.IsDuplicateKey(err):
			return nil, &ConflictError{Message: "email already registered"}
		case repository.IsForeignKeyViolation(err):
			return nil, &ValidationError{Field: "role_id", Message: "unknown role"}
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return createdUser, nil
}

// UpdateUser rewrites the account. The password hash is only replaced when a
// new password is supplied.
func (s *UserService) UpdateUser(ctx context.Context, user *entity.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.ID <= 0 || user.Name == "" || user.Email == "" {
		return missingFields("email")
	}
	if user.RoleID <= 0 {
		return &ValidationError{Field: "role_id", Message: "role is required"}
	}

	if err := s.checkEmail(ctx, user.Email, user.ID); err != nil {
		return err
	}

	user.PasswordHash = ""
	if user.Password != "" {
		hash, err := s.hash(user.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.Password = ""
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return &NotFoundError{Entity: "user", ID: user.ID}
		case repository.IsDuplicateKey(err):
			return &ConflictError{Message: "email already registered"}
		case repository.IsForeignKeyViolation(err):
			return &ValidationError{Field: "role_id", Message: "unknown role"}
		}
		logger.Error().Err(err).Msgf("Error updating user %d", user.ID)
		return err
	}
	return nil
}

func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "user", ID: id}
		}
		return err
	}
	return nil
}

func (s *UserService) checkEmail(ctx context.Context, email string, excludeID int) error {
	exists, err := s.repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Message: "email already registered"}
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
