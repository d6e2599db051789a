package service

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
)

type IUserService interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, userID uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, user *model.User) error
	DeleteUser(ctx context.Context, actor model.Actor, userID uint) error
}

type UserService struct {
	userRepo db.IUserRepository
}

func NewUserService(userRepo db.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.UserName == "" {
		return nil, apperr.Validation("user name is required")
	}
	if !strings.Contains(user.UserEmail, "@") {
		return nil, apperr.Validation("invalid email %q", user.UserEmail)
	}
	if user.Role == "" {
		user.Role = model.RoleBuyer
	}
	if !user.Role.IsValid() {
		return nil, apperr.Validation("invalid role %q", user.Role)
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *UserService) ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only admins can list users")
	}
	return s.userRepo.GetAllUsers(ctx)
}

// UpdateUser 本人或admin可以改，角色變更只限admin
func (s *UserService) UpdateUser(ctx context.Context, actor model.Actor, user *model.User) error {
	if !actor.IsAdmin() && !actor.Owns(user.UserID) {
		return apperr.Authorization("cannot update another user")
	}
	existing, err := s.userRepo.GetUserByID(ctx, user.UserID)
	if err != nil {
		return err
	}
	if user.Role != existing.Role && !actor.IsAdmin() {
		return apperr.Authorization("only admins can change roles")
	}
	if !user.Role.IsValid() {
		return apperr.Validation("invalid role %q", user.Role)
	}
	return s.userRepo.UpdateUser(ctx, user)
}

// DeleteUser 連同購物車一起刪 (repo內cascade)
func (s *UserService) DeleteUser(ctx context.Context, actor model.Actor, userID uint) error {
	if !actor.IsAdmin() && !actor.Owns(userID) {
		return apperr.Authorization("cannot delete another user")
	}
	return s.userRepo.DeleteUser(ctx, userID)
}

var _ IUserService = (*UserService)(nil)
