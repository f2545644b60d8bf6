// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/platform/validate"
	"github.com/taibuivan/cinema/internal/users/auth"
	"github.com/taibuivan/cinema/pkg/pagination"
)

// # Service Layer

// Service orchestrates administrative operations on user accounts.
type Service struct {
	userRepository auth.UserRepository
	invalidator    IdentityInvalidator
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo auth.UserRepository, invalidator IdentityInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepository: userRepo,
		invalidator:    invalidator,
		logger:         logger,
	}
}

// # Listing

/*
ListUsers returns one page of accounts matching filter.

Parameters:
  - context: context.Context
  - filter: auth.UserFilter
  - page: pagination.Params

Returns:
  - []*auth.User: The page, oldest account first
  - int: Total number of matching accounts
  - error: Storage failures
*/
func (service *Service) ListUsers(context context.Context, filter auth.UserFilter, page pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.userRepository.List(context, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
FindByEmail looks up a single account.

Returns:
  - *auth.User: The account
  - error: VALIDATION_ERROR for a blank email, NotFound, or storage failures
*/
func (service *Service) FindByEmail(context context.Context, email string) (*auth.User, error) {
	email = auth.NormalizeEmail(email)
	if email == "" {
		return nil, validate.RequiredError(QueryEmail, "This field is required")
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil, fmt.Errorf("account_service_find_failed: %w", err)
	}
	return user, nil
}

// # Role Management

/*
PromoteToAdmin grants the ADMIN role to the account with the given email.

Description: Tokens already issued keep the role they were signed with; the
promoted user sees ADMIN after the next login. The cached identity is evicted
so display fields refresh immediately.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *auth.User: The promoted account
  - error: NotFound, Conflict (already ADMIN) or storage failures
*/
func (service *Service) PromoteToAdmin(context context.Context, email string) (*auth.User, error) {
	user, err := service.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	if user.Role == sec.RoleAdmin {
		return nil, apperr.Conflict("User is already an admin")
	}

	if err := service.userRepository.UpdateRole(context, user.ID, sec.RoleAdmin); err != nil {
		return nil, fmt.Errorf("account_service_promote_failed: %w", err)
	}
	user.Role = sec.RoleAdmin

	if service.invalidator != nil {
		service.invalidator.Invalidate(context, user.Email)
	}

	service.logger.InfoContext(context, "account_promoted_to_admin", slog.String("user_id", user.ID))
	return user, nil
}
