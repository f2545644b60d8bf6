// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/constants"
	"github.com/taibuivan/cinema/internal/platform/metrics"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/platform/validate"
	"github.com/taibuivan/cinema/pkg/pointer"
	"github.com/taibuivan/cinema/pkg/uuid"
)

// # Errors

// Login failure kinds. They are the Cause of the AppError returned by
// [Service.Login], so callers can tell them apart with errors.Is while the
// client only ever sees the uniform response.
var (
	ErrUnknownIdentity = sec.ErrUnknownIdentity
	ErrBadCredential   = sec.ErrBadCredential
	ErrAccountDisabled = sec.ErrAccountDisabled
)

var (
	// errInvalidCredentials is shared by unknown email and wrong password.
	errInvalidCredentials = &apperr.AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}

	errAccountDisabled = &apperr.AppError{
		Code:       "ACCOUNT_DISABLED",
		Message:    "Account is disabled",
		HTTPStatus: http.StatusForbidden,
	}
)

// Login results recorded in metrics.
const (
	loginSuccess         = "success"
	loginUnknownIdentity = "unknown_identity"
	loginBadCredential   = "bad_credential"
	loginDisabled        = "account_disabled"
)

// # Contracts & Types

// TokenIssuer signs session tokens. [*sec.TokenCodec] implements it.
type TokenIssuer interface {
	Encode(subject string, role sec.Role, issuedAt time.Time, validity time.Duration) (string, error)
}

// Settings holds the tunables of [Service].
type Settings struct {
	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration
	// IdentityCacheTTL bounds how long a resolved account stays cached.
	IdentityCacheTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service implements registration, login and identity resolution.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	identityCache  IdentityCache
	tokenIssuer    TokenIssuer
	hasher         *sec.PasswordHasher
	settings       Settings
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// NewService constructs a new [Service]. A nil cache disables identity caching.
func NewService(
	userRepo UserRepository,
	cache IdentityCache,
	issuer TokenIssuer,
	hasher *sec.PasswordHasher,
	settings Settings,
	logger *slog.Logger,
	recorder *metrics.Metrics,
) *Service {
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = constants.TokenValidity
	}
	if settings.IdentityCacheTTL <= 0 {
		settings.IdentityCacheTTL = constants.IdentityCacheTTL
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		userRepository: userRepo,
		identityCache:  cache,
		tokenIssuer:    issuer,
		hasher:         hasher,
		settings:       settings,
		logger:         logger,
		metrics:        recorder,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Username string
	LastName string
	Email    string
	Phone    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: New accounts always start as enabled USER accounts.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Conflict (email taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validateName(validator, FieldUsername, input.Username)
	validateName(validator, FieldLastName, input.LastName)
	validateEmail(validator, input.Email)
	validatePhone(validator, input.Phone)
	validatePassword(validator, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	if err := service.ensureEmailFree(context, input.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.settings.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "auth_user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a freshly issued session token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

/*
Login validates user credentials and issues a session token.

Description: Lookup, then the enabled check, then a constant-time password
comparison. Unknown email and wrong password return the same error; the
unknown path still burns one bcrypt comparison so timing does not reveal
which emails are registered. No state is changed.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: The signed token and its expiry
  - error: INVALID_CREDENTIALS (401), ACCOUNT_DISABLED (403) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)

	// 1. Lookup
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		service.hasher.VerifyDummy(input.Password)
		service.metrics.RecordLogin(loginUnknownIdentity)
		return nil, errInvalidCredentials.WithCause(ErrUnknownIdentity)
	}

	// 2. Enabled
	if !user.Enabled {
		service.metrics.RecordLogin(loginDisabled)
		return nil, errAccountDisabled.WithCause(ErrAccountDisabled)
	}

	// 3. Password
	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.metrics.RecordLogin(loginBadCredential)
		return nil, errInvalidCredentials.WithCause(ErrBadCredential)
	}

	// 4. Token
	issuedAt := service.settings.Now()
	token, err := service.tokenIssuer.Encode(user.Email, user.Role, issuedAt, service.settings.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.metrics.RecordLogin(loginSuccess)
	return &LoginResult{
		Token:     token,
		ExpiresAt: issuedAt.Truncate(time.Second).Add(service.settings.TokenTTL),
		User:      user,
	}, nil
}

// # Identity Resolution

/*
ResolveIdentity maps verified token claims onto a live account.

Description: Read-through cache in front of the user store. The role comes
from the token; the store contributes display fields and the enabled flag.
Cache failures degrade to a store lookup.

Parameters:
  - context: context.Context
  - claims: *sec.Claims (already verified)

Returns:
  - *sec.Identity: The caller
  - error: ErrUnknownIdentity, ErrAccountDisabled or store failures
*/
func (service *Service) ResolveIdentity(context context.Context, claims *sec.Claims) (*sec.Identity, error) {
	account, err := service.lookupAccount(context, claims.Subject)
	if err != nil {
		return nil, err
	}

	if !account.Enabled {
		return nil, ErrAccountDisabled
	}

	return &sec.Identity{
		Subject:     claims.Subject,
		Role:        claims.Role,
		Username:    account.Username,
		DisplayName: account.DisplayName,
	}, nil
}

// lookupAccount consults the cache before the repository.
func (service *Service) lookupAccount(context context.Context, email string) (*Account, error) {
	email = NormalizeEmail(email)

	if service.identityCache != nil {
		account, err := service.identityCache.Get(context, email)
		switch {
		case err != nil:
			service.metrics.RecordCache("error")
			service.logger.WarnContext(context, "auth_identity_cache_get_failed", slog.Any("error", err))
		case account != nil:
			service.metrics.RecordCache("hit")
			return account, nil
		default:
			service.metrics.RecordCache("miss")
		}
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrUnknownIdentity
		}
		return nil, fmt.Errorf("auth_service_resolve_failed: %w", err)
	}

	account := user.Account()
	if service.identityCache != nil {
		if _, err := service.identityCache.Add(context, account, service.settings.IdentityCacheTTL); err != nil {
			service.logger.WarnContext(context, "auth_identity_cache_set_failed", slog.Any("error", err))
		}
	}

	return account, nil
}

// # Self-Service Account Management

// UpdateProfileInput carries a partial update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username *string
	LastName *string
	Email    *string
	Phone    *string
	Password *string
}

/*
UpdateProfile applies a partial update to the caller's own account.

Parameters:
  - context: context.Context
  - subject: string (email of the authenticated caller)
  - input: UpdateProfileInput

Returns:
  - *User: The updated account
  - error: Validation, NotFound, Conflict (email taken) or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, subject string, input UpdateProfileInput) (*User, error) {
	if input.Email != nil {
		normalized := NormalizeEmail(*input.Email)
		input.Email = &normalized
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		validateName(validator, FieldUsername, *input.Username)
	}
	if input.LastName != nil {
		validateName(validator, FieldLastName, *input.LastName)
	}
	if input.Email != nil {
		validateEmail(validator, *input.Email)
	}
	if input.Phone != nil {
		validatePhone(validator, *input.Phone)
	}
	if input.Password != nil {
		validatePassword(validator, *input.Password)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(subject))
	if err != nil {
		return nil, err
	}
	previousEmail := user.Email

	user.Username = pointer.Fallback(input.Username, user.Username)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Phone = pointer.Fallback(input.Phone, user.Phone)
	if input.Email != nil && *input.Email != user.Email {
		if err := service.ensureEmailFree(context, *input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashedPassword, err := service.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_update_failed: %w", err)
	}

	service.Invalidate(context, previousEmail, user.Email)
	return user, nil
}

/*
DisableAccount turns off the caller's account.

The cache entry is overwritten with the disabled record rather than evicted,
so a lookup that read the row before the update cannot re-cache it as
enabled. Tokens already issued stop authenticating immediately.
*/
func (service *Service) DisableAccount(context context.Context, subject string) error {
	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(subject))
	if err != nil {
		return err
	}

	if err := service.userRepository.SetEnabled(context, user.ID, false); err != nil {
		return fmt.Errorf("auth_service_disable_failed: %w", err)
	}

	user.Enabled = false
	service.pinDisabled(context, user.Account())
	service.logger.InfoContext(context, "auth_account_disabled", slog.String("user_id", user.ID))
	return nil
}

// Invalidate evicts cached identities. Failures are logged, not returned.
func (service *Service) Invalidate(context context.Context, emails ...string) {
	if service.identityCache == nil {
		return
	}
	if err := service.identityCache.Delete(context, emails...); err != nil {
		service.logger.WarnContext(context, "auth_identity_cache_delete_failed", slog.Any("error", err))
	}
}

// pinDisabled caches a disabled record, falling back to eviction.
func (service *Service) pinDisabled(context context.Context, account *Account) {
	if service.identityCache == nil {
		return
	}
	if err := service.identityCache.Set(context, account, service.settings.IdentityCacheTTL); err != nil {
		service.logger.WarnContext(context, "auth_identity_cache_set_failed", slog.Any("error", err))
		service.Invalidate(context, account.Email)
	}
}

// # Helpers

// ensureEmailFree returns Conflict when email already belongs to an account.
func (service *Service) ensureEmailFree(context context.Context, email string) error {
	_, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil:
		return apperr.Conflict("Email is already registered")
	case apperr.IsNotFound(err):
		return nil
	default:
		return fmt.Errorf("auth_service_email_check_failed: %w", err)
	}
}

func validateName(validator *validate.Validator, field, value string) {
	validator.Required(field, value).Length(field, value, NameMinLen, NameMaxLen)
}

func validateEmail(validator *validate.Validator, email string) {
	validator.Required(FieldEmail, email).Email(FieldEmail, email).MaxLen(FieldEmail, email, EmailMaxLen)
}

func validatePhone(validator *validate.Validator, phone string) {
	validator.Digits(FieldPhone, phone).Length(FieldPhone, phone, PhoneMinLen, PhoneMaxLen)
}

func validatePassword(validator *validate.Validator, password string) {
	validator.Required(FieldPassword, password).
		MinLen(FieldPassword, password, PasswordMinLen).
		Custom(FieldPassword, len(password) > sec.MaxPasswordBytes,
			fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))
}
