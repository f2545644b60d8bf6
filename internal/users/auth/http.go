// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinema/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinema/internal/platform/request"
	"github.com/taibuivan/cinema/internal/platform/respond"
	"github.com/taibuivan/cinema/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Returns a token in the Authorization header.
//   - PUT  /update          : Partial update of the caller's account.
//   - PUT  /disable-account : Disables the caller's account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleUser, sec.RoleAdmin))
		r.Put("/update", handler.update)
		r.Put("/disable-account", handler.disableAccount)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username *string `json:"username"`
	LastName *string `json:"last_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Response:
  - 201: User: Created user profile
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates credentials and issues a session token.

POST /api/v1/auth/login

Response:
  - 200: Empty body, "Authorization: Bearer <token>" header
  - 401: INVALID_CREDENTIALS
  - 403: ACCOUNT_DISABLED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Bearer(writer, result.Token)
}

/*
Update applies a partial update to the caller's account.

PUT /api/v1/auth/update

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 409: New email already registered
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), identity.Subject, UpdateProfileInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DisableAccount disables the caller's account.

PUT /api/v1/auth/disable-account

Response:
  - 204: Account disabled
*/
func (handler *Handler) disableAccount(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.DisableAccount(request.Context(), identity.Subject); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
