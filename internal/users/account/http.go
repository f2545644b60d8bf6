// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinema/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinema/internal/platform/request"
	"github.com/taibuivan/cinema/internal/platform/respond"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/pkg/pagination"
)

// Handler implements the HTTP layer for account administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the admin account endpoints.
//
// # Endpoints
//   - GET /users             : Paginated list (role, enabled filters).
//   - GET /users/search      : Lookup by ?email=.
//   - PUT /users/change-role : Promotes {email} to ADMIN.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/users", handler.listUsers)
	router.Get("/users/search", handler.searchUser)
	router.Put("/users/change-role", handler.changeRole)

	return router
}

/*
GET /api/v1/admin/users.

Request:
  - query: page, limit, role, enabled

Response:
  - 200: []User with pagination meta
  - 400: Invalid filter values
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	filter, err := ParseFilter(requestutil.Query(request, QueryRole), requestutil.Query(request, QueryEnabled))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	users, total, err := handler.accountService.ListUsers(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, page.Meta(total))
}

/*
GET /api/v1/admin/users/search?email=.

Response:
  - 200: User
  - 400: Missing email
  - 404: No such account
*/
func (handler *Handler) searchUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.FindByEmail(request.Context(), requestutil.Query(request, QueryEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type changeRoleRequest struct {
	Email string `json:"email"`
}

/*
PUT /api/v1/admin/users/change-role.

Request:
  - body: {"email": "..."}

Response:
  - 200: User: The promoted account
  - 404: No such account
  - 409: Already ADMIN
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	var input changeRoleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.PromoteToAdmin(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
