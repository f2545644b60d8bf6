// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/ctxutil"
	"github.com/taibuivan/cinema/internal/platform/respond"
	"github.com/taibuivan/cinema/internal/platform/sec"
)

// RequireRole blocks requests whose identity does not hold one of roles.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Roles match
// exactly, so an endpoint open to both USER and ADMIN lists both.
//
// # Flow
//  1. Anonymous: abort with HTTP 401 Unauthorized.
//  2. Role not listed: abort with HTTP 403 Forbidden.
func RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch sec.Authorize(ctxutil.GetIdentity(request.Context()), roles...) {
			case sec.DenyAnonymous:
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			case sec.DenyRole:
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}
