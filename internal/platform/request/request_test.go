// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/cinema/internal/platform/request"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/platform/validate"
)

/*
TestDecodeJSON covers a valid payload and a broken one.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Email string `json:"email"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com"}`))
	require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
	assert.Equal(t, "a@b.com", target.Email)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.ErrorIs(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target), validate.ErrInvalidJSON)
}

/*
TestIntParam parses chi URL parameters.
*/
func TestIntParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", value)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
	}

	id, err := requestutil.IntParam(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := requestutil.IntParam(withParam(raw), "id")
		ae := apperr.As(err)
		require.NotNil(t, ae, raw)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	}
}

/*
TestRequiredIdentity distinguishes anonymous and authenticated requests.
*/
func TestRequiredIdentity(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := requestutil.RequiredIdentity(request)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Nil(t, requestutil.Identity(request))

	identity := &sec.Identity{Subject: "a@b.com", Role: sec.RoleUser}
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))

	got, err := requestutil.RequiredIdentity(request)
	require.NoError(t, err)
	assert.Same(t, identity, got)
}
