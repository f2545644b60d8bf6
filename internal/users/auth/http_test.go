// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinema/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinema/internal/platform/request"
	"github.com/taibuivan/cinema/internal/platform/respond"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/users/auth"
)

// newRouter mounts the auth routes behind the authentication gate plus a
// /whoami probe reporting the identity the gate attached.
func newRouter(h *harness) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(h.codec, h.service, h.metrics))
	router.Mount("/auth", auth.NewHandler(h.service).Routes())
	router.Get("/whoami", func(writer http.ResponseWriter, request *http.Request) {
		identity := requestutil.Identity(request)
		if identity == nil {
			respond.OK(writer, map[string]string{"subject": "", "role": ""})
			return
		}
		respond.OK(writer, map[string]string{"subject": identity.Subject, "role": string(identity.Role)})
	})
	return router
}

func send(t *testing.T, handler http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func whoami(t *testing.T, handler http.Handler, authorization string) map[string]string {
	t.Helper()
	recorder := send(t, handler, http.MethodGet, "/whoami", authorization, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Data
}

func flipLast(token string) string {
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return token[:len(token)-1] + string(replacement)
}

/*
TestLoginThenAuthenticate exercises login and the gate end to end.
*/
func TestLoginThenAuthenticate(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "a@b.com", "correct123", sec.RoleUser, true)
	router := newRouter(h)

	recorder := send(t, router, http.MethodPost, "/auth/login", "", `{"email":"a@b.com","password":"correct123"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Body.String())

	header := recorder.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "))
	token := strings.TrimPrefix(header, "Bearer ")

	assert.Equal(t, map[string]string{"subject": "a@b.com", "role": "USER"}, whoami(t, router, header))

	anonymous := map[string]string{"subject": "", "role": ""}
	assert.Equal(t, anonymous, whoami(t, router, "Bearer "+flipLast(token)))
	assert.Equal(t, anonymous, whoami(t, router, ""))
	assert.Equal(t, anonymous, whoami(t, router, "Basic xyz"))
}

/*
TestLogin_HTTPFailures checks the status and body of rejected logins.
*/
func TestLogin_HTTPFailures(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "a@b.com", "correct123", sec.RoleUser, true)
	h.seed(t, "off@b.com", "correct123", sec.RoleUser, false)
	router := newRouter(h)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown_email", `{"email":"x@b.com","password":"correct123"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"wrong_password", `{"email":"a@b.com","password":"nope"}`, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"disabled", `{"email":"off@b.com","password":"correct123"}`, http.StatusForbidden, "ACCOUNT_DISABLED"},
		{"malformed_json", `{"email":`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := send(t, router, http.MethodPost, "/auth/login", "", tt.body)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Empty(t, recorder.Header().Get("Authorization"))

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
			assert.Equal(t, tt.code, envelope.Code)
		})
	}
}

/*
TestRegister_HTTP creates an account and hides the password hash.
*/
func TestRegister_HTTP(t *testing.T) {
	h := newHarness(t)
	router := newRouter(h)

	recorder := send(t, router, http.MethodPost, "/auth/register", "",
		`{"username":"alice","last_name":"smith","email":"alice@example.com","phone":"0912345678","password":"correct123"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "password")

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, "alice@example.com", envelope.Data["email"])
	assert.Equal(t, "USER", envelope.Data["role"])

	recorder = send(t, router, http.MethodPost, "/auth/register", "",
		`{"username":"alice","last_name":"smith","email":"alice@example.com","phone":"0912345678","password":"correct123"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

/*
TestSelfService_RequiresAuthentication guards the account endpoints.
*/
func TestSelfService_RequiresAuthentication(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "a@b.com", "correct123", sec.RoleUser, true)
	router := newRouter(h)

	assert.Equal(t, http.StatusUnauthorized, send(t, router, http.MethodPut, "/auth/update", "", `{"last_name":"walker"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, send(t, router, http.MethodPut, "/auth/disable-account", "", "").Code)

	token, err := h.codec.Encode("a@b.com", sec.RoleUser, fixedNow, 24*time.Hour)
	require.NoError(t, err)

	recorder := send(t, router, http.MethodPut, "/auth/update", "Bearer "+token, `{"last_name":"walker"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"last_name":"walker"`)

	recorder = send(t, router, http.MethodPut, "/auth/disable-account", "Bearer "+token, "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	// The same token no longer authenticates.
	assert.Equal(t, http.StatusUnauthorized, send(t, router, http.MethodPut, "/auth/update", "Bearer "+token, `{}`).Code)
}
